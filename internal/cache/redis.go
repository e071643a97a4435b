package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"society-be-svc/internal/config"
	"society-be-svc/internal/models/response"
)

const (
	DashboardStatsKey = "society:dashboard:stats"
	DashboardStatsTTL = 30 * time.Second
)

// NewRedisClient connects to Redis. It returns nil without error when no address is
// configured so callers can run without a cache.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// DashboardCache stores dashboard counters. A nil client turns every call into a miss.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a cache backed by client
func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{client: client, ttl: DashboardStatsTTL}
}

// Get returns the cached stats if present
func (c *DashboardCache) Get(ctx context.Context) (*response.DashboardStatisticsResponse, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, DashboardStatsKey).Bytes()
	if err != nil {
		return nil, false
	}

	var stats response.DashboardStatisticsResponse
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// Set caches stats for the configured TTL
func (c *DashboardCache) Set(ctx context.Context, stats *response.DashboardStatisticsResponse) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	c.client.Set(ctx, DashboardStatsKey, data, c.ttl)
}

// Invalidate drops the cached stats after a write that changes them
func (c *DashboardCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, DashboardStatsKey)
}
