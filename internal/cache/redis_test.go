package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-be-svc/internal/config"
	"society-be-svc/internal/models/response"
)

func TestNewRedisClientDisabledWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(&config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestDashboardCacheWithoutClientIsAlwaysAMiss(t *testing.T) {
	ctx := context.Background()
	c := NewDashboardCache(nil)

	c.Set(ctx, &response.DashboardStatisticsResponse{TotalFlats: 3})
	_, ok := c.Get(ctx)
	assert.False(t, ok)

	c.Invalidate(ctx)

	var nilCache *DashboardCache
	_, ok = nilCache.Get(ctx)
	assert.False(t, ok)
}
