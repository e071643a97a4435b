package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"society-be-svc/internal/models"
	"society-be-svc/internal/models/response"
	"society-be-svc/internal/repository"
	"society-be-svc/pkg/logger"
)

// DashboardCache caches the dashboard counters between writes
type DashboardCache interface {
	Get(ctx context.Context) (*response.DashboardStatisticsResponse, bool)
	Set(ctx context.Context, stats *response.DashboardStatisticsResponse)
	Invalidate(ctx context.Context)
}

// NopDashboardCache never caches
type NopDashboardCache struct{}

func (NopDashboardCache) Get(context.Context) (*response.DashboardStatisticsResponse, bool) {
	return nil, false
}
func (NopDashboardCache) Set(context.Context, *response.DashboardStatisticsResponse) {}
func (NopDashboardCache) Invalidate(context.Context)                                 {}

// DashboardService interface defines dashboard service methods
type DashboardService interface {
	GetDashboardStatistics(ctx context.Context) (*response.DashboardStatisticsResponse, error)
}

// dashboardService implements DashboardService interface
type dashboardService struct {
	userRepo repository.UserRepository
	flatRepo repository.FlatRepository
	billRepo repository.MaintenanceRepository
	cache    DashboardCache
	logger   *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repository.UserRepository,
	flatRepo repository.FlatRepository,
	billRepo repository.MaintenanceRepository,
	cache DashboardCache,
	logger *logger.Logger,
) DashboardService {
	return &dashboardService{
		userRepo: userRepo,
		flatRepo: flatRepo,
		billRepo: billRepo,
		cache:    cache,
		logger:   logger,
	}
}

// GetDashboardStatistics counts residents, flats and bills. The counts run concurrently
// and the result is cached.
func (s *dashboardService) GetDashboardStatistics(ctx context.Context) (*response.DashboardStatisticsResponse, error) {
	if stats, ok := s.cache.Get(ctx); ok {
		return stats, nil
	}

	stats := &response.DashboardStatisticsResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalResidents, err = s.userRepo.CountVerifiedResidents(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalFlats, err = s.flatRepo.Count(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		stats.VacantFlats, err = s.flatRepo.Count(gctx, models.FlatStatusVacant)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingBills, err = s.billRepo.CountByStatus(gctx, models.BillStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueBills, err = s.billRepo.CountByStatus(gctx, models.BillStatusOverdue)
		return err
	})
	g.Go(func() (err error) {
		stats.PaidBills, err = s.billRepo.CountByStatus(gctx, models.BillStatusPaid)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Error("Failed to get dashboard statistics")
		return nil, fmt.Errorf("failed to get dashboard statistics: %w", err)
	}

	s.cache.Set(ctx, stats)

	s.logger.WithFields(map[string]interface{}{
		"total_residents": stats.TotalResidents,
		"total_flats":     stats.TotalFlats,
		"pending_bills":   stats.PendingBills,
	}).Info("Dashboard statistics retrieved successfully")

	return stats, nil
}
