package repository

import (
	"context"

	"gorm.io/gorm"

	"society-be-svc/internal/models/response"
)

// DashboardRepository defines the interface for dashboard data operations
type DashboardRepository interface {
	GetBillStatusAggregates(ctx context.Context, month string, year *int) ([]response.BillStatusAggregate, error)
}

// dashboardRepository implements DashboardRepository
type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{
		db: db,
	}
}

// GetBillStatusAggregates counts and sums bills per status with optional month and year filters
func (r *dashboardRepository) GetBillStatusAggregates(ctx context.Context, month string, year *int) ([]response.BillStatusAggregate, error) {
	var rows []response.BillStatusAggregate

	query := `
		SELECT
			status,
			COUNT(*) AS count,
			COALESCE(SUM(amount), 0) AS amount
		FROM maintenance_bills
		WHERE 1 = 1
	`

	var args []interface{}

	// Add month filter if provided
	if month != "" {
		query += " AND month = ?"
		args = append(args, month)
	}

	// Add year filter if provided
	if year != nil {
		query += " AND year = ?"
		args = append(args, *year)
	}

	query += " GROUP BY status"

	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
