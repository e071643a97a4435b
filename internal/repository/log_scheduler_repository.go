package repository

import (
	"context"

	"gorm.io/gorm"

	"society-be-svc/internal/models"
)

// SchedulerLogRepository defines the interface for scheduler log data operations
type SchedulerLogRepository interface {
	Create(ctx context.Context, log *models.SchedulerLog) error
	ListByDocumentID(ctx context.Context, documentID string) ([]*models.SchedulerLog, error)
}

// schedulerLogRepository implements SchedulerLogRepository
type schedulerLogRepository struct {
	db *gorm.DB
}

// NewSchedulerLogRepository creates a new instance of SchedulerLogRepository
func NewSchedulerLogRepository(db *gorm.DB) SchedulerLogRepository {
	return &schedulerLogRepository{
		db: db,
	}
}

// Create creates a new scheduler log record
func (r *schedulerLogRepository) Create(ctx context.Context, log *models.SchedulerLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByDocumentID retrieves the log entries of one scheduler run in insertion order
func (r *schedulerLogRepository) ListByDocumentID(ctx context.Context, documentID string) ([]*models.SchedulerLog, error) {
	var logs []*models.SchedulerLog

	err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Order("id").Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
