package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"society-be-svc/internal/models"
	"society-be-svc/internal/repository"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
)

// OverdueSweepCode identifies overdue sweep runs in scheduler_logs
const OverdueSweepCode = "MAINTENANCE_OVERDUE_SWEEP"

// OverdueScheduler periodically moves past-due pending bills to overdue
type OverdueScheduler struct {
	maintenanceService service.MaintenanceService
	schedulerLogRepo   repository.SchedulerLogRepository
	logger             *logger.Logger
	cron               *cron.Cron
	cronExpression     string
	now                func() time.Time
}

// NewOverdueScheduler creates a new overdue scheduler
func NewOverdueScheduler(maintenanceService service.MaintenanceService, schedulerLogRepo repository.SchedulerLogRepository, logger *logger.Logger, cronExpression string) *OverdueScheduler {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &OverdueScheduler{
		maintenanceService: maintenanceService,
		schedulerLogRepo:   schedulerLogRepo,
		logger:             logger,
		cron:               c,
		cronExpression:     cronExpression,
		now:                time.Now,
	}
}

// Start schedules the sweep and starts the cron runner
func (s *OverdueScheduler) Start() error {
	s.logger.Info("Starting overdue scheduler...")

	// Cron format: "seconds minutes hours day-of-month month day-of-week"
	s.logger.WithField("cron_expression", s.cronExpression).Info("Scheduling overdue sweep job")
	if _, err := s.cron.AddFunc(s.cronExpression, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Overdue scheduler started successfully")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep to finish
func (s *OverdueScheduler) Stop() {
	s.logger.Info("Stopping overdue scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Overdue scheduler stopped successfully")
}

// RunOnce performs one sweep and records its progress in scheduler_logs. It returns the
// run's document ID.
func (s *OverdueScheduler) RunOnce(ctx context.Context) string {
	docID := uuid.New().String()
	now := s.now()

	s.logScheduler(ctx, docID, "Starting scheduled overdue sweep", models.SchedulerStatusStart)
	s.logScheduler(ctx, docID, fmt.Sprintf("Marking pending bills due before %s as overdue", now.Format(time.RFC3339)), models.SchedulerStatusRunning)

	count, err := s.maintenanceService.MarkOverdue(ctx, now)
	if err != nil {
		s.logScheduler(ctx, docID, fmt.Sprintf("Failed to mark bills overdue: %v", err), models.SchedulerStatusFailed)
		s.logger.WithError(err).Error("Overdue sweep failed")
		return docID
	}

	s.logScheduler(ctx, docID, fmt.Sprintf("Marked %d bills overdue", count), models.SchedulerStatusSuccess)
	s.logger.WithField("count", count).Info("Scheduled overdue sweep completed")

	return docID
}

// logScheduler creates a new log entry in the database
func (s *OverdueScheduler) logScheduler(ctx context.Context, documentID, message, status string) {
	entry := &models.SchedulerLog{
		DocumentID:    documentID,
		SchedulerCode: OverdueSweepCode,
		Message:       message,
		Status:        status,
	}

	if err := s.schedulerLogRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to create scheduler log entry")
	} else {
		s.logger.WithField("status", status).WithField("document_id", documentID).Debug("Scheduler log entry created")
	}
}
