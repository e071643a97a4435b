package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"society-be-svc/internal/models"
)

// BillFilter narrows bill listings. Zero values are ignored.
type BillFilter struct {
	Wing   string
	FlatNo string
	Month  string
	Year   *int
	Status models.BillStatus
}

// MaintenanceRepository defines the interface for maintenance bill data operations
type MaintenanceRepository interface {
	WithTx(tx *gorm.DB) MaintenanceRepository
	Create(ctx context.Context, bill *models.MaintenanceBill) error
	CreateSkippingConflicts(ctx context.Context, bills []*models.MaintenanceBill) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.MaintenanceBill, error)
	ExistsForPeriod(ctx context.Context, wing, flatNo, month string, year int) (bool, error)
	DeleteByPeriod(ctx context.Context, month string, year int) (int64, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter BillFilter) ([]*models.MaintenanceBill, error)
	MarkPaid(ctx context.Context, id uint, method string, paidAt time.Time) error
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context, status models.BillStatus) (int64, error)
}

// maintenanceRepository implements MaintenanceRepository
type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new instance of MaintenanceRepository
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *maintenanceRepository) WithTx(tx *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: tx}
}

// Create inserts a single bill
func (r *maintenanceRepository) Create(ctx context.Context, bill *models.MaintenanceBill) error {
	return translate(r.db.WithContext(ctx).Create(bill).Error)
}

// CreateSkippingConflicts inserts bills in batches of 100. Rows that collide with an
// existing (wing, flatNo, month, year) are skipped and do not abort the others.
// Returns the number of rows actually inserted.
func (r *maintenanceRepository) CreateSkippingConflicts(ctx context.Context, bills []*models.MaintenanceBill) (int64, error) {
	if len(bills) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(bills, 100)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// GetByID retrieves a bill
func (r *maintenanceRepository) GetByID(ctx context.Context, id uint) (*models.MaintenanceBill, error) {
	var bill models.MaintenanceBill

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bill).Error
	if err != nil {
		return nil, translate(err)
	}

	return &bill, nil
}

// ExistsForPeriod reports whether a flat already has a bill for (month, year)
func (r *maintenanceRepository) ExistsForPeriod(ctx context.Context, wing, flatNo, month string, year int) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Where("wing = ? AND flat_no = ? AND month = ? AND year = ?", wing, flatNo, month, year).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// DeleteByPeriod removes every bill of (month, year) across all flats
func (r *maintenanceRepository) DeleteByPeriod(ctx context.Context, month string, year int) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Delete(&models.MaintenanceBill{})
	return result.RowsAffected, result.Error
}

// Delete removes a bill regardless of its status
func (r *maintenanceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MaintenanceBill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves bills matching filter, newest year first
func (r *maintenanceRepository) List(ctx context.Context, filter BillFilter) ([]*models.MaintenanceBill, error) {
	var bills []*models.MaintenanceBill

	query := r.db.WithContext(ctx).Model(&models.MaintenanceBill{})
	if filter.Wing != "" {
		query = query.Where("wing = ?", filter.Wing)
	}
	if filter.FlatNo != "" {
		query = query.Where("flat_no = ?", filter.FlatNo)
	}
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	err := query.Order("year DESC, created_at DESC, id DESC").Find(&bills).Error
	if err != nil {
		return nil, err
	}

	return bills, nil
}

// MarkPaid flips an unpaid bill to paid. ErrNotFound means no unpaid bill with that id exists.
func (r *maintenanceRepository) MarkPaid(ctx context.Context, id uint, method string, paidAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Where("id = ? AND status <> ?", id, models.BillStatusPaid).
		Updates(map[string]interface{}{
			"status":         models.BillStatusPaid,
			"paid_date":      paidAt,
			"payment_method": method,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOverdue flips pending bills due before the given time to overdue
func (r *maintenanceRepository) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Where("status = ? AND due_date < ?", models.BillStatusPending, before).
		Update("status", models.BillStatusOverdue)
	return result.RowsAffected, result.Error
}

// CountByStatus counts bills in the given status
func (r *maintenanceRepository) CountByStatus(ctx context.Context, status models.BillStatus) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Where("status = ?", status).
		Count(&count).Error

	return count, err
}
