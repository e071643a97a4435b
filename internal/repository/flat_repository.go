package repository

import (
	"context"

	"gorm.io/gorm"

	"society-be-svc/internal/models"
)

// FlatRepository defines the interface for flat data operations
type FlatRepository interface {
	WithTx(tx *gorm.DB) FlatRepository
	Create(ctx context.Context, flat *models.Flat) error
	GetByID(ctx context.Context, id uint) (*models.Flat, error)
	GetByUnit(ctx context.Context, wing, flatNo string) (*models.Flat, error)
	List(ctx context.Context, wing string) ([]*models.Flat, error)
	ListOccupied(ctx context.Context) ([]*models.Flat, error)
	ListWings(ctx context.Context) ([]string, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Vacate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, status models.FlatStatus) (int64, error)
}

// flatRepository implements FlatRepository
type flatRepository struct {
	db *gorm.DB
}

// NewFlatRepository creates a new instance of FlatRepository
func NewFlatRepository(db *gorm.DB) FlatRepository {
	return &flatRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *flatRepository) WithTx(tx *gorm.DB) FlatRepository {
	return &flatRepository{db: tx}
}

// Create inserts a flat
func (r *flatRepository) Create(ctx context.Context, flat *models.Flat) error {
	return translate(r.db.WithContext(ctx).Create(flat).Error)
}

// GetByID retrieves a flat with its resident
func (r *flatRepository) GetByID(ctx context.Context, id uint) (*models.Flat, error) {
	var flat models.Flat

	err := r.db.WithContext(ctx).Preload("Resident").Where("id = ?", id).First(&flat).Error
	if err != nil {
		return nil, translate(err)
	}

	return &flat, nil
}

// GetByUnit retrieves a flat by its (wing, flatNo) identity
func (r *flatRepository) GetByUnit(ctx context.Context, wing, flatNo string) (*models.Flat, error) {
	var flat models.Flat

	err := r.db.WithContext(ctx).Where("wing = ? AND flat_no = ?", wing, flatNo).First(&flat).Error
	if err != nil {
		return nil, translate(err)
	}

	return &flat, nil
}

// List retrieves flats ordered by wing and number, optionally restricted to one wing
func (r *flatRepository) List(ctx context.Context, wing string) ([]*models.Flat, error) {
	var flats []*models.Flat

	query := r.db.WithContext(ctx).Preload("Resident")
	if wing != "" {
		query = query.Where("wing = ?", wing)
	}

	err := query.Order("wing, flat_no").Find(&flats).Error
	if err != nil {
		return nil, err
	}

	return flats, nil
}

// ListOccupied retrieves every permanent or rented flat
func (r *flatRepository) ListOccupied(ctx context.Context) ([]*models.Flat, error) {
	var flats []*models.Flat

	err := r.db.WithContext(ctx).
		Where("status IN ?", models.OccupiedFlatStatuses).
		Order("wing, flat_no").
		Find(&flats).Error
	if err != nil {
		return nil, err
	}

	return flats, nil
}

// ListWings retrieves the distinct wing names
func (r *flatRepository) ListWings(ctx context.Context) ([]string, error) {
	var wings []string

	err := r.db.WithContext(ctx).Model(&models.Flat{}).Distinct().Order("wing").Pluck("wing", &wings).Error
	if err != nil {
		return nil, err
	}

	return wings, nil
}

// UpdateFields updates the given columns of a flat
func (r *flatRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Flat{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Vacate marks a flat vacant and clears its resident details
func (r *flatRepository) Vacate(ctx context.Context, id uint) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"status":        models.FlatStatusVacant,
		"resident_id":   nil,
		"resident_name": "",
		"phone":         "",
	})
}

// Delete removes a flat
func (r *flatRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Flat{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts flats, optionally restricted to one status
func (r *flatRepository) Count(ctx context.Context, status models.FlatStatus) (int64, error) {
	var count int64

	query := r.db.WithContext(ctx).Model(&models.Flat{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Count(&count).Error
	return count, err
}
