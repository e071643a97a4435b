package repository

import (
	"context"

	"gorm.io/gorm"

	"society-be-svc/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	AdminExists(ctx context.Context) (bool, error)
	FindResidentByUnit(ctx context.Context, wing, flatNo string) (*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ClearUnit(ctx context.Context, wing, flatNo string) (int64, error)
	List(ctx context.Context) ([]*models.User, error)
	ListUnassignedResidents(ctx context.Context) ([]*models.User, error)
	CountVerifiedResidents(ctx context.Context) (int64, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

// Create inserts a user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID retrieves a user with the linked flat
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).Preload("Flat").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// GetByEmail retrieves a user with the linked flat by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).Preload("Flat").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// AdminExists reports whether an admin account exists
func (r *userRepository) AdminExists(ctx context.Context) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// FindResidentByUnit retrieves the resident living in (wing, flatNo)
func (r *userRepository) FindResidentByUnit(ctx context.Context, wing, flatNo string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("wing = ? AND flat_no = ? AND role = ?", wing, flatNo, models.RoleResident).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// UpdateFields updates the given columns of a user
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearUnit detaches every user living in (wing, flatNo)
func (r *userRepository) ClearUnit(ctx context.Context, wing, flatNo string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wing = ? AND flat_no = ?", wing, flatNo).
		Updates(map[string]interface{}{
			"wing":    "",
			"flat_no": "",
			"flat_id": nil,
		})
	return result.RowsAffected, result.Error
}

// List retrieves all users, newest first
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := r.db.WithContext(ctx).Preload("Flat").Order("created_at DESC, id DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// ListUnassignedResidents retrieves residents without a flat
func (r *userRepository) ListUnassignedResidents(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleResident).
		Where("wing IS NULL OR wing = '' OR flat_no IS NULL OR flat_no = ''").
		Order("created_at, id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// CountVerifiedResidents counts residents who verified their email
func (r *userRepository) CountVerifiedResidents(ctx context.Context) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_verified = ?", models.RoleResident, true).
		Count(&count).Error

	return count, err
}
