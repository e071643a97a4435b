package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"society-be-svc/internal/models"
	"society-be-svc/internal/models/response"
	"society-be-svc/internal/repository"
	"society-be-svc/pkg/logger"
)

// CreateFlatRequest is the payload for adding a flat to the inventory
type CreateFlatRequest struct {
	Wing         string            `json:"wing" example:"A"`
	FlatNo       string            `json:"flatNo" example:"101"`
	Status       models.FlatStatus `json:"status" example:"vacant"`
	OwnerName    string            `json:"ownerName" example:"Meera Shah"`
	Email        string            `json:"email" example:"owner@example.com"`
	Area         float64           `json:"area" example:"850"`
	ParkingSlots int               `json:"parkingSlots" example:"1"`
}

// UpdateFlatRequest is the payload for editing a flat. Nil fields are left unchanged.
type UpdateFlatRequest struct {
	OwnerName    *string            `json:"ownerName"`
	Email        *string            `json:"email"`
	Area         *float64           `json:"area"`
	ParkingSlots *int               `json:"parkingSlots"`
	Status       *models.FlatStatus `json:"status"`
}

// FlatService defines the interface for flat inventory and occupancy operations
type FlatService interface {
	CreateFlat(ctx context.Context, req CreateFlatRequest) (*models.Flat, error)
	ListFlats(ctx context.Context, wing string) ([]*models.Flat, error)
	ListWings(ctx context.Context) ([]string, error)
	UpdateFlat(ctx context.Context, id uint, req UpdateFlatRequest) (*models.Flat, error)
	SetFlatStatus(ctx context.Context, id uint, status models.FlatStatus) (*models.Flat, error)
	DeleteFlat(ctx context.Context, id uint) error
	AssignResident(ctx context.Context, userID, flatID uint) (*models.Flat, error)
	AvailableResidents(ctx context.Context) ([]response.AvailableResidentResponse, error)
}

// flatService implements FlatService
type flatService struct {
	db       *gorm.DB
	flatRepo repository.FlatRepository
	userRepo repository.UserRepository
	cache    DashboardCache
	logger   *logger.Logger
}

// NewFlatService creates a new instance of FlatService
func NewFlatService(
	db *gorm.DB,
	flatRepo repository.FlatRepository,
	userRepo repository.UserRepository,
	cache DashboardCache,
	logger *logger.Logger,
) FlatService {
	return &flatService{
		db:       db,
		flatRepo: flatRepo,
		userRepo: userRepo,
		cache:    cache,
		logger:   logger,
	}
}

// CreateFlat adds a vacant flat
func (s *flatService) CreateFlat(ctx context.Context, req CreateFlatRequest) (*models.Flat, error) {
	wing := NormalizeWing(req.Wing)
	flatNo := strings.TrimSpace(req.FlatNo)
	if wing == "" || flatNo == "" {
		return nil, ErrValidation.Withf("wing and flat number are required")
	}
	if req.Status != "" && req.Status != models.FlatStatusVacant {
		return nil, ErrInvalidTransition.Withf("new flats must be vacant")
	}
	if req.Area < 0 || req.ParkingSlots < 0 {
		return nil, ErrValidation.Withf("area and parking slots must not be negative")
	}

	flat := &models.Flat{
		Wing:         wing,
		FlatNo:       flatNo,
		Status:       models.FlatStatusVacant,
		OwnerName:    strings.TrimSpace(req.OwnerName),
		Email:        strings.TrimSpace(req.Email),
		Area:         req.Area,
		ParkingSlots: req.ParkingSlots,
	}

	if err := s.flatRepo.Create(ctx, flat); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateFlat.Withf("flat %s already exists", flat.Label())
		}
		return nil, fmt.Errorf("failed to create flat: %w", err)
	}

	s.cache.Invalidate(ctx)
	s.logger.WithField("flat", flat.Label()).Info("Flat created")
	return flat, nil
}

// ListFlats lists flats, optionally for one wing
func (s *flatService) ListFlats(ctx context.Context, wing string) ([]*models.Flat, error) {
	flats, err := s.flatRepo.List(ctx, NormalizeWing(wing))
	if err != nil {
		return nil, fmt.Errorf("failed to list flats: %w", err)
	}
	return flats, nil
}

// ListWings lists the distinct wings
func (s *flatService) ListWings(ctx context.Context) ([]string, error) {
	wings, err := s.flatRepo.ListWings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wings: %w", err)
	}
	return wings, nil
}

// UpdateFlat edits descriptive fields and optionally the occupancy status
func (s *flatService) UpdateFlat(ctx context.Context, id uint, req UpdateFlatRequest) (*models.Flat, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus.Withf("invalid status %q", *req.Status)
	}
	if (req.Area != nil && *req.Area < 0) || (req.ParkingSlots != nil && *req.ParkingSlots < 0) {
		return nil, ErrValidation.Withf("area and parking slots must not be negative")
	}

	fields := map[string]interface{}{}
	if req.OwnerName != nil {
		fields["owner_name"] = strings.TrimSpace(*req.OwnerName)
	}
	if req.Email != nil {
		fields["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Area != nil {
		fields["area"] = *req.Area
	}
	if req.ParkingSlots != nil {
		fields["parking_slots"] = *req.ParkingSlots
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flats := s.flatRepo.WithTx(tx)

		flat, err := flats.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrFlatNotFound)
		}

		if len(fields) > 0 {
			if err := flats.UpdateFields(ctx, flat.ID, fields); err != nil {
				return fmt.Errorf("failed to update flat: %w", err)
			}
		}

		if req.Status != nil {
			return s.applyStatus(ctx, tx, flat, *req.Status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return s.reload(ctx, id)
}

// SetFlatStatus changes the occupancy status. Vacating detaches every user living in the
// flat; permanent and rented only relabel an occupied flat.
func (s *flatService) SetFlatStatus(ctx context.Context, id uint, status models.FlatStatus) (*models.Flat, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus.Withf("invalid status %q", status)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flat, err := s.flatRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrFlatNotFound)
		}
		return s.applyStatus(ctx, tx, flat, status)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.WithFields(map[string]interface{}{
		"flat_id": id,
		"status":  status,
	}).Info("Flat status updated")

	return s.reload(ctx, id)
}

func (s *flatService) applyStatus(ctx context.Context, tx *gorm.DB, flat *models.Flat, status models.FlatStatus) error {
	flats := s.flatRepo.WithTx(tx)

	if status == models.FlatStatusVacant {
		if err := flats.Vacate(ctx, flat.ID); err != nil {
			return fmt.Errorf("failed to vacate flat: %w", err)
		}
		if _, err := s.userRepo.WithTx(tx).ClearUnit(ctx, flat.Wing, flat.FlatNo); err != nil {
			return fmt.Errorf("failed to detach residents: %w", err)
		}
		return nil
	}

	if !flat.Status.Occupied() {
		return ErrInvalidTransition
	}

	if err := flats.UpdateFields(ctx, flat.ID, map[string]interface{}{"status": status}); err != nil {
		return fmt.Errorf("failed to update flat status: %w", err)
	}
	return nil
}

// DeleteFlat removes a flat and detaches every user living in it
func (s *flatService) DeleteFlat(ctx context.Context, id uint) error {
	var label string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flats := s.flatRepo.WithTx(tx)

		flat, err := flats.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrFlatNotFound)
		}
		label = flat.Label()

		if _, err := s.userRepo.WithTx(tx).ClearUnit(ctx, flat.Wing, flat.FlatNo); err != nil {
			return fmt.Errorf("failed to detach residents: %w", err)
		}
		if err := flats.Delete(ctx, flat.ID); err != nil {
			return notFound(err, ErrFlatNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	s.logger.WithField("flat", label).Info("Flat deleted")
	return nil
}

// AssignResident moves a resident into a flat. The resident's previous flat is released.
func (s *flatService) AssignResident(ctx context.Context, userID, flatID uint) (*models.Flat, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		flats := s.flatRepo.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if user.Role != models.RoleResident {
			return ErrInvalidRole
		}

		flat, err := flats.GetByID(ctx, flatID)
		if err != nil {
			return notFound(err, ErrFlatNotFound)
		}

		if flat.Status.Occupied() {
			holder, err := users.FindResidentByUnit(ctx, flat.Wing, flat.FlatNo)
			if err == nil && holder.ID != user.ID {
				return ErrUnitOccupied
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("failed to check flat occupancy: %w", err)
			}
		}

		if user.HasUnit() && (user.Wing != flat.Wing || user.FlatNo != flat.FlatNo) {
			if err := s.releasePrevious(ctx, flats, user); err != nil {
				return err
			}
		}

		if err := users.UpdateFields(ctx, user.ID, map[string]interface{}{
			"wing":    flat.Wing,
			"flat_no": flat.FlatNo,
			"flat_id": flat.ID,
		}); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		return flats.UpdateFields(ctx, flat.ID, map[string]interface{}{
			"status":        models.FlatStatusPermanent,
			"resident_name": user.Name,
			"phone":         user.Phone,
			"resident_id":   user.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"flat_id": flatID,
	}).Info("Resident assigned to flat")

	return s.reload(ctx, flatID)
}

// releasePrevious vacates the flat the user lived in before, if it is still linked to them
func (s *flatService) releasePrevious(ctx context.Context, flats repository.FlatRepository, user *models.User) error {
	prev, err := flats.GetByUnit(ctx, user.Wing, user.FlatNo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get previous flat: %w", err)
	}

	if prev.ResidentID == nil || *prev.ResidentID != user.ID {
		return nil
	}
	if err := flats.Vacate(ctx, prev.ID); err != nil {
		return fmt.Errorf("failed to release previous flat: %w", err)
	}
	return nil
}

// AvailableResidents lists residents that are not linked to any flat
func (s *flatService) AvailableResidents(ctx context.Context) ([]response.AvailableResidentResponse, error) {
	users, err := s.userRepo.ListUnassignedResidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}

	residents := make([]response.AvailableResidentResponse, 0, len(users))
	for _, u := range users {
		residents = append(residents, response.AvailableResidentResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Phone: u.Phone,
		})
	}
	return residents, nil
}

func (s *flatService) reload(ctx context.Context, id uint) (*models.Flat, error) {
	flat, err := s.flatRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrFlatNotFound)
	}
	return flat, nil
}
