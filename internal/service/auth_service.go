package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"society-be-svc/internal/auth"
	"society-be-svc/internal/models"
	"society-be-svc/internal/models/response"
	"society-be-svc/internal/notification"
	"society-be-svc/internal/repository"
	"society-be-svc/pkg/logger"
)

const minPasswordLength = 6

// RegisterRequest is the self-registration payload
type RegisterRequest struct {
	Name     string `json:"name" example:"Asha Rao"`
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"secret123"`
	Phone    string `json:"phone" example:"9876543210"`
	Role     string `json:"role" example:"resident"`
	Wing     string `json:"wing" example:"A"`
	FlatNo   string `json:"flatNo" example:"101"`
}

// AdminAccountRequest is the payload for bootstrapping the administrator
type AdminAccountRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token string                `json:"token"`
	User  response.UserResponse `json:"user"`
}

// AuthService defines the interface for account and session operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	VerifyEmail(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	BootstrapAdmin(ctx context.Context, req AdminAccountRequest) (*models.User, error)
}

// authService implements AuthService
type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	flatRepo repository.FlatRepository
	jwt      *auth.JWTManager
	notifier notification.Notifier
	cache    DashboardCache
	logger   *logger.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	flatRepo repository.FlatRepository,
	jwt *auth.JWTManager,
	notifier notification.Notifier,
	cache DashboardCache,
	logger *logger.Logger,
) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		flatRepo: flatRepo,
		jwt:      jwt,
		notifier: notifier,
		cache:    cache,
		logger:   logger,
	}
}

// Register creates an unverified account. Residents are linked to their flat and the flat
// becomes occupied in the same transaction.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	name, email, err := validateAccount(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	identity, err := NewIdentity(req.Role, req.Wing, req.FlatNo)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:             name,
		Email:            email,
		Password:         hash,
		Role:             identity.Role(),
		Phone:            strings.TrimSpace(req.Phone),
		IsVerified:       false,
		VerificationCode: &code,
		IsActive:         true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		flats := s.flatRepo.WithTx(tx)

		if _, err := users.GetByEmail(ctx, email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		var flat *models.Flat
		switch id := identity.(type) {
		case AdminIdentity:
			exists, err := users.AdminExists(ctx)
			if err != nil {
				return fmt.Errorf("failed to check admin: %w", err)
			}
			if exists {
				return ErrAdminExists
			}
		case ResidentIdentity:
			f, err := s.claimableFlat(ctx, users, flats, id.Wing, id.FlatNo)
			if err != nil {
				return err
			}
			flat = f
			user.Wing = flat.Wing
			user.FlatNo = flat.FlatNo
			user.FlatID = &flat.ID
		}

		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				if user.Role == models.RoleAdmin {
					return ErrAdminExists
				}
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if flat == nil {
			return nil
		}

		return flats.UpdateFields(ctx, flat.ID, map[string]interface{}{
			"status":        models.FlatStatusPermanent,
			"resident_name": user.Name,
			"phone":         user.Phone,
			"resident_id":   user.ID,
		})
	})
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("Registration rejected")
		return nil, err
	}
	s.cache.Invalidate(ctx)

	s.notifier.NotifyVerification(user.Email, code)

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
		"unit":    models.UnitLabel(user.Wing, user.FlatNo),
	}).Info("User registered")

	return user, nil
}

// claimableFlat returns the flat at (wing, flatNo) if a new resident may move in
func (s *authService) claimableFlat(ctx context.Context, users repository.UserRepository, flats repository.FlatRepository, wing, flatNo string) (*models.Flat, error) {
	flat, err := flats.GetByUnit(ctx, wing, flatNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFlatNotFound.Withf("flat %s not found, contact the admin", models.UnitLabel(wing, flatNo))
		}
		return nil, fmt.Errorf("failed to get flat: %w", err)
	}

	if !flat.Status.Occupied() {
		return flat, nil
	}

	_, err = users.FindResidentByUnit(ctx, wing, flatNo)
	switch {
	case err == nil:
		return nil, ErrUnitOccupied
	case errors.Is(err, repository.ErrNotFound):
		return flat, nil
	default:
		return nil, fmt.Errorf("failed to check flat occupancy: %w", err)
	}
}

// VerifyEmail marks the account verified when code matches the one issued at registration
func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}

	code = strings.TrimSpace(code)
	if user.VerificationCode == nil || code == "" || *user.VerificationCode != code {
		return ErrInvalidCode
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"is_verified":       true,
		"verification_code": nil,
	}); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.WithField("user_id", user.ID).Info("Email verified")
	return nil
}

// Login checks credentials and issues a session token. The password is checked before
// account state so unauthenticated callers learn nothing about an account.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrEmailUnverified
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")

	return &LoginResult{
		Token: token,
		User:  response.NewUserResponse(user),
	}, nil
}

// Me returns the profile of the authenticated user
func (s *authService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// Authenticate resolves a session token to an active user. The user is reloaded on every
// call so deactivation takes effect immediately.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return user, nil
}

// BootstrapAdmin creates the single, already verified administrator account
func (s *authService) BootstrapAdmin(ctx context.Context, req AdminAccountRequest) (*models.User, error) {
	name, email, err := validateAccount(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Name:       name,
		Email:      email,
		Password:   hash,
		Role:       models.RoleAdmin,
		Phone:      strings.TrimSpace(req.Phone),
		IsVerified: true,
		IsActive:   true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		exists, err := users.AdminExists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check admin: %w", err)
		}
		if exists {
			return ErrAdminExists
		}

		if _, err := users.GetByEmail(ctx, email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if err := users.Create(ctx, admin); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAdminExists
			}
			return fmt.Errorf("failed to create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", admin.ID).Info("Admin account created")
	return admin, nil
}

// validateAccount checks the fields every account needs and returns the trimmed name and
// normalized email
func validateAccount(name, email, password string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return "", "", ErrValidation.Withf("name, email and password are required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", "", ErrValidation.Withf("invalid email address")
	}
	if len(password) < minPasswordLength {
		return "", "", ErrValidation.Withf("password must be at least %d characters", minPasswordLength)
	}
	return name, email, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
