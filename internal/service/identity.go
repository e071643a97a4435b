package service

import (
	"strings"

	"society-be-svc/internal/models"
)

// Identity is the role a user registers with. Residents must carry a unit; admins never do.
type Identity interface {
	Role() models.Role
}

// AdminIdentity registers the single society administrator
type AdminIdentity struct{}

// Role implements Identity
func (AdminIdentity) Role() models.Role { return models.RoleAdmin }

// ResidentIdentity registers a resident living in (Wing, FlatNo)
type ResidentIdentity struct {
	Wing   string
	FlatNo string
}

// Role implements Identity
func (ResidentIdentity) Role() models.Role { return models.RoleResident }

// NewIdentity builds an Identity from raw registration input. An empty role means resident.
func NewIdentity(role, wing, flatNo string) (Identity, error) {
	switch models.Role(strings.ToLower(strings.TrimSpace(role))) {
	case "", models.RoleResident:
		wing = NormalizeWing(wing)
		flatNo = strings.TrimSpace(flatNo)
		if wing == "" || flatNo == "" {
			return nil, ErrMissingUnit
		}
		return ResidentIdentity{Wing: wing, FlatNo: flatNo}, nil
	case models.RoleAdmin:
		return AdminIdentity{}, nil
	}
	return nil, ErrValidation.Withf("invalid role %q", role)
}

// NormalizeWing trims and upper-cases a wing name
func NormalizeWing(wing string) string {
	return strings.ToUpper(strings.TrimSpace(wing))
}

// Caller is the authenticated user on whose behalf a request runs
type Caller struct {
	UserID uint
	Role   models.Role
	Wing   string
	FlatNo string
}

// CallerFromUser builds a Caller from a loaded user
func CallerFromUser(u *models.User) Caller {
	return Caller{UserID: u.ID, Role: u.Role, Wing: u.Wing, FlatNo: u.FlatNo}
}

// IsAdmin reports whether the caller is the administrator
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// HasUnit reports whether the caller is linked to a flat
func (c Caller) HasUnit() bool {
	return c.Wing != "" && c.FlatNo != ""
}
