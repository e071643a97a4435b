package response

import "society-be-svc/internal/models"

// UserResponse is the public view of a user returned at login
type UserResponse struct {
	ID       uint         `json:"id" example:"1"`
	Name     string       `json:"name" example:"Asha Rao"`
	Email    string       `json:"email" example:"asha@example.com"`
	Role     models.Role  `json:"role" example:"resident"`
	Wing     string       `json:"wing" example:"A"`
	FlatNo   string       `json:"flatNo" example:"101"`
	Flat     *models.Flat `json:"flat"`
	IsActive bool         `json:"isActive" example:"true"`
}

// NewUserResponse builds the login view of a user
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Wing:     u.Wing,
		FlatNo:   u.FlatNo,
		Flat:     u.Flat,
		IsActive: u.IsActive,
	}
}

// AvailableResidentResponse represents a resident not yet linked to a flat
type AvailableResidentResponse struct {
	ID    uint   `json:"id" example:"7"`
	Name  string `json:"name" example:"Ravi Kumar"`
	Email string `json:"email" example:"ravi@example.com"`
	Phone string `json:"phone" example:"9876543210"`
}
