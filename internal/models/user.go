package models

import (
	"time"
)

// Role is the account role of a user
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleResident
}

// User represents the users table
type User struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	Name             string    `json:"name" gorm:"column:name;not null"`
	Email            string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Password         string    `json:"-" gorm:"column:password;not null"`
	Role             Role      `json:"role" gorm:"column:role;type:varchar(20);not null;index"`
	Wing             string    `json:"wing" gorm:"column:wing;index:idx_users_wing_flat_no"`
	FlatNo           string    `json:"flatNo" gorm:"column:flat_no;index:idx_users_wing_flat_no"`
	FlatID           *uint     `json:"flatId" gorm:"column:flat_id"`
	Flat             *Flat     `json:"flat,omitempty" gorm:"foreignKey:FlatID"`
	IsVerified       bool      `json:"isVerified" gorm:"column:is_verified;not null"`
	VerificationCode *string   `json:"-" gorm:"column:verification_code"`
	IsActive         bool      `json:"isActive" gorm:"column:is_active;not null"`
	Phone            string    `json:"phone" gorm:"column:phone"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TableName sets the insert table name for User
func (User) TableName() string {
	return "users"
}

// HasUnit reports whether the user is linked to a (wing, flatNo) pair
func (u *User) HasUnit() bool {
	return u.Wing != "" && u.FlatNo != ""
}
