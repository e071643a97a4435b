package models

import (
	"fmt"
	"time"
)

// FlatStatus is the occupancy status of a flat
type FlatStatus string

const (
	FlatStatusPermanent FlatStatus = "permanent"
	FlatStatusRented    FlatStatus = "rented"
	FlatStatusVacant    FlatStatus = "vacant"
)

// Valid reports whether s is a known occupancy status
func (s FlatStatus) Valid() bool {
	switch s {
	case FlatStatusPermanent, FlatStatusRented, FlatStatusVacant:
		return true
	}
	return false
}

// Occupied reports whether s means someone lives in the flat
func (s FlatStatus) Occupied() bool {
	return s == FlatStatusPermanent || s == FlatStatusRented
}

// OccupiedFlatStatuses lists the statuses that are billed
var OccupiedFlatStatuses = []FlatStatus{FlatStatusPermanent, FlatStatusRented}

// Flat represents the flats table
type Flat struct {
	ID           uint       `json:"id" gorm:"primarykey"`
	Wing         string     `json:"wing" gorm:"column:wing;not null;uniqueIndex:idx_flats_wing_flat_no"`
	FlatNo       string     `json:"flatNo" gorm:"column:flat_no;not null;uniqueIndex:idx_flats_wing_flat_no"`
	Status       FlatStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'vacant';index"`
	OwnerName    string     `json:"ownerName" gorm:"column:owner_name"`
	ResidentName string     `json:"residentName" gorm:"column:resident_name"`
	Phone        string     `json:"phone" gorm:"column:phone"`
	Email        string     `json:"email" gorm:"column:email"`
	Area         float64    `json:"area" gorm:"column:area"`
	ParkingSlots int        `json:"parkingSlots" gorm:"column:parking_slots"`
	ResidentID   *uint      `json:"residentId" gorm:"column:resident_id"`
	Resident     *User      `json:"resident,omitempty" gorm:"foreignKey:ResidentID"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName sets the insert table name for Flat
func (Flat) TableName() string {
	return "flats"
}

// Label returns the human readable "WING-NO" identifier
func (f *Flat) Label() string {
	return UnitLabel(f.Wing, f.FlatNo)
}

// UnitLabel formats a (wing, flatNo) pair
func UnitLabel(wing, flatNo string) string {
	return fmt.Sprintf("%s-%s", wing, flatNo)
}
