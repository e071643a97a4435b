package models

import (
	"time"
)

// BillStatus is the payment status of a maintenance bill
type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// Valid reports whether s is a known bill status
func (s BillStatus) Valid() bool {
	switch s {
	case BillStatusPending, BillStatusPaid, BillStatusOverdue:
		return true
	}
	return false
}

// MaintenanceBill represents the maintenance_bills table. At most one bill exists per
// flat and billing period.
type MaintenanceBill struct {
	ID            uint       `json:"id" gorm:"primarykey"`
	Wing          string     `json:"wing" gorm:"column:wing;not null;uniqueIndex:idx_bills_flat_period"`
	FlatNo        string     `json:"flatNo" gorm:"column:flat_no;not null;uniqueIndex:idx_bills_flat_period"`
	Amount        float64    `json:"amount" gorm:"column:amount;not null"`
	Month         string     `json:"month" gorm:"column:month;type:varchar(12);not null;uniqueIndex:idx_bills_flat_period;index:idx_bills_period"`
	Year          int        `json:"year" gorm:"column:year;not null;uniqueIndex:idx_bills_flat_period;index:idx_bills_period"`
	Description   string     `json:"description" gorm:"column:description"`
	Status        BillStatus `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	DueDate       time.Time  `json:"dueDate" gorm:"column:due_date"`
	PaidDate      *time.Time `json:"paidDate" gorm:"column:paid_date"`
	PaymentMethod string     `json:"paymentMethod" gorm:"column:payment_method"`
	ResidentID    *uint      `json:"residentId" gorm:"column:resident_id"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TableName sets the insert table name for MaintenanceBill
func (MaintenanceBill) TableName() string {
	return "maintenance_bills"
}
