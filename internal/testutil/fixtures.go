package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"society-be-svc/internal/models"
)

// CreateFlat inserts a flat with the given status
func CreateFlat(t testing.TB, db *gorm.DB, wing, flatNo string, status models.FlatStatus) *models.Flat {
	t.Helper()
	flat := &models.Flat{Wing: wing, FlatNo: flatNo, Status: status}
	require.NoError(t, db.Create(flat).Error)
	return flat
}

// CreateResident inserts a verified, active resident linked to flat and marks the flat
// as permanently occupied by them
func CreateResident(t testing.TB, db *gorm.DB, name, email string, flat *models.Flat) *models.User {
	t.Helper()
	user := &models.User{
		Name:       name,
		Email:      email,
		Password:   "unused",
		Role:       models.RoleResident,
		Wing:       flat.Wing,
		FlatNo:     flat.FlatNo,
		FlatID:     &flat.ID,
		IsVerified: true,
		IsActive:   true,
		Phone:      "9000000000",
	}
	require.NoError(t, db.Create(user).Error)

	require.NoError(t, db.Model(flat).Updates(map[string]interface{}{
		"status":        models.FlatStatusPermanent,
		"resident_name": name,
		"phone":         user.Phone,
		"resident_id":   user.ID,
	}).Error)
	return user
}

// CreateBill inserts a bill for a flat and period
func CreateBill(t testing.TB, db *gorm.DB, wing, flatNo, month string, year int, status models.BillStatus) *models.MaintenanceBill {
	t.Helper()
	bill := &models.MaintenanceBill{
		Wing:    wing,
		FlatNo:  flatNo,
		Amount:  5000,
		Month:   month,
		Year:    year,
		Status:  status,
		DueDate: time.Date(year, time.Month(models.MonthIndex(month)), 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(bill).Error)
	return bill
}
