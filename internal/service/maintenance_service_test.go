package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"society-be-svc/internal/models"
	"society-be-svc/internal/testutil"
)

type MaintenanceServiceSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context

	a101 *models.Flat
	b202 *models.Flat
	u1   *models.User
	u2   *models.User
}

func TestMaintenanceServiceSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceServiceSuite))
}

func (s *MaintenanceServiceSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.ctx = context.Background()

	s.a101 = testutil.CreateFlat(s.T(), s.f.db, "A", "101", models.FlatStatusVacant)
	s.b202 = testutil.CreateFlat(s.T(), s.f.db, "B", "202", models.FlatStatusVacant)
	s.u1 = testutil.CreateResident(s.T(), s.f.db, "U1", "u1@example.com", s.a101)
	s.u2 = testutil.CreateResident(s.T(), s.f.db, "U2", "u2@example.com", s.b202)
}

func (s *MaintenanceServiceSuite) march() GenerateBulkRequest {
	return GenerateBulkRequest{Month: "March", Year: 2025, Amount: float64Ptr(5000), DueDate: "2025-03-10"}
}

func (s *MaintenanceServiceSuite) billsFor(month string, year int) []models.MaintenanceBill {
	var bills []models.MaintenanceBill
	s.Require().NoError(s.f.db.Where("month = ? AND year = ?", month, year).Order("wing, flat_no").Find(&bills).Error)
	return bills
}

func (s *MaintenanceServiceSuite) TestGenerateBulkSingleOccupiedFlat() {
	s.Require().NoError(s.f.flatRepo.Vacate(s.ctx, s.b202.ID))

	result, err := s.f.maintenance.GenerateBulk(s.ctx, s.march())
	s.Require().NoError(err)
	s.Equal(int64(1), result.Created)
	s.Equal(int64(0), result.Skipped)

	bills := s.billsFor("march", 2025)
	s.Require().Len(bills, 1)
	s.Equal("A", bills[0].Wing)
	s.Equal("101", bills[0].FlatNo)
	s.Equal(5000.0, bills[0].Amount)
	s.Equal(models.BillStatusPending, bills[0].Status)
	s.Equal("Maintenance for march 2025", bills[0].Description)
	s.True(bills[0].DueDate.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	s.Require().NotNil(bills[0].ResidentID)
	s.Equal(s.u1.ID, *bills[0].ResidentID)
}

func (s *MaintenanceServiceSuite) TestGenerateBulkTwiceReplacesPeriod() {
	_, err := s.f.maintenance.GenerateBulk(s.ctx, s.march())
	s.Require().NoError(err)

	req := s.march()
	req.Amount = float64Ptr(6000)
	result, err := s.f.maintenance.GenerateBulk(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(int64(2), result.Created)

	bills := s.billsFor("march", 2025)
	s.Require().Len(bills, 2)
	seen := map[string]bool{}
	for _, b := range bills {
		key := models.UnitLabel(b.Wing, b.FlatNo)
		s.False(seen[key], "duplicate bill for %s", key)
		seen[key] = true
		s.Equal(6000.0, b.Amount)
	}
}

func (s *MaintenanceServiceSuite) TestGenerateBulkKeepsOtherPeriods() {
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "february", 2025, models.BillStatusPaid)

	_, err := s.f.maintenance.GenerateBulk(s.ctx, s.march())
	s.Require().NoError(err)

	s.Len(s.billsFor("february", 2025), 1)
}

func (s *MaintenanceServiceSuite) TestGenerateBulkValidation() {
	cases := map[string]struct {
		req  GenerateBulkRequest
		want *Error
	}{
		"missing month":    {GenerateBulkRequest{Year: 2025, Amount: float64Ptr(1), DueDate: "2025-03-10"}, ErrMissingFields},
		"missing amount":   {GenerateBulkRequest{Month: "march", Year: 2025, DueDate: "2025-03-10"}, ErrMissingFields},
		"missing due date": {GenerateBulkRequest{Month: "march", Year: 2025, Amount: float64Ptr(1)}, ErrMissingFields},
		"bad month":        {GenerateBulkRequest{Month: "smarch", Year: 2025, Amount: float64Ptr(1), DueDate: "2025-03-10"}, ErrInvalidPeriod},
		"bad year":         {GenerateBulkRequest{Month: "march", Year: 1999, Amount: float64Ptr(1), DueDate: "2025-03-10"}, ErrInvalidPeriod},
		"negative amount":  {GenerateBulkRequest{Month: "march", Year: 2025, Amount: float64Ptr(-1), DueDate: "2025-03-10"}, ErrValidation},
		"bad due date":     {GenerateBulkRequest{Month: "march", Year: 2025, Amount: float64Ptr(1), DueDate: "10/03/2025"}, ErrValidation},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			_, err := s.f.maintenance.GenerateBulk(s.ctx, tc.req)
			s.ErrorIs(err, tc.want)
		})
	}
}

func (s *MaintenanceServiceSuite) TestGenerateBulkWithoutOccupiedFlats() {
	s.Require().NoError(s.f.flatRepo.Vacate(s.ctx, s.a101.ID))
	s.Require().NoError(s.f.flatRepo.Vacate(s.ctx, s.b202.ID))
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "march", 2025, models.BillStatusPending)

	_, err := s.f.maintenance.GenerateBulk(s.ctx, s.march())
	s.ErrorIs(err, ErrNoOccupiedFlats)

	// Existing bills survive a failed generation.
	s.Len(s.billsFor("march", 2025), 1)
}

func (s *MaintenanceServiceSuite) TestCreateSingleBill() {
	req := CreateBillRequest{Wing: "a", FlatNo: "101", Amount: float64Ptr(2500), Month: "MAY", Year: 2025, DueDate: "2025-05-10"}

	bill, err := s.f.maintenance.CreateSingleBill(s.ctx, req)
	s.Require().NoError(err)
	s.Equal("A", bill.Wing)
	s.Equal("may", bill.Month)
	s.Equal(models.BillStatusPending, bill.Status)
	s.Require().NotNil(bill.ResidentID)
	s.Equal(s.u1.ID, *bill.ResidentID)

	_, err = s.f.maintenance.CreateSingleBill(s.ctx, req)
	s.ErrorIs(err, ErrDuplicatePeriod)

	req.Wing = "Z"
	_, err = s.f.maintenance.CreateSingleBill(s.ctx, req)
	s.ErrorIs(err, ErrFlatNotFound)
}

func (s *MaintenanceServiceSuite) TestCreateBatchSkipsExisting() {
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "june", 2025, models.BillStatusPending)

	result, err := s.f.maintenance.CreateBatch(s.ctx, []CreateBillRequest{
		{Wing: "A", FlatNo: "101", Amount: float64Ptr(100), Month: "june", Year: 2025, DueDate: "2025-06-10"},
		{Wing: "B", FlatNo: "202", Amount: float64Ptr(100), Month: "june", Year: 2025, DueDate: "2025-06-10"},
	})
	s.Require().NoError(err)
	s.Equal(int64(1), result.Created)
	s.Equal(int64(1), result.Skipped)
	s.Len(s.billsFor("june", 2025), 2)

	_, err = s.f.maintenance.CreateBatch(s.ctx, nil)
	s.ErrorIs(err, ErrValidation)

	_, err = s.f.maintenance.CreateBatch(s.ctx, []CreateBillRequest{{Wing: "A", FlatNo: "101"}})
	s.ErrorIs(err, ErrMissingFields)
}

func (s *MaintenanceServiceSuite) TestPayOwnBill() {
	bill := testutil.CreateBill(s.T(), s.f.db, "A", "101", "march", 2025, models.BillStatusPending)

	s.f.notifier.EXPECT().NotifyPaymentConfirmation("u1@example.com", gomock.Any())

	paid, err := s.f.maintenance.Pay(s.ctx, CallerFromUser(s.u1), bill.ID, "upi")
	s.Require().NoError(err)
	s.Equal(models.BillStatusPaid, paid.Status)
	s.Equal("upi", paid.PaymentMethod)
	s.NotNil(paid.PaidDate)

	stored, err := s.f.billRepo.GetByID(s.ctx, bill.ID)
	s.Require().NoError(err)
	s.Equal(models.BillStatusPaid, stored.Status)
	s.Equal("upi", stored.PaymentMethod)
	s.Require().NotNil(stored.PaidDate)

	s.Run("another resident is denied", func() {
		_, err := s.f.maintenance.Pay(s.ctx, CallerFromUser(s.u2), bill.ID, "upi")
		s.ErrorIs(err, ErrAccessDenied)
	})
	s.Run("paying twice is rejected", func() {
		_, err := s.f.maintenance.Pay(s.ctx, CallerFromUser(s.u1), bill.ID, "cash")
		s.ErrorIs(err, ErrAlreadyPaid)
	})
}

func (s *MaintenanceServiceSuite) TestPayRules() {
	bill := testutil.CreateBill(s.T(), s.f.db, "A", "101", "march", 2025, models.BillStatusOverdue)
	s.f.allowNotifications()

	s.Run("unknown bill", func() {
		_, err := s.f.maintenance.Pay(s.ctx, CallerFromUser(s.u1), 9999, "")
		s.ErrorIs(err, ErrBillNotFound)
	})
	s.Run("resident without flat", func() {
		_, err := s.f.maintenance.Pay(s.ctx, Caller{UserID: 77, Role: models.RoleResident}, bill.ID, "")
		s.ErrorIs(err, ErrNoUnit)
	})
	s.Run("admin pays overdue bill with default method", func() {
		paid, err := s.f.maintenance.Pay(s.ctx, Caller{UserID: 1, Role: models.RoleAdmin}, bill.ID, "")
		s.Require().NoError(err)
		s.Equal(models.BillStatusPaid, paid.Status)
		s.Equal("online", paid.PaymentMethod)
	})
}

func (s *MaintenanceServiceSuite) TestDeleteBill() {
	bill := testutil.CreateBill(s.T(), s.f.db, "A", "101", "march", 2025, models.BillStatusPaid)

	s.Require().NoError(s.f.maintenance.DeleteBill(s.ctx, bill.ID))
	s.ErrorIs(s.f.maintenance.DeleteBill(s.ctx, bill.ID), ErrBillNotFound)
}

func (s *MaintenanceServiceSuite) TestListBillsScopeAndOrder() {
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "december", 2024, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "february", 2025, models.BillStatusPending)
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "november", 2024, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.f.db, "B", "202", "february", 2025, models.BillStatusPending)

	s.Run("resident sees own flat newest first", func() {
		bills, err := s.f.maintenance.ListBills(s.ctx, CallerFromUser(s.u1), BillListFilter{Wing: "B"})
		s.Require().NoError(err)
		s.Require().Len(bills, 3)
		s.Equal("february", bills[0].Month)
		s.Equal("december", bills[1].Month)
		s.Equal("november", bills[2].Month)
		for _, b := range bills {
			s.Equal("A", b.Wing)
		}
	})
	s.Run("admin filters", func() {
		bills, err := s.f.maintenance.ListBills(s.ctx, Caller{Role: models.RoleAdmin}, BillListFilter{Month: "February", Year: intPtr(2025)})
		s.Require().NoError(err)
		s.Len(bills, 2)

		bills, err = s.f.maintenance.ListBills(s.ctx, Caller{Role: models.RoleAdmin}, BillListFilter{Status: models.BillStatusPaid})
		s.Require().NoError(err)
		s.Len(bills, 2)
	})
	s.Run("invalid filters", func() {
		_, err := s.f.maintenance.ListBills(s.ctx, Caller{Role: models.RoleAdmin}, BillListFilter{Status: "void"})
		s.ErrorIs(err, ErrInvalidStatus)
		_, err = s.f.maintenance.ListBills(s.ctx, Caller{Role: models.RoleAdmin}, BillListFilter{Month: "smarch"})
		s.ErrorIs(err, ErrInvalidPeriod)
	})
	s.Run("resident without flat", func() {
		_, err := s.f.maintenance.ListBills(s.ctx, Caller{Role: models.RoleResident}, BillListFilter{})
		s.ErrorIs(err, ErrNoUnit)
	})
}

func (s *MaintenanceServiceSuite) TestStatsAndFinancialSummary() {
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "january", 2025, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.f.db, "B", "202", "january", 2025, models.BillStatusPending)
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "february", 2025, models.BillStatusOverdue)

	stats, err := s.f.maintenance.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), stats.TotalBills)
	s.Equal(int64(1), stats.PaidBills)
	s.Equal(int64(1), stats.PendingBills)
	s.Equal(int64(1), stats.OverdueBills)
	s.Equal(15000.0, stats.TotalAmount)
	s.Equal(5000.0, stats.PaidAmount)
	s.Equal(10000.0, stats.PendingAmount)
	s.Equal(33.33, stats.CollectionRate)

	summary, err := s.f.maintenance.FinancialSummary(s.ctx, "January", intPtr(2025))
	s.Require().NoError(err)
	s.Equal(int64(2), summary.TotalBills)
	s.Equal(5000.0, summary.PendingAmount)
	s.Equal(50.0, summary.CollectionRate)

	all, err := s.f.maintenance.FinancialSummary(s.ctx, "january", nil)
	s.Require().NoError(err)
	s.Equal(int64(3), all.TotalBills)

	_, err = s.f.maintenance.FinancialSummary(s.ctx, "smarch", intPtr(2025))
	s.ErrorIs(err, ErrInvalidPeriod)
}

func (s *MaintenanceServiceSuite) TestMarkOverdue() {
	past := testutil.CreateBill(s.T(), s.f.db, "A", "101", "january", 2025, models.BillStatusPending)
	paid := testutil.CreateBill(s.T(), s.f.db, "B", "202", "january", 2025, models.BillStatusPaid)
	future := testutil.CreateBill(s.T(), s.f.db, "A", "101", "march", 2025, models.BillStatusPending)

	count, err := s.f.maintenance.MarkOverdue(s.ctx, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	for id, want := range map[uint]models.BillStatus{
		past.ID:   models.BillStatusOverdue,
		paid.ID:   models.BillStatusPaid,
		future.ID: models.BillStatusPending,
	} {
		bill, err := s.f.billRepo.GetByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(want, bill.Status)
	}
}

func (s *MaintenanceServiceSuite) TestMarkOverdueOnDueDay() {
	// Due 2025-03-10
	bill := testutil.CreateBill(s.T(), s.f.db, "A", "101", "march", 2025, models.BillStatusPending)

	count, err := s.f.maintenance.MarkOverdue(s.ctx, time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	count, err = s.f.maintenance.MarkOverdue(s.ctx, time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	got, err := s.f.billRepo.GetByID(s.ctx, bill.ID)
	s.Require().NoError(err)
	s.Equal(models.BillStatusPending, got.Status)

	count, err = s.f.maintenance.MarkOverdue(s.ctx, time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	got, err = s.f.billRepo.GetByID(s.ctx, bill.ID)
	s.Require().NoError(err)
	s.Equal(models.BillStatusOverdue, got.Status)
}

func (s *MaintenanceServiceSuite) TestExport() {
	testutil.CreateBill(s.T(), s.f.db, "A", "101", "january", 2025, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.f.db, "B", "202", "january", 2025, models.BillStatusPending)

	data, filename, err := s.f.maintenance.Export(s.ctx, BillListFilter{Wing: "b"})
	s.Require().NoError(err)
	s.Contains(filename, "maintenance_export_")

	book, err := excelize.OpenReader(bytes.NewReader(data))
	s.Require().NoError(err)
	defer book.Close()

	rows, err := book.GetRows("Maintenance Bills")
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("Wing", rows[0][1])
	s.Equal("B", rows[1][1])
	s.Equal("202", rows[1][2])
}
