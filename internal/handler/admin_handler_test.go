package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"society-be-svc/internal/models"
	"society-be-svc/internal/models/response"
	"society-be-svc/internal/testutil"
)

func (s *HandlerSuite) TestDashboardStats() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	testutil.CreateFlat(s.T(), s.db, "A", "102", models.FlatStatusVacant)
	testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flat)
	testutil.CreateBill(s.T(), s.db, "A", "101", "march", 2025, models.BillStatusPending)
	testutil.CreateBill(s.T(), s.db, "A", "101", "april", 2025, models.BillStatusPaid)

	w := s.do(http.MethodGet, "/api/v1/admin/dashboard-stats", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var stats response.DashboardStatisticsResponse
	s.decode(w, &stats)
	s.Equal(int64(1), stats.TotalResidents)
	s.Equal(int64(2), stats.TotalFlats)
	s.Equal(int64(1), stats.VacantFlats)
	s.Equal(int64(1), stats.PendingBills)
	s.Equal(int64(1), stats.PaidBills)
}

func (s *HandlerSuite) TestAdminRoutesRejectResidents() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flat)

	for _, path := range []string{
		"/api/v1/admin/dashboard-stats",
		"/api/v1/admin/users",
		"/api/v1/admin/financial-summary",
		"/api/v1/admin/available-residents",
		"/api/v1/admin/maintenance/export",
	} {
		w := s.do(http.MethodGet, path, s.tokenFor(resident), nil)
		s.Equal(http.StatusForbidden, w.Code, path)
	}
}

func (s *HandlerSuite) TestUsersAndStatus() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flat)

	w := s.do(http.MethodGet, "/api/v1/admin/users", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var users []models.User
	s.decode(w, &users)
	s.Len(users, 2)
	s.NotContains(w.Body.String(), "password")

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/status", s.admin.ID), s.adminToken, map[string]bool{"isActive": false})
	s.Equal(http.StatusBadRequest, w.Code, "admins cannot deactivate themselves")

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/status", resident.ID), s.adminToken, map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code, "isActive is required")

	w = s.do(http.MethodPut, "/api/v1/admin/users/9999/status", s.adminToken, map[string]bool{"isActive": true})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestAssignResident() {
	resident := &models.User{Name: "Loose", Email: "loose@example.com", Password: "x", Role: models.RoleResident, IsVerified: true, IsActive: true}
	s.Require().NoError(s.db.Create(resident).Error)
	flat := testutil.CreateFlat(s.T(), s.db, "B", "201", models.FlatStatusVacant)

	w := s.do(http.MethodGet, "/api/v1/admin/available-residents", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var available []response.AvailableResidentResponse
	s.decode(w, &available)
	s.Require().Len(available, 1)
	s.Equal(resident.ID, available[0].ID)

	w = s.do(http.MethodPost, "/api/v1/admin/assign-resident", s.adminToken, AssignResidentRequest{UserID: s.admin.ID, FlatID: flat.ID})
	s.Equal(http.StatusBadRequest, w.Code, "admins cannot be assigned")

	w = s.do(http.MethodPost, "/api/v1/admin/assign-resident", s.adminToken, AssignResidentRequest{UserID: resident.ID, FlatID: 9999})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/admin/assign-resident", s.adminToken, AssignResidentRequest{UserID: resident.ID, FlatID: flat.ID})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var assigned models.Flat
	s.decode(w, &assigned)
	s.Equal(models.FlatStatusPermanent, assigned.Status)
	s.Equal("Loose", assigned.ResidentName)

	w = s.do(http.MethodGet, "/api/v1/admin/available-residents", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *HandlerSuite) TestFinancialSummary() {
	testutil.CreateBill(s.T(), s.db, "A", "101", "march", 2025, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.db, "A", "102", "march", 2025, models.BillStatusPending)
	testutil.CreateBill(s.T(), s.db, "A", "101", "april", 2025, models.BillStatusPending)

	w := s.do(http.MethodGet, "/api/v1/admin/financial-summary?month=march&year=2025", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var summary response.BillingStatisticsResponse
	s.decode(w, &summary)
	s.Equal(int64(2), summary.TotalBills)
	s.Equal(int64(1), summary.PaidBills)
	s.Equal(50.0, summary.CollectionRate)

	w = s.do(http.MethodGet, "/api/v1/admin/financial-summary?year=twenty", s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestExport() {
	testutil.CreateBill(s.T(), s.db, "A", "101", "march", 2025, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.db, "B", "201", "march", 2025, models.BillStatusPending)

	w := s.do(http.MethodGet, "/api/v1/admin/maintenance/export?wing=A", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(xlsxContentType, w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "attachment;")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	s.Require().NoError(err)
	defer f.Close()

	rows, err := f.GetRows("Maintenance Bills")
	s.Require().NoError(err)
	s.Len(rows, 2, "header plus one bill")
}

func (s *HandlerSuite) TestHealthAndUnknownRoute() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/nope", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
