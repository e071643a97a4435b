package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/internal/testutil"
)

func (s *HandlerSuite) TestBulkGenerateAndPay() {
	flatA := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	flatB := testutil.CreateFlat(s.T(), s.db, "B", "202", models.FlatStatusVacant)
	testutil.CreateFlat(s.T(), s.db, "C", "303", models.FlatStatusVacant)
	u1 := testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flatA)
	u2 := testutil.CreateResident(s.T(), s.db, "U2", "u2@example.com", flatB)

	amount := 5000.0
	req := service.GenerateBulkRequest{Month: "March", Year: 2025, Amount: &amount, DueDate: "2025-03-10"}

	w := s.do(http.MethodPost, "/api/v1/admin/maintenance/bulk-generate", s.adminToken, req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var generated BulkGenerateResponse
	s.decode(w, &generated)
	s.True(generated.Success)
	s.Equal(int64(2), generated.BillsCount)
	s.Equal("Generated 2 maintenance bills for march 2025", generated.Message)

	// Regenerating replaces rather than duplicates
	w = s.do(http.MethodPost, "/api/v1/admin/maintenance/bulk-generate", s.adminToken, req)
	s.Require().Equal(http.StatusCreated, w.Code)
	var count int64
	s.Require().NoError(s.db.Model(&models.MaintenanceBill{}).Count(&count).Error)
	s.Equal(int64(2), count)

	// Residents only see their own bills
	w = s.do(http.MethodGet, "/api/v1/maintenance", s.tokenFor(u1), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var bills []models.MaintenanceBill
	s.decode(w, &bills)
	s.Require().Len(bills, 1)
	s.Equal("A", bills[0].Wing)
	s.Equal(models.BillStatusPending, bills[0].Status)
	billID := bills[0].ID

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/maintenance/%d/pay", billID), s.tokenFor(u2), PayBillRequest{PaymentMethod: "upi"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/maintenance/%d/pay", billID), s.tokenFor(u1), PayBillRequest{PaymentMethod: "upi"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var paid models.MaintenanceBill
	s.decode(w, &paid)
	s.Equal(models.BillStatusPaid, paid.Status)
	s.Equal("upi", paid.PaymentMethod)
	s.NotNil(paid.PaidDate)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/maintenance/%d/pay", billID), s.tokenFor(u1), nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/v1/maintenance/9999/pay", s.tokenFor(u1), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestPayDefaultsToOnline() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flat)
	bill := testutil.CreateBill(s.T(), s.db, "A", "101", "april", 2025, models.BillStatusOverdue)

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/maintenance/%d/pay", bill.ID), s.tokenFor(resident), nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var paid models.MaintenanceBill
	s.decode(w, &paid)
	s.Equal("online", paid.PaymentMethod)
}

func (s *HandlerSuite) TestPayReadsChunkedBody() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flat)
	bill := testutil.CreateBill(s.T(), s.db, "A", "101", "april", 2025, models.BillStatusPending)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/maintenance/%d/pay", bill.ID), strings.NewReader(`{"paymentMethod":"upi"}`))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.tokenFor(resident))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var paid models.MaintenanceBill
	s.decode(w, &paid)
	s.Equal("upi", paid.PaymentMethod)
}

func (s *HandlerSuite) TestPayRejectsMalformedBody() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "U1", "u1@example.com", flat)
	bill := testutil.CreateBill(s.T(), s.db, "A", "101", "april", 2025, models.BillStatusPending)

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/maintenance/%d/pay", bill.ID), s.tokenFor(resident), "upi")
	s.Equal(http.StatusBadRequest, w.Code)

	var stored models.MaintenanceBill
	s.Require().NoError(s.db.First(&stored, bill.ID).Error)
	s.Equal(models.BillStatusPending, stored.Status)
}

func (s *HandlerSuite) TestBulkGenerateValidation() {
	w := s.do(http.MethodPost, "/api/v1/admin/maintenance/bulk-generate", s.adminToken, service.GenerateBulkRequest{Month: "march"})
	s.Equal(http.StatusBadRequest, w.Code)

	amount := 100.0
	w = s.do(http.MethodPost, "/api/v1/admin/maintenance/bulk-generate", s.adminToken, service.GenerateBulkRequest{
		Month: "march", Year: 2025, Amount: &amount, DueDate: "2025-03-10",
	})
	s.Equal(http.StatusBadRequest, w.Code, "no occupied flats")
}

func (s *HandlerSuite) TestCreateAndDeleteBill() {
	testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	amount := 2500.0
	req := service.CreateBillRequest{Wing: "A", FlatNo: "101", Amount: &amount, Month: "may", Year: 2025, DueDate: "2025-05-10"}

	w := s.do(http.MethodPost, "/api/v1/maintenance", s.adminToken, req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var bill models.MaintenanceBill
	s.decode(w, &bill)

	w = s.do(http.MethodPost, "/api/v1/maintenance", s.adminToken, req)
	s.Equal(http.StatusBadRequest, w.Code)

	req.FlatNo = "999"
	w = s.do(http.MethodPost, "/api/v1/maintenance", s.adminToken, req)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/maintenance/%d", bill.ID), s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/maintenance/%d", bill.ID), s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestCreateBatch() {
	testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	testutil.CreateFlat(s.T(), s.db, "A", "102", models.FlatStatusVacant)
	testutil.CreateBill(s.T(), s.db, "A", "101", "june", 2025, models.BillStatusPending)
	amount := 2500.0

	w := s.do(http.MethodPost, "/api/v1/maintenance/bulk", s.adminToken, CreateBatchRequest{Bills: []service.CreateBillRequest{
		{Wing: "A", FlatNo: "101", Amount: &amount, Month: "june", Year: 2025, DueDate: "2025-06-10"},
		{Wing: "A", FlatNo: "102", Amount: &amount, Month: "june", Year: 2025, DueDate: "2025-06-10"},
	}})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var result BatchResponse
	s.decode(w, &result)
	s.Equal(int64(1), result.Created)
	s.Equal(int64(1), result.Skipped)

	w = s.do(http.MethodPost, "/api/v1/maintenance/bulk", s.adminToken, CreateBatchRequest{})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestListBillsForResidentWithoutFlat() {
	resident := &models.User{Name: "Loose", Email: "loose@example.com", Password: "x", Role: models.RoleResident, IsVerified: true, IsActive: true}
	s.Require().NoError(s.db.Create(resident).Error)

	w := s.do(http.MethodGet, "/api/v1/maintenance", s.tokenFor(resident), nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestAdminListsWithFilters() {
	testutil.CreateBill(s.T(), s.db, "A", "101", "january", 2025, models.BillStatusPaid)
	testutil.CreateBill(s.T(), s.db, "A", "101", "february", 2025, models.BillStatusPending)
	testutil.CreateBill(s.T(), s.db, "B", "201", "february", 2025, models.BillStatusPending)

	w := s.do(http.MethodGet, "/api/v1/maintenance?status=pending&wing=b", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var bills []models.MaintenanceBill
	s.decode(w, &bills)
	s.Require().Len(bills, 1)
	s.Equal("201", bills[0].FlatNo)

	w = s.do(http.MethodGet, "/api/v1/maintenance?year=abc", s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/maintenance/stats/overview", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"totalBills":3`)
}
