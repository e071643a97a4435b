package handler

import (
	"fmt"
	"net/http"

	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/internal/testutil"
)

func (s *HandlerSuite) TestFlatLifecycle() {
	w := s.do(http.MethodPost, "/api/v1/flats", s.adminToken, service.CreateFlatRequest{Wing: "c", FlatNo: "301", OwnerName: "Meera"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var flat models.Flat
	s.decode(w, &flat)
	s.Equal("C", flat.Wing)
	s.Equal(models.FlatStatusVacant, flat.Status)

	w = s.do(http.MethodPost, "/api/v1/flats", s.adminToken, service.CreateFlatRequest{Wing: "C", FlatNo: "301"})
	s.Equal(http.StatusBadRequest, w.Code)

	area := 900.0
	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/flats/%d", flat.ID), s.adminToken, service.UpdateFlatRequest{Area: &area})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &flat)
	s.Equal(900.0, flat.Area)

	w = s.do(http.MethodGet, "/api/v1/flats?wing=c", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var flats []models.Flat
	s.decode(w, &flats)
	s.Len(flats, 1)

	w = s.do(http.MethodGet, "/api/v1/flats/wings", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`["C"]`, w.Body.String())

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/flats/%d", flat.ID), s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/flats/%d", flat.ID), s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestVacatingFlatDetachesResident() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "Asha", "asha@example.com", flat)

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/flats/%d/status", flat.ID), s.adminToken, FlatStatusRequest{Status: models.FlatStatusVacant})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Flat
	s.decode(w, &updated)
	s.Equal(models.FlatStatusVacant, updated.Status)
	s.Empty(updated.ResidentName)
	s.Nil(updated.ResidentID)

	var user models.User
	s.Require().NoError(s.db.First(&user, resident.ID).Error)
	s.Empty(user.Wing)
	s.Empty(user.FlatNo)
}

func (s *HandlerSuite) TestFlatWritesRequireAdmin() {
	flat := testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "Asha", "asha@example.com", flat)
	token := s.tokenFor(resident)

	w := s.do(http.MethodGet, "/api/v1/flats", token, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/flats", token, service.CreateFlatRequest{Wing: "D", FlatNo: "1"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/flats/%d", flat.ID), token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestFlatInvalidID() {
	w := s.do(http.MethodPut, "/api/v1/flats/abc/status", s.adminToken, FlatStatusRequest{Status: models.FlatStatusVacant})
	s.Equal(http.StatusBadRequest, w.Code)
}
