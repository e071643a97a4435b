package handler

import (
	"fmt"
	"net/http"

	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/internal/testutil"
	"society-be-svc/pkg/utils"
)

func (s *HandlerSuite) TestRegisterVerifyLoginMe() {
	testutil.CreateFlat(s.T(), s.db, "A", "101", models.FlatStatusVacant)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", service.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "Asha@Example.com",
		Password: "secret123",
		Phone:    "9876543210",
		Role:     "resident",
		Wing:     "a",
		FlatNo:   "101",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var registered RegisterResponse
	s.decode(w, &registered)
	s.Equal("asha@example.com", registered.Email)

	// Unverified accounts cannot log in
	w = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "asha@example.com", Password: "secret123"})
	s.Equal(http.StatusUnauthorized, w.Code)

	var user models.User
	s.Require().NoError(s.db.Where("email = ?", "asha@example.com").First(&user).Error)
	s.Require().NotNil(user.VerificationCode)

	w = s.do(http.MethodPost, "/api/v1/auth/verify-email", "", VerifyEmailRequest{Email: "asha@example.com", Code: "000000"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/verify-email", "", VerifyEmailRequest{Email: "asha@example.com", Code: *user.VerificationCode})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "asha@example.com", Password: "secret123"})
	s.Require().Equal(http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID       uint         `json:"id"`
			Role     string       `json:"role"`
			Wing     string       `json:"wing"`
			FlatNo   string       `json:"flatNo"`
			Flat     *models.Flat `json:"flat"`
			IsActive bool         `json:"isActive"`
		} `json:"user"`
	}
	s.decode(w, &login)
	s.NotEmpty(login.Token)
	s.Equal("resident", login.User.Role)
	s.Equal("A", login.User.Wing)
	s.Equal("101", login.User.FlatNo)
	s.True(login.User.IsActive)
	s.Require().NotNil(login.User.Flat)
	s.Equal(models.FlatStatusPermanent, login.User.Flat.Status)

	w = s.do(http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"email":"asha@example.com"`)
}

func (s *HandlerSuite) TestRegisterErrors() {
	s.Run("unknown flat", func() {
		w := s.do(http.MethodPost, "/api/v1/auth/register", "", service.RegisterRequest{
			Name: "Ravi", Email: "ravi@example.com", Password: "secret123", Role: "resident", Wing: "Z", FlatNo: "9",
		})
		s.Equal(http.StatusBadRequest, w.Code)

		var resp utils.APIResponse
		s.decode(w, &resp)
		s.False(resp.Success)
		s.Equal(service.ErrFlatNotFound.Message, resp.Message)
	})

	s.Run("second admin", func() {
		w := s.do(http.MethodPost, "/api/v1/auth/register", "", service.RegisterRequest{
			Name: "Other", Email: "other@example.com", Password: "secret123", Role: "admin",
		})
		s.Equal(http.StatusBadRequest, w.Code)

		var resp utils.APIResponse
		s.decode(w, &resp)
		s.False(resp.Success)
		s.Equal(service.ErrAdminExists.Message, resp.Message)
	})

	s.Run("malformed body", func() {
		w := s.do(http.MethodPost, "/api/v1/auth/register", "", "not an object")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestVerifyEmailUnknownEmail() {
	w := s.do(http.MethodPost, "/api/v1/auth/verify-email", "", VerifyEmailRequest{Email: "nobody@example.com", Code: "123456"})
	s.Equal(http.StatusBadRequest, w.Code)

	var resp utils.APIResponse
	s.decode(w, &resp)
	s.False(resp.Success)
	s.Equal(service.ErrUserNotFound.Message, resp.Message)
}

func (s *HandlerSuite) TestMeRequiresToken() {
	w := s.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestDeactivatedUserIsRejected() {
	flat := testutil.CreateFlat(s.T(), s.db, "B", "202", models.FlatStatusVacant)
	resident := testutil.CreateResident(s.T(), s.db, "Ravi", "ravi@example.com", flat)
	token := s.tokenFor(resident)

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/status", resident.ID), s.adminToken, map[string]bool{"isActive": false})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}
