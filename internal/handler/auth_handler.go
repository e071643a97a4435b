package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"society-be-svc/internal/middleware"
	"society-be-svc/internal/models/response"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
	"society-be-svc/pkg/utils"
)

// VerifyEmailRequest is the payload for confirming an email address
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required" example:"asha@example.com"`
	Code  string `json:"code" binding:"required" example:"482913"`
}

// LoginRequest is the payload for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message string `json:"message" example:"Registration successful. Please verify your email."`
	Email   string `json:"email" example:"asha@example.com"`
}

// MessageResponse is a bare message body
type MessageResponse struct {
	Message string `json:"message" example:"Email verified successfully"`
}

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	authService service.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /api/v1/auth/register
// @Summary Register an account
// @Description Creates an unverified account and emails a verification code. Residents must name an existing flat.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration details"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} utils.APIResponse "Validation or duplication error, or unknown flat"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondFormError(c, h.logger, err, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful. Please verify your email.",
		Email:   user.Email,
	})
}

// VerifyEmail handles POST /api/v1/auth/verify-email
// @Summary Verify an email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyEmailRequest true "Email and verification code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} utils.APIResponse "Invalid code or unknown email"
// @Router /api/v1/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Email and code are required", err)
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondFormError(c, h.logger, err, "Failed to verify email")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Email verified successfully"})
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Exchanges credentials for a bearer token valid for the configured number of hours.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} utils.APIResponse "Missing credentials"
// @Failure 401 {object} utils.APIResponse "Invalid credentials, unverified or deactivated account"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Email and password are required", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me handles GET /api/v1/auth/me
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.UserResponse
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	caller, _ := middleware.GetCaller(c)

	user, err := h.authService.Me(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, response.NewUserResponse(user))
}
