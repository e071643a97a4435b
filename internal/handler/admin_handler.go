package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"society-be-svc/internal/middleware"
	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
	"society-be-svc/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UserStatusRequest is the payload for activating or deactivating an account
type UserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required" example:"false"`
}

// AssignResidentRequest is the payload for moving a resident into a flat
type AssignResidentRequest struct {
	UserID uint `json:"userId" binding:"required" example:"7"`
	FlatID uint `json:"flatId" binding:"required" example:"12"`
}

// BulkGenerateResponse reports the outcome of bulk bill generation
type BulkGenerateResponse struct {
	Success      bool   `json:"success" example:"true"`
	Message      string `json:"message" example:"Generated 42 maintenance bills for march 2024"`
	BillsCount   int64  `json:"billsCount" example:"42"`
	SkippedCount int64  `json:"skippedCount" example:"0"`
}

// AdminHandler handles administrator HTTP requests
type AdminHandler struct {
	dashboardService   service.DashboardService
	userService        service.UserService
	flatService        service.FlatService
	maintenanceService service.MaintenanceService
	logger             *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	dashboardService service.DashboardService,
	userService service.UserService,
	flatService service.FlatService,
	maintenanceService service.MaintenanceService,
	logger *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		dashboardService:   dashboardService,
		userService:        userService,
		flatService:        flatService,
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// DashboardStats handles GET /api/v1/admin/dashboard-stats
// @Summary Dashboard counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.DashboardStatisticsResponse
// @Failure 403 {object} utils.APIResponse "Admin access required"
// @Router /api/v1/admin/dashboard-stats [get]
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStatistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get dashboard statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers handles GET /api/v1/admin/users
// @Summary List accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// SetUserStatus handles PUT /api/v1/admin/users/:id/status
// @Summary Activate or deactivate an account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UserStatusRequest true "New state"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.APIResponse "Cannot deactivate own account"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Router /api/v1/admin/users/{id}/status [put]
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", err)
		return
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "isActive is required", err)
		return
	}

	caller, _ := middleware.GetCaller(c)
	user, err := h.userService.SetUserActive(c.Request.Context(), caller, id, *req.IsActive)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update user status")
		return
	}
	c.JSON(http.StatusOK, user)
}

// BulkGenerate handles POST /api/v1/admin/maintenance/bulk-generate
// @Summary Bill every occupied flat for one period
// @Description Existing bills for the period are replaced.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.GenerateBulkRequest true "Billing period"
// @Success 201 {object} BulkGenerateResponse
// @Failure 400 {object} utils.APIResponse "Validation error or no occupied flats"
// @Router /api/v1/admin/maintenance/bulk-generate [post]
func (h *AdminHandler) BulkGenerate(c *gin.Context) {
	var req service.GenerateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	result, err := h.maintenanceService.GenerateBulk(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate maintenance bills")
		return
	}

	c.JSON(http.StatusCreated, BulkGenerateResponse{
		Success:      true,
		Message:      fmt.Sprintf("Generated %d maintenance bills for %s %d", result.Created, models.NormalizeMonth(req.Month), req.Year),
		BillsCount:   result.Created,
		SkippedCount: result.Skipped,
	})
}

// Export handles GET /api/v1/admin/maintenance/export
// @Summary Download bills as a spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query string false "Month name"
// @Param year query int false "Year"
// @Param status query string false "pending, paid or overdue"
// @Param wing query string false "Wing"
// @Success 200 {file} file
// @Failure 400 {object} utils.APIResponse "Bad filter"
// @Router /api/v1/admin/maintenance/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	filter, err := billFilter(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid filter", err)
		return
	}

	data, filename, err := h.maintenanceService.Export(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to export maintenance bills")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// FinancialSummary handles GET /api/v1/admin/financial-summary
// @Summary Collection summary for a period
// @Description Both month and year are needed to narrow the summary to one period.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month name"
// @Param year query int false "Year"
// @Success 200 {object} response.BillingStatisticsResponse
// @Router /api/v1/admin/financial-summary [get]
func (h *AdminHandler) FinancialSummary(c *gin.Context) {
	year, err := utils.GetOptionalIntQuery(c, "year")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid year", err)
		return
	}

	summary, err := h.maintenanceService.FinancialSummary(c.Request.Context(), c.Query("month"), year)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get financial summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AssignResident handles POST /api/v1/admin/assign-resident
// @Summary Move a resident into a flat
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignResidentRequest true "Resident and flat"
// @Success 200 {object} models.Flat
// @Failure 400 {object} utils.APIResponse "User is not a resident or flat is occupied"
// @Failure 404 {object} utils.APIResponse "User or flat not found"
// @Router /api/v1/admin/assign-resident [post]
func (h *AdminHandler) AssignResident(c *gin.Context) {
	var req AssignResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "userId and flatId are required", err)
		return
	}

	flat, err := h.flatService.AssignResident(c.Request.Context(), req.UserID, req.FlatID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to assign resident")
		return
	}
	c.JSON(http.StatusOK, flat)
}

// AvailableResidents handles GET /api/v1/admin/available-residents
// @Summary Residents without a flat
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} response.AvailableResidentResponse
// @Router /api/v1/admin/available-residents [get]
func (h *AdminHandler) AvailableResidents(c *gin.Context) {
	residents, err := h.flatService.AvailableResidents(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get available residents")
		return
	}
	c.JSON(http.StatusOK, residents)
}
