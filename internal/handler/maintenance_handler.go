package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"society-be-svc/internal/middleware"
	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
	"society-be-svc/pkg/utils"
)

// PayBillRequest is the payload for paying a bill
type PayBillRequest struct {
	PaymentMethod string `json:"paymentMethod" example:"upi"`
}

// CreateBatchRequest is the payload for creating several bills at once
type CreateBatchRequest struct {
	Bills []service.CreateBillRequest `json:"bills"`
}

// BatchResponse reports the outcome of a batch insert
type BatchResponse struct {
	Message string `json:"message" example:"3 bills created"`
	Created int64  `json:"created" example:"3"`
	Skipped int64  `json:"skipped" example:"0"`
}

// MaintenanceHandler handles maintenance bill HTTP requests
type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	logger             *logger.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService service.MaintenanceService, logger *logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// billFilter reads the optional month, year, status and wing query parameters
func billFilter(c *gin.Context) (service.BillListFilter, error) {
	year, err := utils.GetOptionalIntQuery(c, "year")
	if err != nil {
		return service.BillListFilter{}, err
	}
	return service.BillListFilter{
		Month:  c.Query("month"),
		Year:   year,
		Status: models.BillStatus(c.Query("status")),
		Wing:   c.Query("wing"),
	}, nil
}

// ListBills handles GET /api/v1/maintenance
// @Summary List maintenance bills
// @Description Residents only see their own flat's bills. Admins may filter.
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month name"
// @Param year query int false "Year"
// @Param status query string false "pending, paid or overdue"
// @Param wing query string false "Wing"
// @Success 200 {array} models.MaintenanceBill
// @Failure 400 {object} utils.APIResponse "Resident without a flat or bad filter"
// @Router /api/v1/maintenance [get]
func (h *MaintenanceHandler) ListBills(c *gin.Context) {
	filter, err := billFilter(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid filter", err)
		return
	}

	caller, _ := middleware.GetCaller(c)
	bills, err := h.maintenanceService.ListBills(c.Request.Context(), caller, filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch maintenance bills")
		return
	}
	c.JSON(http.StatusOK, bills)
}

// CreateBill handles POST /api/v1/maintenance
// @Summary Bill one flat
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateBillRequest true "Bill details"
// @Success 201 {object} models.MaintenanceBill
// @Failure 400 {object} utils.APIResponse "Validation error or duplicate period"
// @Failure 404 {object} utils.APIResponse "Flat not found"
// @Router /api/v1/maintenance [post]
func (h *MaintenanceHandler) CreateBill(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	bill, err := h.maintenanceService.CreateSingleBill(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create maintenance bill")
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// CreateBatch handles POST /api/v1/maintenance/bulk
// @Summary Create several bills
// @Description Bills that already exist for their flat and period are skipped.
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBatchRequest true "Bills"
// @Success 201 {object} BatchResponse
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Router /api/v1/maintenance/bulk [post]
func (h *MaintenanceHandler) CreateBatch(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}
	if len(req.Bills) == 0 {
		utils.BadRequestResponse(c, "Bills array is required", nil)
		return
	}

	result, err := h.maintenanceService.CreateBatch(c.Request.Context(), req.Bills)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create maintenance bills")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"created": result.Created,
		"skipped": result.Skipped,
	}).Info("Maintenance batch created")

	c.JSON(http.StatusCreated, BatchResponse{
		Message: "Maintenance bills created",
		Created: result.Created,
		Skipped: result.Skipped,
	})
}

// PayBill handles PUT /api/v1/maintenance/:id/pay
// @Summary Pay a bill
// @Description Residents can only pay their own flat's bills. Paid bills cannot be paid again.
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Param request body PayBillRequest false "Payment method, defaults to online"
// @Success 200 {object} models.MaintenanceBill
// @Failure 400 {object} utils.APIResponse "Already paid"
// @Failure 403 {object} utils.APIResponse "Access denied"
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Router /api/v1/maintenance/{id}/pay [put]
func (h *MaintenanceHandler) PayBill(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bill ID", err)
		return
	}

	// The body is optional and may arrive without a declared length
	var req PayBillRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.BadRequestResponse(c, "Request body must be valid JSON", err)
			return
		}
	}

	caller, _ := middleware.GetCaller(c)
	bill, err := h.maintenanceService.Pay(c.Request.Context(), caller, id, req.PaymentMethod)
	if err != nil {
		respondError(c, h.logger, err, "Failed to process payment")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// DeleteBill handles DELETE /api/v1/maintenance/:id
// @Summary Delete a bill
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bill ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Router /api/v1/maintenance/{id} [delete]
func (h *MaintenanceHandler) DeleteBill(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bill ID", err)
		return
	}

	if err := h.maintenanceService.DeleteBill(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete maintenance bill")
		return
	}
	utils.SuccessResponse(c, "Maintenance bill deleted successfully", nil)
}

// Stats handles GET /api/v1/maintenance/stats/overview
// @Summary Bill statistics
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.BillingStatisticsResponse
// @Router /api/v1/maintenance/stats/overview [get]
func (h *MaintenanceHandler) Stats(c *gin.Context) {
	stats, err := h.maintenanceService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
