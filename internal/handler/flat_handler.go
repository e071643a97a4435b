package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
	"society-be-svc/pkg/utils"
)

// FlatStatusRequest is the payload for changing a flat's occupancy status
type FlatStatusRequest struct {
	Status models.FlatStatus `json:"status" binding:"required" example:"vacant"`
}

// FlatHandler handles flat inventory HTTP requests
type FlatHandler struct {
	flatService service.FlatService
	logger      *logger.Logger
}

// NewFlatHandler creates a new flat handler
func NewFlatHandler(flatService service.FlatService, logger *logger.Logger) *FlatHandler {
	return &FlatHandler{
		flatService: flatService,
		logger:      logger,
	}
}

// ListFlats handles GET /api/v1/flats
// @Summary List flats
// @Tags flats
// @Produce json
// @Security BearerAuth
// @Param wing query string false "Only flats in this wing"
// @Success 200 {array} models.Flat
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/flats [get]
func (h *FlatHandler) ListFlats(c *gin.Context) {
	flats, err := h.flatService.ListFlats(c.Request.Context(), c.Query("wing"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get flats")
		return
	}
	c.JSON(http.StatusOK, flats)
}

// ListWings handles GET /api/v1/flats/wings
// @Summary List wings
// @Tags flats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /api/v1/flats/wings [get]
func (h *FlatHandler) ListWings(c *gin.Context) {
	wings, err := h.flatService.ListWings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get wings")
		return
	}
	c.JSON(http.StatusOK, wings)
}

// CreateFlat handles POST /api/v1/flats
// @Summary Add a flat
// @Tags flats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateFlatRequest true "Flat details"
// @Success 201 {object} models.Flat
// @Failure 400 {object} utils.APIResponse "Validation error or duplicate flat"
// @Failure 403 {object} utils.APIResponse "Admin access required"
// @Router /api/v1/flats [post]
func (h *FlatHandler) CreateFlat(c *gin.Context) {
	var req service.CreateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	flat, err := h.flatService.CreateFlat(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create flat")
		return
	}
	c.JSON(http.StatusCreated, flat)
}

// UpdateFlat handles PUT /api/v1/flats/:id
// @Summary Edit a flat
// @Tags flats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Flat ID"
// @Param request body service.UpdateFlatRequest true "Fields to change"
// @Success 200 {object} models.Flat
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Flat not found"
// @Router /api/v1/flats/{id} [put]
func (h *FlatHandler) UpdateFlat(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid flat ID", err)
		return
	}

	var req service.UpdateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	flat, err := h.flatService.UpdateFlat(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update flat")
		return
	}
	c.JSON(http.StatusOK, flat)
}

// SetFlatStatus handles PUT /api/v1/flats/:id/status
// @Summary Change a flat's occupancy status
// @Description Setting a flat vacant detaches its resident.
// @Tags flats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Flat ID"
// @Param request body FlatStatusRequest true "New status"
// @Success 200 {object} models.Flat
// @Failure 400 {object} utils.APIResponse "Invalid status or transition"
// @Failure 404 {object} utils.APIResponse "Flat not found"
// @Router /api/v1/flats/{id}/status [put]
func (h *FlatHandler) SetFlatStatus(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid flat ID", err)
		return
	}

	var req FlatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Status is required", err)
		return
	}

	flat, err := h.flatService.SetFlatStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update flat status")
		return
	}
	c.JSON(http.StatusOK, flat)
}

// DeleteFlat handles DELETE /api/v1/flats/:id
// @Summary Delete a flat
// @Description Residents linked to the flat are detached.
// @Tags flats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Flat ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse "Flat not found"
// @Router /api/v1/flats/{id} [delete]
func (h *FlatHandler) DeleteFlat(c *gin.Context) {
	id, err := utils.GetIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid flat ID", err)
		return
	}

	if err := h.flatService.DeleteFlat(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete flat")
		return
	}
	utils.SuccessResponse(c, "Flat deleted successfully", nil)
}
