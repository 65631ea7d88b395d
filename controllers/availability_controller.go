package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// AvailabilityController maneja las ventanas de disponibilidad de un listing
type AvailabilityController struct {
	service services.AvailabilityService
}

// NewAvailabilityController crea una nueva instancia del controlador
func NewAvailabilityController(service services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{service: service}
}

// List maneja GET /api/listings/:id/availability
func (ctrl *AvailabilityController) List(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	windows, err := ctrl.service.List(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

// Create maneja POST /api/listings/:id/availability
func (ctrl *AvailabilityController) Create(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	window, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), listingID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Availability created successfully", Data: window})
}

// Delete maneja DELETE /api/listings/:id/availability/:availability_id
func (ctrl *AvailabilityController) Delete(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	id, ok := parseID(c, "availability_id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), middleware.CurrentUser(c), listingID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Availability deleted successfully"})
}
