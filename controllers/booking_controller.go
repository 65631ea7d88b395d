package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// BookingController maneja las reservas
type BookingController struct {
	service services.BookingService
}

// NewBookingController crea una nueva instancia del controlador
func NewBookingController(service services.BookingService) *BookingController {
	return &BookingController{service: service}
}

// Create maneja POST /api/bookings
// Fechas en RFC3339, ejemplo: "2030-01-10T00:00:00Z"
func (ctrl *BookingController) Create(c *gin.Context) {
	// 1. Leer el JSON del body
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	// 2. El servicio valida fechas y solapamientos dentro de una transacción
	booking, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Devolver la reserva creada
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// List maneja GET /api/bookings (all=true solo para admins)
func (ctrl *BookingController) List(c *gin.Context) {
	var q dto.BookingQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.List(c.Request.Context(), middleware.CurrentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByListing maneja GET /api/bookings/listing/:listing_id
func (ctrl *BookingController) ListByListing(c *gin.Context) {
	listingID, ok := parseID(c, "listing_id")
	if !ok {
		return
	}
	var q dto.BookingQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.ListByListing(c.Request.Context(), middleware.CurrentUser(c), listingID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get maneja GET /api/bookings/:id
func (ctrl *BookingController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.service.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateStatus maneja PUT /api/bookings/:id/status (dueño del listing o admin)
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := ctrl.service.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c), id, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Booking status updated", Data: booking})
}

// Cancel maneja PUT /api/bookings/:id/cancel (quien reservó)
func (ctrl *BookingController) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.service.Cancel(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Booking cancelled", Data: booking})
}
