package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// DeliveryController maneja los pedidos de entrega
type DeliveryController struct {
	service services.DeliveryService
}

// NewDeliveryController crea una nueva instancia del controlador
func NewDeliveryController(service services.DeliveryService) *DeliveryController {
	return &DeliveryController{service: service}
}

// Create maneja POST /api/deliveries
func (ctrl *DeliveryController) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if !bindJSON(c, &req) {
		return
	}
	delivery, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Delivery scheduled", Data: delivery})
}

// List maneja GET /api/deliveries
func (ctrl *DeliveryController) List(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := ctrl.service.List(c.Request.Context(), middleware.CurrentUser(c), q.PageRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus maneja PUT /api/deliveries/:id/status (admin)
// También notifica al usuario de la entrega
func (ctrl *DeliveryController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDeliveryStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	delivery, err := ctrl.service.UpdateStatus(c.Request.Context(), id, domain.DeliveryStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Delivery status updated", Data: delivery})
}
