package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// PaymentController registra pagos; no hay pasarela detrás
type PaymentController struct {
	service services.PaymentService
}

// NewPaymentController crea una nueva instancia del controlador
func NewPaymentController(service services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

// Create maneja POST /api/payments
func (ctrl *PaymentController) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Payment recorded successfully", Data: payment})
}

// List maneja GET /api/payments
func (ctrl *PaymentController) List(c *gin.Context) {
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
