package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// ReviewController maneja las reseñas de los listings
type ReviewController struct {
	service services.ReviewService
}

// NewReviewController crea una nueva instancia del controlador
func NewReviewController(service services.ReviewService) *ReviewController {
	return &ReviewController{service: service}
}

// Create maneja POST /api/listings/:id/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), listingID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Review created successfully", Data: review})
}

// List maneja GET /api/listings/:id/reviews
func (ctrl *ReviewController) List(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := ctrl.service.List(c.Request.Context(), listingID, q.PageRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete maneja DELETE /api/reviews/:id
func (ctrl *ReviewController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Review deleted successfully"})
}
