package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// SearchLogController maneja el historial de búsquedas y las estadísticas
type SearchLogController struct {
	service services.SearchLogService
}

// NewSearchLogController crea una nueva instancia del controlador
func NewSearchLogController(service services.SearchLogService) *SearchLogController {
	return &SearchLogController{service: service}
}

// Create maneja POST /api/search-logs
func (ctrl *SearchLogController) Create(c *gin.Context) {
	var req dto.CreateSearchLogRequest
	if !bindJSON(c, &req) {
		return
	}
	log, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Search logged", Data: log})
}

// List maneja GET /api/search-logs
func (ctrl *SearchLogController) List(c *gin.Context) {
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

// Analytics maneja GET /api/search-logs/analytics?days=30&limit=20 (admin)
func (ctrl *SearchLogController) Analytics(c *gin.Context) {
	var q dto.AnalyticsQuery
	if !bindQuery(c, &q) {
		return
	}
	stats, err := ctrl.service.Analytics(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
