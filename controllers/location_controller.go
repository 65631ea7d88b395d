package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/services"
)

// LocationController maneja las ubicaciones compartidas por usuarios y listings
type LocationController struct {
	service services.LocationService
}

// NewLocationController crea una nueva instancia del controlador
func NewLocationController(service services.LocationService) *LocationController {
	return &LocationController{service: service}
}

// List maneja GET /api/locations y GET /api/locations/admin/all
func (ctrl *LocationController) List(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := ctrl.service.List(c.Request.Context(), q.PageRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get maneja GET /api/locations/:id
func (ctrl *LocationController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	loc, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// Search maneja GET /api/locations/search?city=&state=&zip_code=
func (ctrl *LocationController) Search(c *gin.Context) {
	var q dto.LocationSearchQuery
	if !bindQuery(c, &q) {
		return
	}
	locs, err := ctrl.service.Search(c.Request.Context(), repositories.LocationFilter{
		City:    q.City,
		State:   q.State,
		ZipCode: q.ZipCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locs)
}

// Create maneja POST /api/locations
// Si la dirección ya existe devuelve la fila existente con 200
func (ctrl *LocationController) Create(c *gin.Context) {
	var req dto.LocationInput
	if !bindJSON(c, &req) {
		return
	}
	loc, created, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Location already exists", Data: loc})
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Location created successfully", Data: loc})
}

// Update maneja PUT /api/locations/:id (admin)
func (ctrl *LocationController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.LocationInput
	if !bindJSON(c, &req) {
		return
	}
	loc, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Location updated successfully", Data: loc})
}

// Delete maneja DELETE /api/locations/:id (admin)
// Falla con 400 si algún listing o usuario la usa
func (ctrl *LocationController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Location deleted successfully"})
}

// Analytics maneja GET /api/locations/admin/analytics
func (ctrl *LocationController) Analytics(c *gin.Context) {
	stats, err := ctrl.service.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
