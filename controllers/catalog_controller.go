package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/services"
)

// CatalogController expone categorías, subcategorías y amenities
type CatalogController struct {
	service services.CatalogService
}

// NewCatalogController crea una nueva instancia del controlador
func NewCatalogController(service services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

// ---------- Categorías ----------

// ListCategories maneja GET /api/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	categories, err := ctrl.service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory maneja GET /api/categories/:id
func (ctrl *CatalogController) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	category, err := ctrl.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory maneja POST /api/categories (solo admin)
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Category created successfully", Data: category})
}

// UpdateCategory maneja PUT /api/categories/:id (solo admin)
func (ctrl *CatalogController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := ctrl.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Category updated successfully", Data: category})
}

// DeleteCategory maneja DELETE /api/categories/:id (solo admin)
func (ctrl *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Category deleted successfully"})
}

// ---------- Subcategorías ----------

// ListSubcategories maneja GET /api/subcategories?category_id=
func (ctrl *CatalogController) ListSubcategories(c *gin.Context) {
	var q struct {
		CategoryID *uint `form:"category_id"`
	}
	if !bindQuery(c, &q) {
		return
	}
	subs, err := ctrl.service.ListSubcategories(c.Request.Context(), q.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetSubcategory maneja GET /api/subcategories/:id
func (ctrl *CatalogController) GetSubcategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sub, err := ctrl.service.GetSubcategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CreateSubcategory maneja POST /api/subcategories (solo admin)
func (ctrl *CatalogController) CreateSubcategory(c *gin.Context) {
	var req dto.SubcategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := ctrl.service.CreateSubcategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Subcategory created successfully", Data: sub})
}

// UpdateSubcategory maneja PUT /api/subcategories/:id (solo admin)
func (ctrl *CatalogController) UpdateSubcategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SubcategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := ctrl.service.UpdateSubcategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Subcategory updated successfully", Data: sub})
}

// DeleteSubcategory maneja DELETE /api/subcategories/:id (solo admin)
func (ctrl *CatalogController) DeleteSubcategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.DeleteSubcategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Subcategory deleted successfully"})
}

// ---------- Amenities ----------

// ListAmenities maneja GET /api/amenities
func (ctrl *CatalogController) ListAmenities(c *gin.Context) {
	amenities, err := ctrl.service.ListAmenities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenities)
}

// GetAmenity maneja GET /api/amenities/:id
func (ctrl *CatalogController) GetAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	amenity, err := ctrl.service.GetAmenity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenity)
}

// CreateAmenity maneja POST /api/amenities (solo admin)
func (ctrl *CatalogController) CreateAmenity(c *gin.Context) {
	var req dto.AmenityRequest
	if !bindJSON(c, &req) {
		return
	}
	amenity, err := ctrl.service.CreateAmenity(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Amenity created successfully", Data: amenity})
}

// UpdateAmenity maneja PUT /api/amenities/:id (solo admin)
func (ctrl *CatalogController) UpdateAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AmenityRequest
	if !bindJSON(c, &req) {
		return
	}
	amenity, err := ctrl.service.UpdateAmenity(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Amenity updated successfully", Data: amenity})
}

// DeleteAmenity maneja DELETE /api/amenities/:id (solo admin)
func (ctrl *CatalogController) DeleteAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.DeleteAmenity(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Amenity deleted successfully"})
}
