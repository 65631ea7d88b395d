package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/services"
)

// RoleController: lecturas públicas, cambios solo admin
type RoleController struct {
	service services.RoleService
}

// NewRoleController crea una nueva instancia del controlador
func NewRoleController(service services.RoleService) *RoleController {
	return &RoleController{service: service}
}

// List maneja GET /api/roles
func (ctrl *RoleController) List(c *gin.Context) {
	roles, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Get maneja GET /api/roles/:id
func (ctrl *RoleController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	role, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// Create maneja POST /api/roles
func (ctrl *RoleController) Create(c *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := ctrl.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Role created successfully", Data: role})
}

// Update maneja PUT /api/roles/:id
func (ctrl *RoleController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := ctrl.service.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role updated successfully", Data: role})
}

// Delete maneja DELETE /api/roles/:id
func (ctrl *RoleController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role deleted successfully"})
}
