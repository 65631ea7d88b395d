package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// UserController maneja los endpoints HTTP de autenticación y usuarios
type UserController struct {
	service services.UserService
}

// NewUserController crea una nueva instancia del controlador
func NewUserController(service services.UserService) *UserController {
	return &UserController{service: service}
}

// Register maneja POST /api/auth/register y POST /api/users
// Este endpoint se usa para REGISTRAR un nuevo usuario.
// Si quien llama es admin puede asignar role_ids.
func (ctrl *UserController) Register(c *gin.Context) {
	// 1. Leer el JSON del body y parsearlo a RegisterRequest
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	// 2. Llamar al servicio para crear el usuario
	user, err := ctrl.service.Register(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Devolver respuesta exitosa con el usuario creado
	// Status 201 = Created
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "User created successfully",
		Data:    user,
	})
}

// Login maneja POST /api/auth/login y POST /api/users/login
func (ctrl *UserController) Login(c *gin.Context) {
	// 1. Leer el JSON del body
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	// 2. El servicio valida la contraseña y genera el JWT
	response, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Devolver el token JWT y los datos del usuario
	c.JSON(http.StatusOK, response)
}

// Me maneja GET /api/auth/me
func (ctrl *UserController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// GetUserByID maneja GET /api/users/:id
// Ejemplo: GET /api/users/5 -> obtiene el usuario con ID 5
func (ctrl *UserController) GetUserByID(c *gin.Context) {
	// 1. Obtener el parámetro "id" de la URL
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// 2. Llamar al servicio para obtener el usuario
	user, err := ctrl.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Devolver el usuario encontrado
	c.JSON(http.StatusOK, user)
}

// GetAllUsers maneja GET /api/users
// Solo accesible por administradores
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}

	users, err := ctrl.service.ListUsers(c.Request.Context(), q.PageRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser maneja PUT /api/users/:id
// Solo el admin o el propio usuario pueden actualizarse
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	// 1. Obtener el ID de la URL
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// 2. Leer el JSON del body
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	// 3. Llamar al servicio para actualizar
	user, err := ctrl.service.UpdateUser(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 4. Devolver el usuario actualizado
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "User updated successfully",
		Data:    user,
	})
}

// DeleteUser maneja DELETE /api/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "User deleted successfully",
	})
}
