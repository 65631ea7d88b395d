package dto

import (
	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// RegisterRequest es lo que envía el frontend cuando alguien se registra
type RegisterRequest struct {
	FirstName string         `json:"first_name" binding:"required,max=50"`
	LastName  string         `json:"last_name" binding:"max=50"`
	Email     string         `json:"email" binding:"required,email,max=100"`
	Password  string         `json:"password" binding:"required,min=6,max=72"`
	Phone     string         `json:"phone" binding:"max=20"`
	RoleIDs   []uint         `json:"role_ids"`
	Location  *LocationInput `json:"location"`
}

// LoginRequest representa el request para login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse devuelve el token JWT y los datos del usuario
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// UpdateUserRequest: todos los campos son opcionales
type UpdateUserRequest struct {
	FirstName *string        `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName  *string        `json:"last_name" binding:"omitempty,max=50"`
	Email     *string        `json:"email" binding:"omitempty,email,max=100"`
	Password  *string        `json:"password" binding:"omitempty,min=6,max=72"`
	Phone     *string        `json:"phone" binding:"omitempty,max=20"`
	RoleIDs   *[]uint        `json:"role_ids"`
	Location  *LocationInput `json:"location"`
}

// UserListResponse es la respuesta paginada del listado de usuarios
type UserListResponse struct {
	Users      []domain.User    `json:"users"`
	Pagination utils.Pagination `json:"pagination"`
}

// RoleRequest crea o renombra un rol
type RoleRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}
