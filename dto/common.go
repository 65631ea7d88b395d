package dto

import "github.com/mreimer702/Rettnar/utils"

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse representa una respuesta exitosa
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageQuery son los parámetros de paginación de la query string
type PageQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1"`
}

// PageRequest aplica los valores por defecto y el máximo
func (q PageQuery) PageRequest() utils.PageRequest {
	return utils.NewPageRequest(q.Page, q.PerPage)
}

// LocationInput es el bloque de ubicación embebido en usuarios, listings y búsquedas
type LocationInput struct {
	Address   string   `json:"address" binding:"required,max=200"`
	City      string   `json:"city" binding:"required,max=100"`
	State     string   `json:"state" binding:"required,max=100"`
	ZipCode   string   `json:"zip_code" binding:"required,max=20"`
	Country   string   `json:"country" binding:"required,max=100"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}
