package dto

import (
	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// LocationSearchQuery son los filtros de GET /api/locations/search
type LocationSearchQuery struct {
	City    string `form:"city"`
	State   string `form:"state"`
	ZipCode string `form:"zip_code"`
}

// LocationListResponse es una página de ubicaciones
type LocationListResponse struct {
	Locations  []domain.Location `json:"locations"`
	Pagination utils.Pagination  `json:"pagination"`
}

// CreateSearchLogRequest es el body para registrar una búsqueda
type CreateSearchLogRequest struct {
	Keyword  string         `json:"keyword" binding:"required,min=1,max=255"`
	Location *LocationInput `json:"location"`
}

// SearchLogListResponse es una página del historial de búsquedas
type SearchLogListResponse struct {
	SearchLogs []domain.SearchLog `json:"search_logs"`
	Pagination utils.Pagination   `json:"pagination"`
}

// AnalyticsQuery son los parámetros de las estadísticas de búsqueda
type AnalyticsQuery struct {
	Days  int `form:"days" binding:"omitempty,min=1,max=365"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
