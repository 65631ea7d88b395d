package utils

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination es el bloque que acompaña a toda respuesta paginada
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// PageRequest guarda page/per_page ya normalizados
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest aplica los valores por defecto y el máximo de per_page
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// Offset devuelve cuántas filas saltar
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate arma el bloque de paginación para un total dado
func (p PageRequest) Paginate(total int64) Pagination {
	perPage := int64(p.PerPage)
	totalPages := int((total + perPage - 1) / perPage) // Redondeo hacia arriba
	return Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    p.Page > 1,
		HasNext:    int64(p.Page)*perPage < total,
	}
}
