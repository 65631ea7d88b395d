package dto

// CategoryRequest se usa para crear o editar una categoría
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SubcategoryRequest se usa para crear o editar una subcategoría
type SubcategoryRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

// AmenityRequest se usa para crear o editar una comodidad
type AmenityRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}
