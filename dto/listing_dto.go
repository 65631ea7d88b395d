package dto

import (
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// FeatureInput es un par clave/valor libre del listing
type FeatureInput struct {
	Key   string `json:"key" binding:"required,max=100"`
	Value string `json:"value" binding:"max=100"`
}

// CreateListingRequest representa el request para publicar un listing
type CreateListingRequest struct {
	Title         string         `json:"title" binding:"required,min=1,max=100"`
	Description   string         `json:"description" binding:"max=1000"`
	Price         *int           `json:"price" binding:"required,min=0"`
	SubcategoryID uint           `json:"subcategory_id" binding:"required"`
	Location      *LocationInput `json:"location" binding:"required"`
	AmenityIDs    []uint         `json:"amenity_ids"`
	Features      []FeatureInput `json:"features" binding:"omitempty,dive"`
}

// LocationPatch actualiza solo los campos enviados de la ubicación
type LocationPatch struct {
	Address   *string  `json:"address" binding:"omitempty,max=200"`
	City      *string  `json:"city" binding:"omitempty,max=100"`
	State     *string  `json:"state" binding:"omitempty,max=100"`
	ZipCode   *string  `json:"zip_code" binding:"omitempty,max=20"`
	Country   *string  `json:"country" binding:"omitempty,max=100"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// UpdateListingRequest: actualización parcial
type UpdateListingRequest struct {
	Title         *string         `json:"title" binding:"omitempty,min=1,max=100"`
	Description   *string         `json:"description" binding:"omitempty,max=1000"`
	Price         *int            `json:"price" binding:"omitempty,min=0"`
	SubcategoryID *uint           `json:"subcategory_id"`
	Location      *LocationPatch  `json:"location"`
	AmenityIDs    *[]uint         `json:"amenity_ids"`
	Features      *[]FeatureInput `json:"features"`
}

// ListingQuery son los filtros de GET /api/listings
type ListingQuery struct {
	PageQuery
	CategoryID    *uint    `form:"category_id"`
	SubcategoryID *uint    `form:"subcategory_id"`
	MinPrice      *int     `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice      *int     `form:"max_price" binding:"omitempty,min=0"`
	City          string   `form:"city"`
	State         string   `form:"state"`
	ZipCode       string   `form:"zip_code"`
	Search        string   `form:"search" binding:"max=255"`
	Lat           *float64 `form:"lat"`
	Lng           *float64 `form:"lng"`
	Radius        *float64 `form:"radius"`
	Sort          string   `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc distance"`
}

// ListingListResponse es la respuesta paginada de listings
type ListingListResponse struct {
	Listings   []domain.Listing `json:"listings"`
	Pagination utils.Pagination `json:"pagination"`
}

// AddImageRequest agrega una imagen por URL
type AddImageRequest struct {
	URL       string `json:"url" binding:"required,max=2048"`
	IsPrimary bool   `json:"is_primary"`
}

// BulkImagesRequest agrega varias imágenes de una vez
type BulkImagesRequest struct {
	Images []AddImageRequest `json:"images" binding:"required,min=1,max=20,dive"`
}

// UpdateImageRequest tiene los campos editables de una imagen
type UpdateImageRequest struct {
	URL       *string `json:"url" binding:"omitempty,min=1,max=2048"`
	IsPrimary *bool   `json:"is_primary"`
}

// AvailabilityRequest crea una ventana de disponibilidad (o bloqueo)
type AvailabilityRequest struct {
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	IsAvailable *bool     `json:"is_available" binding:"required"`
}

// CreateReviewRequest: rating de 1 a 5
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// ReviewListResponse incluye el promedio del listing
type ReviewListResponse struct {
	Reviews       []domain.Review  `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	Pagination    utils.Pagination `json:"pagination"`
}
