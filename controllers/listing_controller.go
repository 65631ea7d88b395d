package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// ListingController maneja publicaciones, búsqueda y favoritos
type ListingController struct {
	service services.ListingService
}

// NewListingController crea una nueva instancia del controlador
func NewListingController(service services.ListingService) *ListingController {
	return &ListingController{service: service}
}

// Create maneja POST /api/listings
// El dueño es siempre el usuario del token
func (ctrl *ListingController) Create(c *gin.Context) {
	// 1. Leer el JSON del body
	var req dto.CreateListingRequest
	if !bindJSON(c, &req) {
		return
	}

	// 2. Crear el listing
	listing, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Devolver el listing completo
	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Listing created successfully",
		Data:    listing,
	})
}

// Search maneja GET /api/listings
// Ejemplo: GET /api/listings?lat=40.71&lng=-74.0&radius=10&sort=distance
func (ctrl *ListingController) Search(c *gin.Context) {
	// 1. Leer filtros de la query string (números inválidos -> 400)
	var q dto.ListingQuery
	if !bindQuery(c, &q) {
		return
	}

	// 2. Buscar. Si hay usuario logueado se registra la búsqueda
	result, err := ctrl.service.Search(c.Request.Context(), middleware.CurrentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Nearby maneja GET /api/listings/nearby?lat=&lng=&radius=
func (ctrl *ListingController) Nearby(c *gin.Context) {
	var q dto.ListingQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.Nearby(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get maneja GET /api/listings/:id
func (ctrl *ListingController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	listing, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Update maneja PUT /api/listings/:id
// Solo el dueño o un admin
func (ctrl *ListingController) Update(c *gin.Context) {
	// 1. Obtener el ID de la URL
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// 2. Leer el JSON del body (todos los campos opcionales)
	var req dto.UpdateListingRequest
	if !bindJSON(c, &req) {
		return
	}

	// 3. Actualizar
	listing, err := ctrl.service.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Listing updated successfully",
		Data:    listing,
	})
}

// Delete maneja DELETE /api/listings/:id
func (ctrl *ListingController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Listing deleted successfully"})
}

// ListByOwner maneja GET /api/listings/user/:owner_id
func (ctrl *ListingController) ListByOwner(c *gin.Context) {
	ownerID, ok := parseID(c, "owner_id")
	if !ok {
		return
	}
	ctrl.listByOwner(c, ownerID)
}

// MyListings maneja GET /api/listings/my-listings
func (ctrl *ListingController) MyListings(c *gin.Context) {
	ctrl.listByOwner(c, middleware.CurrentUser(c).ID)
}

func (ctrl *ListingController) listByOwner(c *gin.Context, ownerID uint) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	result, err := ctrl.service.ListByOwner(c.Request.Context(), ownerID, q.PageRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ---------- Favoritos ----------

// ListFavorites maneja GET /api/users/me/favorites
func (ctrl *ListingController) ListFavorites(c *gin.Context) {
	listings, err := ctrl.service.ListFavorites(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// AddFavorite maneja POST /api/users/me/favorites/:listing_id
func (ctrl *ListingController) AddFavorite(c *gin.Context) {
	listingID, ok := parseID(c, "listing_id")
	if !ok {
		return
	}
	if err := ctrl.service.AddFavorite(c.Request.Context(), middleware.CurrentUser(c).ID, listingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Listing added to favorites"})
}

// RemoveFavorite maneja DELETE /api/users/me/favorites/:listing_id
func (ctrl *ListingController) RemoveFavorite(c *gin.Context) {
	listingID, ok := parseID(c, "listing_id")
	if !ok {
		return
	}
	if err := ctrl.service.RemoveFavorite(c.Request.Context(), middleware.CurrentUser(c).ID, listingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Listing removed from favorites"})
}
