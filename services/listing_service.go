package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

const (
	DefaultRadiusKm = 25.0
	MaxRadiusKm     = 500.0
)

// ListingService contiene la lógica de publicación y búsqueda de listings
type ListingService interface {
	Create(ctx context.Context, actor *domain.User, req dto.CreateListingRequest) (*domain.Listing, error)
	Get(ctx context.Context, id uint) (*domain.Listing, error)
	Search(ctx context.Context, actor *domain.User, q dto.ListingQuery) (*dto.ListingListResponse, error)
	Nearby(ctx context.Context, q dto.ListingQuery) (*dto.ListingListResponse, error)
	ListByOwner(ctx context.Context, ownerID uint, page utils.PageRequest) (*dto.ListingListResponse, error)
	Update(ctx context.Context, actor *domain.User, id uint, req dto.UpdateListingRequest) (*domain.Listing, error)
	Delete(ctx context.Context, actor *domain.User, id uint) error

	ListFavorites(ctx context.Context, userID uint) ([]domain.Listing, error)
	AddFavorite(ctx context.Context, userID, listingID uint) error
	RemoveFavorite(ctx context.Context, userID, listingID uint) error
}

type listingService struct {
	listings   repositories.ListingRepository
	catalog    repositories.CatalogRepository
	locations  repositories.LocationRepository
	reviews    repositories.ReviewRepository
	users      repositories.UserRepository
	searchLogs repositories.SearchLogRepository
	blobs      repositories.BlobRepository
	cache      repositories.CacheRepository
}

// ListingDeps agrupa las dependencias del servicio de listings
type ListingDeps struct {
	Listings   repositories.ListingRepository
	Catalog    repositories.CatalogRepository
	Locations  repositories.LocationRepository
	Reviews    repositories.ReviewRepository
	Users      repositories.UserRepository
	SearchLogs repositories.SearchLogRepository
	Blobs      repositories.BlobRepository
	Cache      repositories.CacheRepository
}

// NewListingService crea una nueva instancia del servicio
func NewListingService(deps ListingDeps) ListingService {
	return &listingService{
		listings:   deps.Listings,
		catalog:    deps.Catalog,
		locations:  deps.Locations,
		reviews:    deps.Reviews,
		users:      deps.Users,
		searchLogs: deps.SearchLogs,
		blobs:      deps.Blobs,
		cache:      deps.Cache,
	}
}

// Create valida la subcategoría, ubicación y comodidades y crea el listing
func (s *listingService) Create(ctx context.Context, actor *domain.User, req dto.CreateListingRequest) (*domain.Listing, error) {
	// 1. Validar campos
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if req.Price == nil || *req.Price < 0 {
		return nil, validationError("price must be zero or greater")
	}
	if req.Location == nil {
		return nil, validationError("location is required")
	}

	// 2. Referencias: subcategoría y amenities
	if _, err := s.catalog.GetSubcategory(ctx, req.SubcategoryID); err != nil {
		return nil, notFoundOr(err, "subcategory")
	}
	amenities, err := s.lookupAmenities(ctx, req.AmenityIDs)
	if err != nil {
		return nil, err
	}

	// 3. Ubicación (se reutiliza si ya existe la misma dirección)
	loc, err := resolveLocation(ctx, s.locations, req.Location)
	if err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		Price:         *req.Price,
		OwnerID:       actor.ID,
		SubcategoryID: req.SubcategoryID,
		LocationID:    &loc.ID,
		Amenities:     amenities,
		Features:      featuresFromInput(req.Features),
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infof("Listing created: id=%d owner=%d", listing.ID, actor.ID)

	invalidateListing(ctx, s.cache, listing.ID)
	return s.load(ctx, listing.ID)
}

// Get devuelve el listing completo, primero desde el caché
func (s *listingService) Get(ctx context.Context, id uint) (*domain.Listing, error) {
	key := listingDetailKey(id)
	var cached domain.Listing
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, listing)
	return listing, nil
}

// load lee el listing de la base con su promedio de reseñas
func (s *listingService) load(ctx context.Context, id uint) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	if err := s.attachRatings(ctx, []*domain.Listing{listing}); err != nil {
		return nil, err
	}
	return listing, nil
}

// Search aplica los filtros, cachea la página y registra la búsqueda
func (s *listingService) Search(ctx context.Context, actor *domain.User, q dto.ListingQuery) (*dto.ListingListResponse, error) {
	filter, err := buildListingFilter(q)
	if err != nil {
		return nil, err
	}

	// Registrar la búsqueda del usuario autenticado
	if actor != nil && filter.Search != "" {
		s.logSearch(ctx, actor.ID, filter.Search)
	}
	return s.search(ctx, filter)
}

// Nearby exige coordenadas y ordena por distancia
func (s *listingService) Nearby(ctx context.Context, q dto.ListingQuery) (*dto.ListingListResponse, error) {
	if q.Lat == nil || q.Lng == nil {
		return nil, validationError("lat and lng are required")
	}
	q.Sort = repositories.SortDistance
	filter, err := buildListingFilter(q)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, filter)
}

// ListByOwner devuelve los listings de un usuario
func (s *listingService) ListByOwner(ctx context.Context, ownerID uint, page utils.PageRequest) (*dto.ListingListResponse, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	return s.search(ctx, repositories.ListingFilter{OwnerID: &ownerID, Sort: repositories.SortNewest, Page: page})
}

func (s *listingService) search(ctx context.Context, filter repositories.ListingFilter) (*dto.ListingListResponse, error) {
	key := listingSearchKey(ctx, s.cache, filter)
	var cached dto.ListingListResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	listings, total, err := s.listings.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	ptrs := make([]*domain.Listing, len(listings))
	for i := range listings {
		ptrs[i] = &listings[i]
	}
	if err := s.attachRatings(ctx, ptrs); err != nil {
		return nil, err
	}
	if filter.Geo != nil {
		for _, l := range ptrs {
			if l.Location.HasCoordinates() {
				d := utils.HaversineKm(filter.Geo.Lat, filter.Geo.Lng, *l.Location.Latitude, *l.Location.Longitude)
				d = math.Round(d*100) / 100
				l.DistanceKm = &d
			}
		}
	}

	resp := &dto.ListingListResponse{Listings: listings, Pagination: filter.Page.Paginate(total)}
	s.cache.Set(ctx, key, resp)
	return resp, nil
}

// buildListingFilter valida la query y la convierte en filtro del repositorio
func buildListingFilter(q dto.ListingQuery) (repositories.ListingFilter, error) {
	f := repositories.ListingFilter{
		CategoryID:    q.CategoryID,
		SubcategoryID: q.SubcategoryID,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		City:          strings.TrimSpace(q.City),
		State:         strings.TrimSpace(q.State),
		ZipCode:       strings.TrimSpace(q.ZipCode),
		Search:        strings.TrimSpace(q.Search),
		Sort:          q.Sort,
		Page:          q.PageRequest(),
	}
	if f.Sort == "" {
		f.Sort = repositories.SortNewest
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return f, validationError("min_price cannot be greater than max_price")
	}

	if (q.Lat == nil) != (q.Lng == nil) {
		return f, validationError("lat and lng must be provided together")
	}
	if q.Lat == nil {
		if q.Radius != nil {
			return f, validationError("radius requires lat and lng")
		}
		if f.Sort == repositories.SortDistance {
			return f, validationError("sort=distance requires lat and lng")
		}
		return f, nil
	}
	if !utils.ValidCoordinates(*q.Lat, *q.Lng) {
		return f, validationError("lat must be between -90 and 90 and lng between -180 and 180")
	}
	radius := DefaultRadiusKm
	if q.Radius != nil {
		radius = *q.Radius
	}
	if radius <= 0 || radius > MaxRadiusKm {
		return f, validationError("radius must be greater than 0 and at most %.0f km", MaxRadiusKm)
	}
	f.Geo = &repositories.GeoFilter{Lat: *q.Lat, Lng: *q.Lng, RadiusKm: radius}
	return f, nil
}

// Update edita un listing; solo el dueño o un admin
func (s *listingService) Update(ctx context.Context, actor *domain.User, id uint, req dto.UpdateListingRequest) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	if !canManage(actor, listing.OwnerID) {
		return nil, forbiddenError("you can only modify your own listings")
	}

	// 1. Campos simples
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationError("title cannot be empty")
		}
		listing.Title = title
	}
	if req.Description != nil {
		listing.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, validationError("price must be zero or greater")
		}
		listing.Price = *req.Price
	}
	if req.SubcategoryID != nil {
		if _, err := s.catalog.GetSubcategory(ctx, *req.SubcategoryID); err != nil {
			return nil, notFoundOr(err, "subcategory")
		}
		listing.SubcategoryID = *req.SubcategoryID
	}

	// 2. Ubicación: se actualiza en el lugar
	if req.Location != nil {
		if err := s.patchLocation(ctx, listing, req.Location); err != nil {
			return nil, err
		}
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}

	// 3. Amenities y features reemplazan los actuales
	if req.AmenityIDs != nil {
		amenities, err := s.lookupAmenities(ctx, *req.AmenityIDs)
		if err != nil {
			return nil, err
		}
		if err := s.listings.ReplaceAmenities(ctx, listing, amenities); err != nil {
			return nil, err
		}
	}
	if req.Features != nil {
		if err := s.listings.ReplaceFeatures(ctx, listing.ID, featuresFromInput(*req.Features)); err != nil {
			return nil, err
		}
	}

	invalidateListing(ctx, s.cache, id)
	return s.load(ctx, id)
}

func (s *listingService) patchLocation(ctx context.Context, listing *domain.Listing, patch *dto.LocationPatch) error {
	loc := listing.Location
	if loc == nil {
		// Sin ubicación previa el parche tiene que ser completo
		loc = &domain.Location{}
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&loc.Address, patch.Address)
	apply(&loc.City, patch.City)
	apply(&loc.State, patch.State)
	apply(&loc.ZipCode, patch.ZipCode)
	apply(&loc.Country, patch.Country)
	if patch.Latitude != nil || patch.Longitude != nil {
		if err := validateCoordinates(patch.Latitude, patch.Longitude); err != nil {
			return err
		}
		loc.Latitude, loc.Longitude = patch.Latitude, patch.Longitude
	}
	if loc.Address == "" || loc.City == "" || loc.State == "" || loc.ZipCode == "" || loc.Country == "" {
		return validationError("address, city, state, zip_code and country are required")
	}

	if loc.ID == 0 {
		if err := s.locations.Create(ctx, loc); err != nil {
			return err
		}
	} else if err := s.locations.Update(ctx, loc); err != nil {
		return err
	}
	listing.LocationID = &loc.ID
	listing.Location = loc
	return nil
}

// Delete borra el listing y los archivos subidos de sus imágenes
func (s *listingService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "listing")
	}
	if !canManage(actor, listing.OwnerID) {
		return forbiddenError("you can only delete your own listings")
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return notFoundOr(err, "listing")
	}

	for _, img := range listing.Images {
		if img.BlobKey == "" || !s.blobs.Enabled() {
			continue
		}
		if err := s.blobs.Delete(ctx, img.BlobKey); err != nil {
			logger.FromContext(ctx).Warnf("Could not delete blob %s of listing %d: %v", img.BlobKey, id, err)
		}
	}
	invalidateListing(ctx, s.cache, id)
	logger.FromContext(ctx).Infof("Listing deleted: id=%d by user %d", id, actor.ID)
	return nil
}

// ListFavorites devuelve los favoritos del usuario
func (s *listingService) ListFavorites(ctx context.Context, userID uint) ([]domain.Listing, error) {
	listings, err := s.users.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, nil
}

// AddFavorite agrega un listing existente a favoritos
func (s *listingService) AddFavorite(ctx context.Context, userID, listingID uint) error {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return notFoundOr(err, "listing")
	}
	return s.users.AddFavorite(ctx, userID, listingID)
}

// RemoveFavorite quita un listing de favoritos
func (s *listingService) RemoveFavorite(ctx context.Context, userID, listingID uint) error {
	return s.users.RemoveFavorite(ctx, userID, listingID)
}

func (s *listingService) lookupAmenities(ctx context.Context, ids []uint) ([]domain.Amenity, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.Amenity{}, nil
	}
	amenities, err := s.catalog.GetAmenitiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(amenities) != len(ids) {
		return nil, notFoundError("amenity not found")
	}
	return amenities, nil
}

func (s *listingService) attachRatings(ctx context.Context, listings []*domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]uint, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	summaries, err := s.reviews.Summaries(ctx, ids)
	if err != nil {
		return err
	}
	for _, l := range listings {
		if sum, ok := summaries[l.ID]; ok {
			l.AverageRating = math.Round(sum.Average*100) / 100
			l.ReviewCount = sum.Count
		}
	}
	return nil
}

func (s *listingService) logSearch(ctx context.Context, userID uint, keyword string) {
	entry := &domain.SearchLog{UserID: userID, Keyword: truncateRunes(keyword, maxKeywordLength), SearchedAt: time.Now().UTC()}
	if err := s.searchLogs.Create(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).Warnf("Could not log search for user %d: %v", userID, err)
	}
}

func featuresFromInput(in []dto.FeatureInput) []domain.ListingFeature {
	out := make([]domain.ListingFeature, 0, len(in))
	for _, f := range in {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			continue
		}
		out = append(out, domain.ListingFeature{Key: key, Value: strings.TrimSpace(f.Value)})
	}
	return out
}
