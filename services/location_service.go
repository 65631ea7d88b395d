package services

import (
	"context"
	"errors"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

// topLocationsLimit es el tamaño del ranking de ubicaciones
const topLocationsLimit = 20

// LocationService define la interfaz del servicio de ubicaciones
type LocationService interface {
	List(ctx context.Context, page utils.PageRequest) (*dto.LocationListResponse, error)
	Get(ctx context.Context, id uint) (*domain.Location, error)
	Search(ctx context.Context, filter repositories.LocationFilter) ([]domain.Location, error)
	// Create devuelve created=false cuando ya existía la misma dirección
	Create(ctx context.Context, in dto.LocationInput) (loc *domain.Location, created bool, err error)
	Update(ctx context.Context, id uint, in dto.LocationInput) (*domain.Location, error)
	Delete(ctx context.Context, id uint) error
	Analytics(ctx context.Context) ([]repositories.LocationStat, error)
}

type locationService struct {
	locations repositories.LocationRepository
	analytics repositories.AnalyticsRepository
}

// NewLocationService crea una nueva instancia del servicio
func NewLocationService(locations repositories.LocationRepository, analytics repositories.AnalyticsRepository) LocationService {
	return &locationService{locations: locations, analytics: analytics}
}

// List pagina las ubicaciones
func (s *locationService) List(ctx context.Context, page utils.PageRequest) (*dto.LocationListResponse, error) {
	locs, total, err := s.locations.List(ctx, page)
	if err != nil {
		return nil, err
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	return &dto.LocationListResponse{Locations: locs, Pagination: page.Paginate(total)}, nil
}

// Get busca una ubicación
func (s *locationService) Get(ctx context.Context, id uint) (*domain.Location, error) {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "location")
	}
	return loc, nil
}

// Search filtra ubicaciones; sin filtros es un error de validación
func (s *locationService) Search(ctx context.Context, filter repositories.LocationFilter) ([]domain.Location, error) {
	if filter.Empty() {
		return nil, validationError("at least one of city, state or zip_code is required")
	}
	locs, err := s.locations.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, notFoundError("no locations match the given filters")
	}
	return locs, nil
}

// Create devuelve la ubicación existente si ya hay una igual; el bool indica si se creó
func (s *locationService) Create(ctx context.Context, in dto.LocationInput) (*domain.Location, bool, error) {
	loc, err := locationFromInput(&in)
	if err != nil {
		return nil, false, err
	}
	existing, err := s.locations.FindExact(ctx, loc.Address, loc.City, loc.State, loc.ZipCode)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, false, err
	}
	return loc, true, nil
}

// Update edita una ubicación validando las coordenadas
func (s *locationService) Update(ctx context.Context, id uint, in dto.LocationInput) (*domain.Location, error) {
	next, err := locationFromInput(&in)
	if err != nil {
		return nil, err
	}
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// No puede quedar igual a otra ubicación existente
	if other, err := s.locations.FindExact(ctx, next.Address, next.City, next.State, next.ZipCode); err == nil && other.ID != id {
		return nil, conflictError("another location with this address already exists (id %d)", other.ID)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	next.ID = loc.ID
	if err := s.locations.Update(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Delete no permite borrar ubicaciones en uso
func (s *locationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	listings, users, err := s.locations.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if listings > 0 || users > 0 {
		return validationError("location is in use by %d listings and %d users", listings, users)
	}
	return notFoundOr(s.locations.Delete(ctx, id), "location")
}

// Analytics devuelve las ubicaciones con más listings
func (s *locationService) Analytics(ctx context.Context) ([]repositories.LocationStat, error) {
	return s.analytics.TopLocations(ctx, topLocationsLimit)
}
