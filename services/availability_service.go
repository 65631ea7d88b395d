package services

import (
	"context"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
)

// AvailabilityService maneja las ventanas abiertas o bloqueadas de un listing
type AvailabilityService interface {
	List(ctx context.Context, listingID uint) ([]domain.Availability, error)
	Create(ctx context.Context, actor *domain.User, listingID uint, req dto.AvailabilityRequest) (*domain.Availability, error)
	Delete(ctx context.Context, actor *domain.User, listingID, id uint) error
}

type availabilityService struct {
	availability repositories.AvailabilityRepository
	listings     repositories.ListingRepository
}

// NewAvailabilityService crea una nueva instancia del servicio
func NewAvailabilityService(availability repositories.AvailabilityRepository, listings repositories.ListingRepository) AvailabilityService {
	return &availabilityService{availability: availability, listings: listings}
}

// List devuelve las ventanas de un listing existente
func (s *availabilityService) List(ctx context.Context, listingID uint) ([]domain.Availability, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, notFoundOr(err, "listing")
	}
	windows, err := s.availability.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []domain.Availability{}
	}
	return windows, nil
}

// Create abre o bloquea una ventana; solo el dueño o un admin
func (s *availabilityService) Create(ctx context.Context, actor *domain.User, listingID uint, req dto.AvailabilityRequest) (*domain.Availability, error) {
	if err := s.authorize(ctx, actor, listingID); err != nil {
		return nil, err
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, validationError("end date must be after start date")
	}
	if req.IsAvailable == nil {
		return nil, validationError("is_available is required")
	}

	window := &domain.Availability{
		ListingID:   listingID,
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		IsAvailable: *req.IsAvailable,
	}
	if err := s.availability.Create(ctx, window); err != nil {
		return nil, err
	}
	return window, nil
}

// Delete borra una ventana del listing; solo el dueño o un admin
func (s *availabilityService) Delete(ctx context.Context, actor *domain.User, listingID, id uint) error {
	if err := s.authorize(ctx, actor, listingID); err != nil {
		return err
	}
	window, err := s.availability.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "availability")
	}
	if window.ListingID != listingID {
		return notFoundError("availability not found")
	}
	return notFoundOr(s.availability.Delete(ctx, id), "availability")
}

func (s *availabilityService) authorize(ctx context.Context, actor *domain.User, listingID uint) error {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return notFoundOr(err, "listing")
	}
	if !canManage(actor, listing.OwnerID) {
		return forbiddenError("only the listing owner can manage availability")
	}
	return nil
}
