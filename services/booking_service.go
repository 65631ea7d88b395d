package services

import (
	"context"
	"errors"
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
)

// BookingService contiene las reglas de reserva y los cambios de estado
type BookingService interface {
	Create(ctx context.Context, actor *domain.User, req dto.CreateBookingRequest) (*domain.Booking, error)
	List(ctx context.Context, actor *domain.User, q dto.BookingQuery) (*dto.BookingListResponse, error)
	ListByListing(ctx context.Context, actor *domain.User, listingID uint, q dto.BookingQuery) (*dto.BookingListResponse, error)
	Get(ctx context.Context, actor *domain.User, id uint) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id uint, status domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, actor *domain.User, id uint) (*domain.Booking, error)
}

type bookingService struct {
	bookings  repositories.BookingRepository
	listings  repositories.ListingRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewBookingService crea una nueva instancia del servicio
func NewBookingService(bookings repositories.BookingRepository, listings repositories.ListingRepository, publisher events.Publisher) BookingService {
	return &bookingService{
		bookings:  bookings,
		listings:  listings,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create valida en orden: listing, dueño, rango, fecha futura y por último disponibilidad
func (s *bookingService) Create(ctx context.Context, actor *domain.User, req dto.CreateBookingRequest) (*domain.Booking, error) {
	// 1. El listing tiene que existir
	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}

	// 2. Reglas de negocio
	if listing.OwnerID == actor.ID {
		return nil, validationError("you cannot book your own listing")
	}
	start, end := req.StartDate.UTC(), req.EndDate.UTC()
	if !end.After(start) {
		return nil, validationError("end date must be after start date")
	}
	if !start.After(s.now()) {
		return nil, validationError("start date must be in the future")
	}

	// 3. Chequeo de superposición e inserción en la misma transacción
	booking := &domain.Booking{
		UserID:    actor.ID,
		ListingID: listing.ID,
		StartDate: start,
		EndDate:   end,
		Status:    domain.BookingPending,
	}
	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repositories.ErrBookingOverlap):
			return nil, conflictError("listing is not available for the selected dates")
		case errors.Is(err, repositories.ErrListingUnavailable):
			return nil, conflictError("listing is blocked by the owner for the selected dates")
		}
		return nil, notFoundOr(err, "listing")
	}
	logger.FromContext(ctx).Infof("Booking created: id=%d listing=%d user=%d", booking.ID, listing.ID, actor.ID)

	booking.Listing = listing
	publish(ctx, s.publisher, bookingEvent(events.BookingCreated, actor.ID, booking, listing))
	return booking, nil
}

// List devuelve las reservas propias; un admin con all=true ve todas
func (s *bookingService) List(ctx context.Context, actor *domain.User, q dto.BookingQuery) (*dto.BookingListResponse, error) {
	filter := repositories.BookingFilter{Status: domain.BookingStatus(q.Status), Page: q.PageRequest()}
	if !(q.All && actor.IsAdmin()) {
		filter.UserID = &actor.ID
	}
	return s.list(ctx, filter)
}

// ListByListing devuelve las reservas de un listing; solo el dueño o un admin
func (s *bookingService) ListByListing(ctx context.Context, actor *domain.User, listingID uint, q dto.BookingQuery) (*dto.BookingListResponse, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	if !canManage(actor, listing.OwnerID) {
		return nil, forbiddenError("only the listing owner can see its bookings")
	}
	return s.list(ctx, repositories.BookingFilter{
		ListingID: &listingID,
		Status:    domain.BookingStatus(q.Status),
		Page:      q.PageRequest(),
	})
}

func (s *bookingService) list(ctx context.Context, filter repositories.BookingFilter) (*dto.BookingListResponse, error) {
	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return &dto.BookingListResponse{Bookings: bookings, Pagination: filter.Page.Paginate(total)}, nil
}

// Get: lo ven quien reservó, el dueño del listing o un admin
func (s *bookingService) Get(ctx context.Context, actor *domain.User, id uint) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	if booking.UserID == actor.ID || actor.IsAdmin() {
		return booking, nil
	}
	if booking.Listing != nil && booking.Listing.OwnerID == actor.ID {
		return booking, nil
	}
	return nil, forbiddenError("you do not have access to this booking")
}

// UpdateStatus lo usa el dueño del listing (o un admin) para confirmar o cancelar
func (s *bookingService) UpdateStatus(ctx context.Context, actor *domain.User, id uint, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, validationError("status must be one of pending, confirmed, cancelled")
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	listing, err := s.listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	if !canManage(actor, listing.OwnerID) {
		return nil, forbiddenError("only the listing owner can change the booking status")
	}
	return s.transition(ctx, actor, booking, listing, status)
}

// Cancel lo usa quien hizo la reserva
func (s *bookingService) Cancel(ctx context.Context, actor *domain.User, id uint) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	if booking.UserID != actor.ID {
		return nil, forbiddenError("only the user who made the booking can cancel it")
	}
	listing, err := s.listings.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	return s.transition(ctx, actor, booking, listing, domain.BookingCancelled)
}

func (s *bookingService) transition(ctx context.Context, actor *domain.User, booking *domain.Booking, listing *domain.Listing, to domain.BookingStatus) (*domain.Booking, error) {
	from := booking.Status
	if !from.CanTransitionTo(to) {
		return nil, conflictError("cannot change booking status from %s to %s", from, to)
	}
	if err := s.bookings.UpdateStatus(ctx, booking.ID, from, to); err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, conflictError("booking status changed, please retry")
		}
		return nil, err
	}
	booking.Status = to
	booking.Listing = listing
	logger.FromContext(ctx).Infof("Booking %d: %s -> %s by user %d", booking.ID, from, to, actor.ID)

	evType := events.BookingConfirmed
	if to == domain.BookingCancelled {
		evType = events.BookingCancelled
	}
	publish(ctx, s.publisher, bookingEvent(evType, actor.ID, booking, listing))
	return booking, nil
}

func bookingEvent(eventType string, actorID uint, b *domain.Booking, l *domain.Listing) events.Event {
	ev := events.New(eventType, actorID)
	ev.BookingID = b.ID
	ev.ListingID = l.ID
	ev.ListingTitle = l.Title
	ev.BookerID = b.UserID
	ev.OwnerID = l.OwnerID
	return ev
}
