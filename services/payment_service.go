package services

import (
	"context"
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

// PaymentService solo registra pagos, no procesa cobros
type PaymentService interface {
	Create(ctx context.Context, actor *domain.User, req dto.CreatePaymentRequest) (*domain.Payment, error)
	List(ctx context.Context, actor *domain.User, page utils.PageRequest) (*dto.PaymentListResponse, error)
}

type paymentService struct {
	payments  repositories.PaymentRepository
	listings  repositories.ListingRepository
	bookings  repositories.BookingRepository
	publisher events.Publisher
}

// NewPaymentService crea una nueva instancia del servicio
func NewPaymentService(payments repositories.PaymentRepository, listings repositories.ListingRepository, bookings repositories.BookingRepository, publisher events.Publisher) PaymentService {
	return &paymentService{payments: payments, listings: listings, bookings: bookings, publisher: publisher}
}

// Create registra el pago de un listing y publica el evento
func (s *paymentService) Create(ctx context.Context, actor *domain.User, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if req.Amount <= 0 {
		return nil, validationError("amount must be greater than 0")
	}
	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}

	// La reserva, si viene, tiene que ser del usuario y del mismo listing
	if req.BookingID != nil {
		booking, err := s.bookings.GetByID(ctx, *req.BookingID)
		if err != nil {
			return nil, notFoundOr(err, "booking")
		}
		if booking.UserID != actor.ID {
			return nil, forbiddenError("the booking does not belong to you")
		}
		if booking.ListingID != listing.ID {
			return nil, validationError("the booking is for a different listing")
		}
		if booking.Status == domain.BookingCancelled {
			return nil, validationError("cannot pay for a cancelled booking")
		}
	}

	payment := &domain.Payment{
		UserID:    actor.ID,
		ListingID: listing.ID,
		BookingID: req.BookingID,
		Amount:    req.Amount,
		PaidAt:    time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infof("Payment recorded: id=%d listing=%d amount=%.2f", payment.ID, listing.ID, payment.Amount)

	ev := events.New(events.PaymentRecorded, actor.ID)
	ev.PaymentID = payment.ID
	ev.Amount = payment.Amount
	ev.ListingID = listing.ID
	ev.ListingTitle = listing.Title
	ev.OwnerID = listing.OwnerID
	if payment.BookingID != nil {
		ev.BookingID = *payment.BookingID
	}
	publish(ctx, s.publisher, ev)
	return payment, nil
}

// List devuelve los pagos del actor
func (s *paymentService) List(ctx context.Context, actor *domain.User, page utils.PageRequest) (*dto.PaymentListResponse, error) {
	payments, total, err := s.payments.ListByUser(ctx, actor.ID, page)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return &dto.PaymentListResponse{Payments: payments, Pagination: page.Paginate(total)}, nil
}
