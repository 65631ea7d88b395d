package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

// DeliveryService define la interfaz del servicio de entregas
type DeliveryService interface {
	Create(ctx context.Context, actor *domain.User, req dto.CreateDeliveryRequest) (*domain.Delivery, error)
	List(ctx context.Context, actor *domain.User, page utils.PageRequest) (*dto.DeliveryListResponse, error)
	UpdateStatus(ctx context.Context, id uint, status domain.DeliveryStatus) (*domain.Delivery, error)
}

type deliveryService struct {
	deliveries    repositories.DeliveryRepository
	listings      repositories.ListingRepository
	notifications repositories.NotificationRepository
}

// NewDeliveryService crea una nueva instancia del servicio
func NewDeliveryService(deliveries repositories.DeliveryRepository, listings repositories.ListingRepository, notifications repositories.NotificationRepository) DeliveryService {
	return &deliveryService{deliveries: deliveries, listings: listings, notifications: notifications}
}

// Create programa la entrega de un listing existente
func (s *deliveryService) Create(ctx context.Context, actor *domain.User, req dto.CreateDeliveryRequest) (*domain.Delivery, error) {
	if _, err := s.listings.GetByID(ctx, req.ListingID); err != nil {
		return nil, notFoundOr(err, "listing")
	}
	d := &domain.Delivery{
		UserID:      actor.ID,
		ListingID:   req.ListingID,
		Status:      domain.DeliveryPending,
		ScheduledAt: req.ScheduledAt.UTC(),
	}
	if err := s.deliveries.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List devuelve las entregas del usuario
func (s *deliveryService) List(ctx context.Context, actor *domain.User, page utils.PageRequest) (*dto.DeliveryListResponse, error) {
	items, total, err := s.deliveries.ListByUser(ctx, actor.ID, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Delivery{}
	}
	return &dto.DeliveryListResponse{Deliveries: items, Pagination: page.Paginate(total)}, nil
}

// UpdateStatus cambia el estado y avisa al usuario con una notificación de entrega
func (s *deliveryService) UpdateStatus(ctx context.Context, id uint, status domain.DeliveryStatus) (*domain.Delivery, error) {
	if !status.Valid() {
		return nil, validationError("status must be one of pending, in_transit, delivered, cancelled")
	}
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "delivery")
	}
	if err := s.deliveries.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "delivery")
	}
	d.Status = status

	n := &domain.DeliveryNotification{
		UserID:     d.UserID,
		DeliveryID: d.ID,
		Message:    fmt.Sprintf("Your delivery #%d is now %s", d.ID, strings.ReplaceAll(string(status), "_", " ")),
		Type:       deliveryNotificationType(status),
		SentAt:     time.Now().UTC(),
	}
	if err := s.notifications.CreateDelivery(ctx, n); err != nil {
		logger.FromContext(ctx).Warnf("Could not notify delivery %d status change: %v", d.ID, err)
	}
	return d, nil
}

func deliveryNotificationType(status domain.DeliveryStatus) string {
	switch status {
	case domain.DeliveryDelivered:
		return domain.NotificationSuccess
	case domain.DeliveryCancelled:
		return domain.NotificationWarning
	}
	return domain.NotificationInfo
}
