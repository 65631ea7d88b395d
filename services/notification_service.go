package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
)

// NotificationService maneja las notificaciones generales y de entregas.
// También implementa events.Handler: cada evento del dominio genera notificaciones.
type NotificationService interface {
	ListGeneral(ctx context.Context, actor *domain.User, q dto.NotificationQuery) (*dto.GeneralNotificationListResponse, error)
	SetGeneralRead(ctx context.Context, actor *domain.User, id uint, isRead bool) (*domain.GeneralNotification, error)
	DeleteGeneral(ctx context.Context, actor *domain.User, id uint) error
	MarkAllRead(ctx context.Context, actor *domain.User) (int64, error)
	CountUnread(ctx context.Context, actor *domain.User) (int64, error)

	// Admin
	CreateGeneral(ctx context.Context, req dto.CreateNotificationRequest) (*domain.GeneralNotification, error)
	CreateBulk(ctx context.Context, req dto.BulkNotificationRequest) ([]domain.GeneralNotification, error)
	ListAllGeneral(ctx context.Context, q dto.NotificationQuery) (*dto.GeneralNotificationListResponse, error)
	ListAllDelivery(ctx context.Context, q dto.NotificationQuery) (*dto.DeliveryNotificationListResponse, error)
	CreateDelivery(ctx context.Context, req dto.CreateDeliveryNotificationRequest) (*domain.DeliveryNotification, error)

	ListDelivery(ctx context.Context, actor *domain.User, q dto.NotificationQuery) (*dto.DeliveryNotificationListResponse, error)
	DeleteDelivery(ctx context.Context, actor *domain.User, id uint) error

	HandleEvent(ctx context.Context, ev events.Event) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	deliveries    repositories.DeliveryRepository
}

// NewNotificationService crea una nueva instancia del servicio
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, deliveries repositories.DeliveryRepository) NotificationService {
	return &notificationService{notifications: notifications, users: users, deliveries: deliveries}
}

// ListGeneral devuelve las notificaciones del actor
func (s *notificationService) ListGeneral(ctx context.Context, actor *domain.User, q dto.NotificationQuery) (*dto.GeneralNotificationListResponse, error) {
	return s.listGeneral(ctx, repositories.NotificationFilter{UserID: &actor.ID, IsRead: q.IsRead, Page: q.PageRequest()})
}

// ListAllGeneral devuelve las notificaciones de todos (solo admin)
func (s *notificationService) ListAllGeneral(ctx context.Context, q dto.NotificationQuery) (*dto.GeneralNotificationListResponse, error) {
	return s.listGeneral(ctx, repositories.NotificationFilter{UserID: q.UserID, IsRead: q.IsRead, Page: q.PageRequest()})
}

func (s *notificationService) listGeneral(ctx context.Context, f repositories.NotificationFilter) (*dto.GeneralNotificationListResponse, error) {
	items, total, err := s.notifications.ListGeneral(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.GeneralNotification{}
	}
	return &dto.GeneralNotificationListResponse{Notifications: items, Pagination: f.Page.Paginate(total)}, nil
}

// SetGeneralRead marca una notificación propia como leída o no leída
func (s *notificationService) SetGeneralRead(ctx context.Context, actor *domain.User, id uint, isRead bool) (*domain.GeneralNotification, error) {
	n, err := s.ownGeneral(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.notifications.SetGeneralRead(ctx, id, isRead); err != nil {
		return nil, notFoundOr(err, "notification")
	}
	n.IsRead = isRead
	return n, nil
}

// DeleteGeneral borra una notificación propia
func (s *notificationService) DeleteGeneral(ctx context.Context, actor *domain.User, id uint) error {
	if _, err := s.ownGeneral(ctx, actor, id); err != nil {
		return err
	}
	return notFoundOr(s.notifications.DeleteGeneral(ctx, id), "notification")
}

// ownGeneral: las notificaciones de otro usuario se reportan como inexistentes
func (s *notificationService) ownGeneral(ctx context.Context, actor *domain.User, id uint) (*domain.GeneralNotification, error) {
	n, err := s.notifications.GetGeneral(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "notification")
	}
	if n.UserID != actor.ID {
		return nil, notFoundError("notification not found")
	}
	return n, nil
}

// MarkAllRead marca como leídas todas las notificaciones del actor
func (s *notificationService) MarkAllRead(ctx context.Context, actor *domain.User) (int64, error) {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}

// CountUnread cuenta las notificaciones sin leer del actor
func (s *notificationService) CountUnread(ctx context.Context, actor *domain.User) (int64, error) {
	return s.notifications.CountUnread(ctx, actor.ID)
}

// CreateGeneral crea una notificación para un usuario existente
func (s *notificationService) CreateGeneral(ctx context.Context, req dto.CreateNotificationRequest) (*domain.GeneralNotification, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, validationError("message is required")
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	n := &domain.GeneralNotification{UserID: req.UserID, Message: msg}
	if err := s.notifications.CreateGeneral(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateBulk envía el mismo mensaje a varios usuarios; si alguno no existe no se crea ninguna
func (s *notificationService) CreateBulk(ctx context.Context, req dto.BulkNotificationRequest) ([]domain.GeneralNotification, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, validationError("message is required")
	}
	ids := uniqueIDs(req.UserIDs)
	if len(ids) == 0 {
		return nil, validationError("user_ids is required")
	}
	found, err := s.users.CountByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if found != int64(len(ids)) {
		return nil, notFoundError("one or more users not found")
	}

	rows := make([]*domain.GeneralNotification, len(ids))
	for i, id := range ids {
		rows[i] = &domain.GeneralNotification{UserID: id, Message: msg}
	}
	if err := s.notifications.CreateGeneral(ctx, rows...); err != nil {
		return nil, err
	}
	out := make([]domain.GeneralNotification, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	logger.FromContext(ctx).Infof("Bulk notification sent to %d users", len(out))
	return out, nil
}

// CreateDelivery crea un aviso para una entrega existente
func (s *notificationService) CreateDelivery(ctx context.Context, req dto.CreateDeliveryNotificationRequest) (*domain.DeliveryNotification, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, validationError("message is required")
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	if _, err := s.deliveries.GetByID(ctx, req.DeliveryID); err != nil {
		return nil, notFoundOr(err, "delivery")
	}
	kind := req.Type
	if kind == "" {
		kind = domain.NotificationInfo
	}
	n := &domain.DeliveryNotification{
		UserID:     req.UserID,
		DeliveryID: req.DeliveryID,
		Message:    msg,
		Type:       kind,
		SentAt:     time.Now().UTC(),
	}
	if err := s.notifications.CreateDelivery(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListDelivery devuelve los avisos de entrega del actor
func (s *notificationService) ListDelivery(ctx context.Context, actor *domain.User, q dto.NotificationQuery) (*dto.DeliveryNotificationListResponse, error) {
	return s.listDelivery(ctx, repositories.NotificationFilter{UserID: &actor.ID, Type: q.Type, Page: q.PageRequest()})
}

// ListAllDelivery devuelve los avisos de entrega de todos (solo admin)
func (s *notificationService) ListAllDelivery(ctx context.Context, q dto.NotificationQuery) (*dto.DeliveryNotificationListResponse, error) {
	return s.listDelivery(ctx, repositories.NotificationFilter{UserID: q.UserID, Type: q.Type, Page: q.PageRequest()})
}

func (s *notificationService) listDelivery(ctx context.Context, f repositories.NotificationFilter) (*dto.DeliveryNotificationListResponse, error) {
	items, total, err := s.notifications.ListDelivery(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.DeliveryNotification{}
	}
	return &dto.DeliveryNotificationListResponse{Notifications: items, Pagination: f.Page.Paginate(total)}, nil
}

// DeleteDelivery borra un aviso de entrega propio
func (s *notificationService) DeleteDelivery(ctx context.Context, actor *domain.User, id uint) error {
	n, err := s.notifications.GetDelivery(ctx, id)
	if err != nil {
		return notFoundOr(err, "notification")
	}
	if n.UserID != actor.ID {
		return notFoundError("notification not found")
	}
	return notFoundOr(s.notifications.DeleteDelivery(ctx, id), "notification")
}

// HandleEvent convierte un evento en notificaciones generales para los usuarios afectados
func (s *notificationService) HandleEvent(ctx context.Context, ev events.Event) error {
	var rows []*domain.GeneralNotification
	notify := func(userID uint, format string, args ...interface{}) {
		if userID == 0 {
			return
		}
		rows = append(rows, &domain.GeneralNotification{UserID: userID, Message: fmt.Sprintf(format, args...)})
	}

	switch ev.Type {
	case events.BookingCreated:
		notify(ev.OwnerID, "New booking request for %q", ev.ListingTitle)
	case events.BookingConfirmed:
		notify(ev.BookerID, "Your booking for %q was confirmed", ev.ListingTitle)
	case events.BookingCancelled:
		if ev.ActorID == ev.BookerID {
			notify(ev.OwnerID, "A booking for %q was cancelled by the guest", ev.ListingTitle)
		} else {
			notify(ev.BookerID, "Your booking for %q was cancelled", ev.ListingTitle)
		}
	case events.MessageSent:
		notify(ev.ReceiverID, "New message from %s", ev.SenderName)
	case events.PaymentRecorded:
		notify(ev.OwnerID, "Payment of %.2f received for %q", ev.Amount, ev.ListingTitle)
	default:
		logger.FromContext(ctx).Debugf("Ignoring event %s of type %s", ev.ID, ev.Type)
		return nil
	}

	if len(rows) == 0 {
		return nil
	}
	if err := s.notifications.CreateGeneral(ctx, rows...); err != nil {
		return fmt.Errorf("failed to store notifications for event %s: %w", ev.ID, err)
	}
	logger.FromContext(ctx).Debugf("Event %s (%s) produced %d notifications", ev.ID, ev.Type, len(rows))
	return nil
}
