package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// NotificationFilter filtra notificaciones. UserID nil = todas (admin).
type NotificationFilter struct {
	UserID *uint
	IsRead *bool
	Type   string
	Page   utils.PageRequest
}

// NotificationRepository define la interfaz del repositorio de notificaciones
type NotificationRepository interface {
	CreateGeneral(ctx context.Context, notifications ...*domain.GeneralNotification) error
	GetGeneral(ctx context.Context, id uint) (*domain.GeneralNotification, error)
	ListGeneral(ctx context.Context, filter NotificationFilter) ([]domain.GeneralNotification, int64, error)
	SetGeneralRead(ctx context.Context, id uint, isRead bool) error
	DeleteGeneral(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)

	CreateDelivery(ctx context.Context, n *domain.DeliveryNotification) error
	GetDelivery(ctx context.Context, id uint) (*domain.DeliveryNotification, error)
	ListDelivery(ctx context.Context, filter NotificationFilter) ([]domain.DeliveryNotification, int64, error)
	DeleteDelivery(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository crea una nueva instancia del repositorio
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateGeneral inserta en lote; se usa también para los envíos masivos
func (r *notificationRepository) CreateGeneral(ctx context.Context, notifications ...*domain.GeneralNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(notifications).Error)
}

// GetGeneral busca una notificación general por ID
func (r *notificationRepository) GetGeneral(ctx context.Context, id uint) (*domain.GeneralNotification, error) {
	var n domain.GeneralNotification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// ListGeneral pagina las notificaciones generales según el filtro
func (r *notificationRepository) ListGeneral(ctx context.Context, f NotificationFilter) ([]domain.GeneralNotification, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.GeneralNotification{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.IsRead != nil {
		q = q.Where("is_read = ?", *f.IsRead)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.GeneralNotification
	err := q.Order("created_at DESC").Order("id DESC").Offset(f.Page.Offset()).Limit(f.Page.PerPage).Find(&out).Error
	return out, total, err
}

// SetGeneralRead cambia el estado de lectura de una notificación
func (r *notificationRepository) SetGeneralRead(ctx context.Context, id uint, isRead bool) error {
	return translate(r.db.WithContext(ctx).Model(&domain.GeneralNotification{}).
		Where("id = ?", id).
		Update("is_read", isRead).Error)
}

// DeleteGeneral borra una notificación general
func (r *notificationRepository) DeleteGeneral(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.GeneralNotification{}, id)
}

// MarkAllRead marca como leídas todas las notificaciones del usuario
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.GeneralNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnread cuenta las notificaciones sin leer del usuario
func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.GeneralNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// CreateDelivery inserta un aviso de entrega
func (r *notificationRepository) CreateDelivery(ctx context.Context, n *domain.DeliveryNotification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

// GetDelivery busca un aviso de entrega por ID
func (r *notificationRepository) GetDelivery(ctx context.Context, id uint) (*domain.DeliveryNotification, error) {
	var n domain.DeliveryNotification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// ListDelivery pagina los avisos de entrega según el filtro
func (r *notificationRepository) ListDelivery(ctx context.Context, f NotificationFilter) ([]domain.DeliveryNotification, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.DeliveryNotification{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.DeliveryNotification
	err := q.Order("sent_at DESC").Order("id DESC").Offset(f.Page.Offset()).Limit(f.Page.PerPage).Find(&out).Error
	return out, total, err
}

// DeleteDelivery borra un aviso de entrega
func (r *notificationRepository) DeleteDelivery(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.DeliveryNotification{}, id)
}
