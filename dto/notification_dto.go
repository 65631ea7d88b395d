package dto

import (
	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// NotificationQuery son los filtros de los listados de notificaciones
type NotificationQuery struct {
	PageQuery
	IsRead *bool  `form:"is_read"`
	Type   string `form:"type" binding:"omitempty,oneof=info warning success error"`
	UserID *uint  `form:"user_id"`
}

// UpdateNotificationRequest marca una notificación como leída o no leída
type UpdateNotificationRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

// CreateNotificationRequest crea una notificación para un usuario
type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required,max=1000"`
}

// BulkNotificationRequest envía el mismo mensaje a varios usuarios
type BulkNotificationRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required,min=1,max=1000"`
	Message string `json:"message" binding:"required,max=1000"`
}

// CreateDeliveryNotificationRequest crea un aviso sobre una entrega
type CreateDeliveryNotificationRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	DeliveryID uint   `json:"delivery_id" binding:"required"`
	Message    string `json:"message" binding:"required,max=1000"`
	Type       string `json:"type" binding:"omitempty,oneof=info warning success error"`
}

// GeneralNotificationListResponse es una página de notificaciones generales
type GeneralNotificationListResponse struct {
	Notifications []domain.GeneralNotification `json:"notifications"`
	Pagination    utils.Pagination             `json:"pagination"`
}

// DeliveryNotificationListResponse es una página de avisos de entrega
type DeliveryNotificationListResponse struct {
	Notifications []domain.DeliveryNotification `json:"notifications"`
	Pagination    utils.Pagination              `json:"pagination"`
}

// UnreadCountResponse devuelve la cantidad de notificaciones sin leer
type UnreadCountResponse struct {
	Unread int64 `json:"unread_count"`
}
