package domain

import "time"

// GeneralNotification es un aviso dirigido a un usuario
type GeneralNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName especifica el nombre de la tabla
func (GeneralNotification) TableName() string {
	return "general_notifications"
}

// DeliveryStatus es el estado de una entrega
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// Valid indica si s es un estado de entrega conocido
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

// Delivery es una entrega programada de un listing a un usuario
type Delivery struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	ListingID   uint           `gorm:"not null;index" json:"listing_id"`
	Status      DeliveryStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	ScheduledAt time.Time      `json:"scheduled_at"`
}

// TableName especifica el nombre de la tabla
func (Delivery) TableName() string {
	return "deliveries"
}

// Tipos de notificación de entrega
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// DeliveryNotification avisa un cambio en una entrega
type DeliveryNotification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	DeliveryID uint      `gorm:"not null;index" json:"delivery_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Type       string    `gorm:"type:varchar(50);not null;default:'info'" json:"type"`
	SentAt     time.Time `gorm:"index" json:"sent_at"`
}

// TableName especifica el nombre de la tabla
func (DeliveryNotification) TableName() string {
	return "delivery_notifications"
}

// SearchLog registra una búsqueda hecha por un usuario
type SearchLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Keyword    string    `gorm:"type:varchar(255);not null;index" json:"keyword"`
	LocationID *uint     `json:"location_id"`
	Location   *Location `json:"location,omitempty"`
	SearchedAt time.Time `gorm:"not null;index" json:"searched_at"`
}

// TableName especifica el nombre de la tabla
func (SearchLog) TableName() string {
	return "search_logs"
}

// Models lista todas las tablas para AutoMigrate, primero las padres
func Models() []interface{} {
	return []interface{}{
		&Role{}, &Location{}, &User{},
		&Category{}, &Subcategory{}, &Amenity{},
		&Listing{}, &ListingFeature{}, &Image{}, &Availability{},
		&Booking{}, &Payment{}, &Message{}, &Review{},
		&GeneralNotification{}, &Delivery{}, &DeliveryNotification{}, &SearchLog{},
	}
}
