package domain

import "time"

// Message es un mensaje directo entre dos usuarios
type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	SentAt     time.Time  `gorm:"not null;index" json:"sent_at"`
	ReadAt     *time.Time `json:"read_at"`
}

// TableName especifica el nombre de la tabla
func (Message) TableName() string {
	return "messages"
}

// Review de un usuario sobre un listing. Un usuario deja como máximo una reseña por listing.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_user_listing" json:"user_id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_review_user_listing;index" json:"listing_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName especifica el nombre de la tabla
func (Review) TableName() string {
	return "reviews"
}
