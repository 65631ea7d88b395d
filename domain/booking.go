package domain

import "time"

// BookingStatus es el estado de una reserva
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid indica si s es uno de los tres estados conocidos
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// CanTransitionTo define los cambios de estado permitidos.
// Cancelled es final.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCancelled
	}
	return false
}

// Booking es un rango de fechas reservado sobre un listing
type Booking struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	ListingID uint          `gorm:"not null;index:idx_booking_listing_range" json:"listing_id"`
	Listing   *Listing      `json:"listing,omitempty"`
	StartDate time.Time     `gorm:"not null;index:idx_booking_listing_range" json:"start_date"`
	EndDate   time.Time     `gorm:"not null;index:idx_booking_listing_range" json:"end_date"`
	Status    BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName especifica el nombre de la tabla
func (Booking) TableName() string {
	return "bookings"
}

// Overlaps aplica la regla de rangos semiabiertos: [a,b) y [c,d) se superponen si a < d && c < b
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}

// Payment registra un pago hecho por un usuario sobre un listing
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	BookingID *uint     `gorm:"index" json:"booking_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	PaidAt    time.Time `gorm:"not null" json:"paid_at"`
}

// TableName especifica el nombre de la tabla
func (Payment) TableName() string {
	return "payments"
}
