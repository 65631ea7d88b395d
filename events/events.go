package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claves de ruteo de los eventos del dominio
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	MessageSent      = "message.sent"
	PaymentRecorded  = "payment.recorded"
)

// RoutingPatterns son los bindings de la cola de notificaciones
var RoutingPatterns = []string{"booking.*", "message.*", "payment.*"}

// Event es el mensaje que viaja por el exchange. Cada tipo usa solo algunos campos.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`

	// Usuario que provocó el evento
	ActorID uint `json:"actor_id"`

	BookingID    uint   `json:"booking_id,omitempty"`
	ListingID    uint   `json:"listing_id,omitempty"`
	ListingTitle string `json:"listing_title,omitempty"`
	BookerID     uint   `json:"booker_id,omitempty"`
	OwnerID      uint   `json:"owner_id,omitempty"`

	MessageID  uint   `json:"message_id,omitempty"`
	SenderID   uint   `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	ReceiverID uint   `json:"receiver_id,omitempty"`

	PaymentID uint    `json:"payment_id,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
}

// New crea un evento con ID y fecha
func New(eventType string, actorID uint) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
	}
}

// Publisher publica eventos del dominio
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Handler procesa un evento recibido
type Handler interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// HandlerFunc adapta una función a Handler
type HandlerFunc func(ctx context.Context, ev Event) error

// HandleEvent llama a f(ctx, ev)
func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}
