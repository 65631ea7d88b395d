package dto

import (
	"github.com/mreimer702/Rettnar/domain"
)

// SendMessageRequest: el texto no puede quedar vacío después de quitar espacios
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

// Participant es la vista pública del otro usuario de la conversación
type Participant struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// NewParticipant arma la vista pública de un usuario
func NewParticipant(u *domain.User) Participant {
	return Participant{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// ConversationSummary es una fila de GET /api/messages/conversations
type ConversationSummary struct {
	ConversationID string         `json:"conversation_id"`
	OtherUser      Participant    `json:"other_user"`
	LastMessage    domain.Message `json:"last_message"`
	UnreadCount    int64          `json:"unread_count"`
}

// ConversationResponse es una conversación con todos sus mensajes
type ConversationResponse struct {
	ConversationID string           `json:"conversation_id"`
	OtherUser      Participant      `json:"other_user"`
	Messages       []domain.Message `json:"messages"`
}

// StartConversationResponse devuelve el ID de conversación entre dos usuarios
type StartConversationResponse struct {
	ConversationID string      `json:"conversation_id"`
	Participant    Participant `json:"participant"`
}
