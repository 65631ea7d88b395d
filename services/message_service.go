package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
)

const conversationPrefix = "conv_"

// ConversationID arma el id "conv_<menor>_<mayor>" de la conversación entre dos usuarios
func ConversationID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s%d_%d", conversationPrefix, a, b)
}

// ParseConversationID devuelve los dos ids en orden. Solo acepta la forma canónica.
func ParseConversationID(id string) (uint, uint, error) {
	rest, ok := strings.CutPrefix(id, conversationPrefix)
	if !ok {
		return 0, 0, validationError("invalid conversation id format")
	}
	parts := strings.Split(rest, "_")
	if len(parts) != 2 {
		return 0, 0, validationError("invalid conversation id format")
	}
	low, err1 := strconv.ParseUint(parts[0], 10, 64)
	high, err2 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil || err2 != nil || low == 0 || low >= high {
		return 0, 0, validationError("invalid conversation id format")
	}
	return uint(low), uint(high), nil
}

// MessageService maneja las conversaciones entre pares de usuarios
type MessageService interface {
	Conversations(ctx context.Context, actor *domain.User) ([]dto.ConversationSummary, error)
	Get(ctx context.Context, actor *domain.User, conversationID string) (*dto.ConversationResponse, error)
	Send(ctx context.Context, actor *domain.User, conversationID string, req dto.SendMessageRequest) (*domain.Message, error)
	Start(ctx context.Context, actor *domain.User, otherID uint) (*dto.StartConversationResponse, error)
}

type messageService struct {
	messages  repositories.MessageRepository
	users     repositories.UserRepository
	publisher events.Publisher
}

// NewMessageService crea el servicio de mensajes
func NewMessageService(messages repositories.MessageRepository, users repositories.UserRepository, publisher events.Publisher) MessageService {
	return &messageService{messages: messages, users: users, publisher: publisher}
}

// Conversations devuelve el último mensaje con cada contraparte, el más reciente primero.
// Son tres consultas sin importar el largo del historial.
func (s *messageService) Conversations(ctx context.Context, actor *domain.User) ([]dto.ConversationSummary, error) {
	// 1. Una fila por contraparte con el id del último mensaje y los no leídos
	stats, err := s.messages.ConversationStats(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	summaries := []dto.ConversationSummary{}
	if len(stats) == 0 {
		return summaries, nil
	}

	byMessage := make(map[uint]repositories.ConversationStat, len(stats))
	messageIDs := make([]uint, 0, len(stats))
	otherIDs := make([]uint, 0, len(stats))
	for _, st := range stats {
		byMessage[st.LastMessageID] = st
		messageIDs = append(messageIDs, st.LastMessageID)
		otherIDs = append(otherIDs, st.OtherID)
	}

	// 2. Los últimos mensajes, ya ordenados del más nuevo al más viejo
	last, err := s.messages.ListByIDs(ctx, messageIDs)
	if err != nil {
		return nil, err
	}

	// 3. Las contrapartes en una sola consulta
	users, err := s.users.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	for _, m := range last {
		st := byMessage[m.ID]
		other, ok := byID[st.OtherID]
		if !ok {
			logger.FromContext(ctx).Debugf("Skipping conversation with missing user %d", st.OtherID)
			continue
		}
		summaries = append(summaries, dto.ConversationSummary{
			ConversationID: ConversationID(actor.ID, other.ID),
			OtherUser:      dto.NewParticipant(other),
			LastMessage:    m,
			UnreadCount:    st.UnreadCount,
		})
	}
	return summaries, nil
}

// Get devuelve los mensajes del más viejo al más nuevo y marca como leídos los recibidos
func (s *messageService) Get(ctx context.Context, actor *domain.User, conversationID string) (*dto.ConversationResponse, error) {
	other, err := s.participant(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.Conversation(ctx, actor.ID, other.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	marked, err := s.messages.MarkRead(ctx, actor.ID, other.ID, now)
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		for i := range messages {
			if messages[i].ReceiverID == actor.ID && messages[i].ReadAt == nil {
				messages[i].ReadAt = &now
			}
		}
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return &dto.ConversationResponse{
		ConversationID: ConversationID(actor.ID, other.ID),
		OtherUser:      dto.NewParticipant(other),
		Messages:       messages,
	}, nil
}

// Send envía un mensaje dentro de una conversación de la que el actor forma parte
func (s *messageService) Send(ctx context.Context, actor *domain.User, conversationID string, req dto.SendMessageRequest) (*domain.Message, error) {
	other, err := s.participant(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, validationError("message text cannot be empty")
	}

	msg := &domain.Message{
		SenderID:   actor.ID,
		ReceiverID: other.ID,
		Content:    text,
		SentAt:     time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	ev := events.New(events.MessageSent, actor.ID)
	ev.MessageID = msg.ID
	ev.SenderID = actor.ID
	ev.SenderName = actor.FullName()
	ev.ReceiverID = other.ID
	publish(ctx, s.publisher, ev)
	return msg, nil
}

// Start devuelve el ID de conversación con otro usuario existente
func (s *messageService) Start(ctx context.Context, actor *domain.User, otherID uint) (*dto.StartConversationResponse, error) {
	if otherID == actor.ID {
		return nil, validationError("you cannot start a conversation with yourself")
	}
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &dto.StartConversationResponse{
		ConversationID: ConversationID(actor.ID, other.ID),
		Participant:    dto.NewParticipant(other),
	}, nil
}

// participant valida el id, que el actor participe y devuelve al otro usuario
func (s *messageService) participant(ctx context.Context, actor *domain.User, conversationID string) (*domain.User, error) {
	low, high, err := ParseConversationID(conversationID)
	if err != nil {
		return nil, err
	}
	var otherID uint
	switch actor.ID {
	case low:
		otherID = high
	case high:
		otherID = low
	default:
		return nil, forbiddenError("you are not a participant of this conversation")
	}
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return other, nil
}
