package repositories

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
)

// ConversationStat resume la conversación de un usuario con una contraparte
type ConversationStat struct {
	OtherID       uint  `gorm:"column:other_id"`
	LastMessageID uint  `gorm:"column:last_message_id"`
	UnreadCount   int64 `gorm:"column:unread_count"`
}

// conversationStatsSQL agrupa por contraparte. Los ids crecen con sent_at,
// así que MAX(id) es el último mensaje. GROUP BY 1 porque postgres no reconoce
// como iguales dos CASE con parámetros distintos.
const conversationStatsSQL = `SELECT
	CASE WHEN sender_id = @user THEN receiver_id ELSE sender_id END AS other_id,
	MAX(id) AS last_message_id,
	SUM(CASE WHEN receiver_id = @user AND read_at IS NULL THEN 1 ELSE 0 END) AS unread_count
FROM messages
WHERE sender_id = @user OR receiver_id = @user
GROUP BY 1`

// MessageRepository define el acceso a los mensajes directos
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	// Conversation devuelve los mensajes entre dos usuarios, el más viejo primero
	Conversation(ctx context.Context, userA, userB uint) ([]domain.Message, error)
	// ConversationStats devuelve una fila por contraparte con el último mensaje y los no leídos
	ConversationStats(ctx context.Context, userID uint) ([]ConversationStat, error)
	// ListByIDs devuelve los mensajes pedidos, el más nuevo primero
	ListByIDs(ctx context.Context, ids []uint) ([]domain.Message, error)
	// MarkRead marca como leídos los mensajes de sender a receiver
	MarkRead(ctx context.Context, receiverID, senderID uint, at time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository crea el repositorio de mensajes
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserta un mensaje
func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

// Conversation devuelve los mensajes entre dos usuarios en orden cronológico
func (r *messageRepository) Conversation(ctx context.Context, userA, userB uint) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("sent_at ASC").Order("id ASC").
		Find(&out).Error
	return out, err
}

// ConversationStats agrupa los mensajes del usuario por interlocutor
func (r *messageRepository) ConversationStats(ctx context.Context, userID uint) ([]ConversationStat, error) {
	var out []ConversationStat
	err := r.db.WithContext(ctx).
		Raw(conversationStatsSQL, sql.Named("user", userID)).
		Scan(&out).Error
	return out, err
}

// ListByIDs busca mensajes por ID, los más nuevos primero
func (r *messageRepository) ListByIDs(ctx context.Context, ids []uint) ([]domain.Message, error) {
	var out []domain.Message
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("sent_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// MarkRead marca como leídos los mensajes de senderID a receiverID
func (r *messageRepository) MarkRead(ctx context.Context, receiverID, senderID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", receiverID, senderID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
