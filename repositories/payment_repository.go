package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// PaymentRepository define la interfaz del repositorio de pagos
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	ListByUser(ctx context.Context, userID uint, page utils.PageRequest) ([]domain.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository crea una nueva instancia del repositorio
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserta un pago
func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// ListByUser pagina los pagos de un usuario
func (r *paymentRepository) ListByUser(ctx context.Context, userID uint, page utils.PageRequest) ([]domain.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Payment
	err := q.Order("paid_at DESC").Offset(page.Offset()).Limit(page.PerPage).Find(&out).Error
	return out, total, err
}
