package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// DeliveryRepository define la interfaz del repositorio de entregas
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	GetByID(ctx context.Context, id uint) (*domain.Delivery, error)
	ListByUser(ctx context.Context, userID uint, page utils.PageRequest) ([]domain.Delivery, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.DeliveryStatus) error
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository crea una nueva instancia del repositorio
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Create inserta una entrega
func (r *deliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

// GetByID busca una entrega por ID
func (r *deliveryRepository) GetByID(ctx context.Context, id uint) (*domain.Delivery, error) {
	var d domain.Delivery
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// ListByUser pagina las entregas de un usuario
func (r *deliveryRepository) ListByUser(ctx context.Context, userID uint, page utils.PageRequest) ([]domain.Delivery, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Delivery{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Delivery
	err := q.Order("scheduled_at DESC").Offset(page.Offset()).Limit(page.PerPage).Find(&out).Error
	return out, total, err
}

// UpdateStatus cambia el estado de una entrega
func (r *deliveryRepository) UpdateStatus(ctx context.Context, id uint, status domain.DeliveryStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Delivery{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Puede ser que el estado ya fuera el mismo
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
