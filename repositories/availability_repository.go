package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
)

// AvailabilityRepository define la interfaz del repositorio de disponibilidad
type AvailabilityRepository interface {
	ListByListing(ctx context.Context, listingID uint) ([]domain.Availability, error)
	GetByID(ctx context.Context, id uint) (*domain.Availability, error)
	Create(ctx context.Context, a *domain.Availability) error
	Delete(ctx context.Context, id uint) error
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository crea una nueva instancia del repositorio
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

// ListByListing devuelve las ventanas de un listing ordenadas por fecha
func (r *availabilityRepository) ListByListing(ctx context.Context, listingID uint) ([]domain.Availability, error) {
	var out []domain.Availability
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Order("start_date ASC").Find(&out).Error
	return out, err
}

// GetByID busca una ventana por ID
func (r *availabilityRepository) GetByID(ctx context.Context, id uint) (*domain.Availability, error) {
	var a domain.Availability
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Create inserta una ventana
func (r *availabilityRepository) Create(ctx context.Context, a *domain.Availability) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

// Delete borra una ventana
func (r *availabilityRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Availability{}, id)
}
