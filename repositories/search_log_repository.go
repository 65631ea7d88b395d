package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// SearchLogRepository define la interfaz del repositorio del historial de búsquedas
type SearchLogRepository interface {
	Create(ctx context.Context, log *domain.SearchLog) error
	ListByUser(ctx context.Context, userID uint, page utils.PageRequest) ([]domain.SearchLog, int64, error)
}

type searchLogRepository struct {
	db *gorm.DB
}

// NewSearchLogRepository crea una nueva instancia del repositorio
func NewSearchLogRepository(db *gorm.DB) SearchLogRepository {
	return &searchLogRepository{db: db}
}

// Create inserta una búsqueda
func (r *searchLogRepository) Create(ctx context.Context, log *domain.SearchLog) error {
	return translate(r.db.WithContext(ctx).Omit("Location").Create(log).Error)
}

// ListByUser pagina las búsquedas de un usuario, las más recientes primero
func (r *searchLogRepository) ListByUser(ctx context.Context, userID uint, page utils.PageRequest) ([]domain.SearchLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.SearchLog{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.SearchLog
	err := q.Preload("Location").Order("searched_at DESC").Offset(page.Offset()).Limit(page.PerPage).Find(&out).Error
	return out, total, err
}
