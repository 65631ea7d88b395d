package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// RatingSummary es el promedio y la cantidad de reseñas de un listing
type RatingSummary struct {
	ListingID uint
	Average   float64
	Count     int64
}

// ReviewRepository define la interfaz del repositorio de reseñas
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uint) (*domain.Review, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, userID, listingID uint) (bool, error)
	ListByListing(ctx context.Context, listingID uint, page utils.PageRequest) ([]domain.Review, int64, error)
	// Summaries devuelve el resumen de cada listing pedido que tenga reseñas
	Summaries(ctx context.Context, listingIDs []uint) (map[uint]RatingSummary, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository crea una nueva instancia del repositorio
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserta una reseña
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return translate(r.db.WithContext(ctx).Create(review).Error)
}

// GetByID busca una reseña por ID
func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

// Delete borra una reseña
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Review{}, id)
}

// Exists indica si el usuario ya reseñó el listing
func (r *reviewRepository) Exists(ctx context.Context, userID, listingID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&n).Error
	return n > 0, err
}

// ListByListing pagina las reseñas de un listing
func (r *reviewRepository) ListByListing(ctx context.Context, listingID uint, page utils.PageRequest) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{}).Where("listing_id = ?", listingID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Review
	err := q.Order("created_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.PerPage).Find(&out).Error
	return out, total, err
}

// Summaries calcula promedio y cantidad de reseñas por listing
func (r *reviewRepository) Summaries(ctx context.Context, listingIDs []uint) (map[uint]RatingSummary, error) {
	out := make(map[uint]RatingSummary, len(listingIDs))
	if len(listingIDs) == 0 {
		return out, nil
	}
	var rows []RatingSummary
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("listing_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("listing_id IN ?", listingIDs).
		Group("listing_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ListingID] = row
	}
	return out, nil
}
