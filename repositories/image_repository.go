package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
)

// ImageRepository define la interfaz del repositorio de imágenes
type ImageRepository interface {
	ListByListing(ctx context.Context, listingID uint) ([]domain.Image, error)
	GetByID(ctx context.Context, id uint) (*domain.Image, error)
	Create(ctx context.Context, images ...*domain.Image) error
	Update(ctx context.Context, image *domain.Image) error
	Delete(ctx context.Context, id uint) error
	// SetPrimary marca la imagen como principal y desmarca las demás del listing
	SetPrimary(ctx context.Context, listingID, imageID uint) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository crea una nueva instancia del repositorio
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// ListByListing devuelve las imágenes en orden de creación
func (r *imageRepository) ListByListing(ctx context.Context, listingID uint) ([]domain.Image, error) {
	var images []domain.Image
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Order("id ASC").Find(&images).Error
	return images, err
}

// GetByID busca una imagen por ID
func (r *imageRepository) GetByID(ctx context.Context, id uint) (*domain.Image, error) {
	var img domain.Image
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, translate(err)
	}
	return &img, nil
}

// Create inserta una o varias imágenes en la misma transacción
func (r *imageRepository) Create(ctx context.Context, images ...*domain.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, img := range images {
			if err := tx.Create(img).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

// Update guarda los cambios de una imagen
func (r *imageRepository) Update(ctx context.Context, image *domain.Image) error {
	return translate(r.db.WithContext(ctx).Save(image).Error)
}

// Delete borra una imagen
func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Image{}, id)
}

// SetPrimary deja imageID como única imagen principal del listing
func (r *imageRepository) SetPrimary(ctx context.Context, listingID, imageID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Image{}).
			Where("listing_id = ? AND id <> ?", listingID, imageID).
			Update("is_primary", false).Error
		if err != nil {
			return err
		}
		res := tx.Model(&domain.Image{}).
			Where("id = ? AND listing_id = ?", imageID, listingID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// MySQL no cuenta la fila si ya era principal
			var n int64
			if err := tx.Model(&domain.Image{}).Where("id = ? AND listing_id = ?", imageID, listingID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}
