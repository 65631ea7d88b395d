package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
)

// CatalogRepository agrupa categorías, subcategorías y amenities
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id uint) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	ListSubcategories(ctx context.Context, categoryID *uint) ([]domain.Subcategory, error)
	GetSubcategory(ctx context.Context, id uint) (*domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, s *domain.Subcategory) error
	UpdateSubcategory(ctx context.Context, s *domain.Subcategory) error
	DeleteSubcategory(ctx context.Context, id uint) error
	CountListingsInSubcategory(ctx context.Context, id uint) (int64, error)

	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
	GetAmenity(ctx context.Context, id uint) (*domain.Amenity, error)
	GetAmenitiesByIDs(ctx context.Context, ids []uint) ([]domain.Amenity, error)
	CreateAmenity(ctx context.Context, a *domain.Amenity) error
	UpdateAmenity(ctx context.Context, a *domain.Amenity) error
	DeleteAmenity(ctx context.Context, id uint) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository crea una nueva instancia del repositorio
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListCategories devuelve las categorías con sus subcategorías
func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.WithContext(ctx).Preload("Subcategories").Order("name ASC").Find(&out).Error
	return out, err
}

// GetCategory busca una categoría por ID
func (r *catalogRepository) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).Preload("Subcategories").First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// CreateCategory inserta una categoría
func (r *catalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// UpdateCategory guarda los cambios de una categoría
func (r *catalogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Omit("Subcategories").Save(c).Error)
}

// DeleteCategory borra una categoría
func (r *catalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Category{}, id)
}

// ListSubcategories devuelve las subcategorías, opcionalmente de una categoría
func (r *catalogRepository) ListSubcategories(ctx context.Context, categoryID *uint) ([]domain.Subcategory, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var out []domain.Subcategory
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

// GetSubcategory busca una subcategoría por ID
func (r *catalogRepository) GetSubcategory(ctx context.Context, id uint) (*domain.Subcategory, error) {
	var s domain.Subcategory
	if err := r.db.WithContext(ctx).Preload("Category").First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// CreateSubcategory inserta una subcategoría
func (r *catalogRepository) CreateSubcategory(ctx context.Context, s *domain.Subcategory) error {
	return translate(r.db.WithContext(ctx).Omit("Category").Create(s).Error)
}

// UpdateSubcategory guarda los cambios de una subcategoría
func (r *catalogRepository) UpdateSubcategory(ctx context.Context, s *domain.Subcategory) error {
	return translate(r.db.WithContext(ctx).Omit("Category").Save(s).Error)
}

// DeleteSubcategory borra una subcategoría
func (r *catalogRepository) DeleteSubcategory(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Subcategory{}, id)
}

// CountListingsInSubcategory cuenta los listings que usan la subcategoría
func (r *catalogRepository) CountListingsInSubcategory(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Listing{}).Where("subcategory_id = ?", id).Count(&n).Error
	return n, err
}

// ListAmenities devuelve todas las comodidades
func (r *catalogRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	var out []domain.Amenity
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// GetAmenity busca una comodidad por ID
func (r *catalogRepository) GetAmenity(ctx context.Context, id uint) (*domain.Amenity, error) {
	var a domain.Amenity
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// GetAmenitiesByIDs busca varias comodidades en una sola consulta
func (r *catalogRepository) GetAmenitiesByIDs(ctx context.Context, ids []uint) ([]domain.Amenity, error) {
	var out []domain.Amenity
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// CreateAmenity inserta una comodidad
func (r *catalogRepository) CreateAmenity(ctx context.Context, a *domain.Amenity) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

// UpdateAmenity guarda los cambios de una comodidad
func (r *catalogRepository) UpdateAmenity(ctx context.Context, a *domain.Amenity) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

// DeleteAmenity también la quita de los listings que la tenían
func (r *catalogRepository) DeleteAmenity(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM listing_amenities WHERE amenity_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &domain.Amenity{}, id)
	})
}

// deleteByID borra por clave primaria y devuelve ErrNotFound si no había fila
func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id uint) error {
	res := db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
