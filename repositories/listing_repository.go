package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortDistance  = "distance"
)

// haversineSQL calcula la distancia en km desde (lat, lng, lat) hasta la ubicación del listing.
// LEAST/GREATEST evitan que el redondeo deje el argumento de ACOS fuera de [-1, 1].
const haversineSQL = "6371 * ACOS(LEAST(1, GREATEST(-1, " +
	"COS(RADIANS(?)) * COS(RADIANS(locations.latitude)) * COS(RADIANS(locations.longitude) - RADIANS(?)) + " +
	"SIN(RADIANS(?)) * SIN(RADIANS(locations.latitude)))))"

// GeoFilter limita los resultados a un radio en km alrededor de un punto
type GeoFilter struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// ListingFilter son los filtros de búsqueda de listings
type ListingFilter struct {
	CategoryID    *uint
	SubcategoryID *uint
	OwnerID       *uint
	MinPrice      *int
	MaxPrice      *int
	City          string
	State         string
	ZipCode       string
	Search        string
	Geo           *GeoFilter
	Sort          string
	Page          utils.PageRequest
}

// ListingRepository define la interfaz del repositorio de listings
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uint) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	ReplaceAmenities(ctx context.Context, listing *domain.Listing, amenities []domain.Amenity) error
	ReplaceFeatures(ctx context.Context, listingID uint, features []domain.ListingFeature) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository crea una nueva instancia del repositorio
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create inserta el listing con sus features y amenities.
// La ubicación ya tiene que existir (LocationID).
func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	return translate(r.db.WithContext(ctx).
		Omit("Owner", "Subcategory", "Location").
		Create(listing).Error)
}

// GetByID busca un listing con sus relaciones y la vista pública del dueño
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	err := withListingPreloads(r.db.WithContext(ctx)).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "first_name", "last_name")
		}).
		First(&listing, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

// Update guarda solo las columnas propias del listing
func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(listing).Error)
}

// ReplaceAmenities reemplaza las comodidades del listing
func (r *listingRepository) ReplaceAmenities(ctx context.Context, listing *domain.Listing, amenities []domain.Amenity) error {
	if err := r.db.WithContext(ctx).Model(listing).Association("Amenities").Replace(amenities); err != nil {
		return translate(err)
	}
	listing.Amenities = amenities
	return nil
}

// ReplaceFeatures borra las features del listing y carga las nuevas
func (r *listingRepository) ReplaceFeatures(ctx context.Context, listingID uint, features []domain.ListingFeature) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&domain.ListingFeature{}).Error; err != nil {
			return err
		}
		if len(features) == 0 {
			return nil
		}
		for i := range features {
			features[i].ID = 0
			features[i].ListingID = listingID
		}
		return tx.Create(&features).Error
	})
}

// Delete borra el listing y todo lo que cuelga de él en una transacción
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&domain.Image{}, &domain.ListingFeature{}, &domain.Availability{},
			&domain.Review{}, &domain.Booking{},
		}
		for _, model := range dependents {
			if err := tx.Where("listing_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM listing_amenities WHERE listing_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM favorites WHERE listing_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Listing{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Search aplica filtros, geobúsqueda, orden y paginación
func (r *listingRepository) Search(ctx context.Context, f ListingFilter) ([]domain.Listing, int64, error) {
	// 1. Contar el total con los mismos filtros
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Listing{}, 0, nil
	}

	// 2. Traer la página pedida
	q := r.filtered(ctx, f).Select("listings.*")
	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("listings.price ASC").Order("listings.id ASC")
	case SortPriceDesc:
		q = q.Order("listings.price DESC").Order("listings.id DESC")
	case SortDistance:
		if f.Geo != nil {
			q = q.Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                haversineSQL + " ASC, listings.id ASC",
				Vars:               []interface{}{f.Geo.Lat, f.Geo.Lng, f.Geo.Lat},
				WithoutParentheses: true,
			}})
			break
		}
		fallthrough
	default:
		q = q.Order("listings.created_at DESC").Order("listings.id DESC")
	}

	var listings []domain.Listing
	err := withListingPreloads(q).
		Offset(f.Page.Offset()).Limit(f.Page.PerPage).
		Find(&listings).Error
	return listings, total, err
}

// filtered arma la consulta base con los WHERE y JOIN necesarios
func (r *listingRepository) filtered(ctx context.Context, f ListingFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Listing{})

	if f.CategoryID != nil {
		q = q.Joins("JOIN subcategories ON subcategories.id = listings.subcategory_id").
			Where("subcategories.category_id = ?", *f.CategoryID)
	}
	if f.SubcategoryID != nil {
		q = q.Where("listings.subcategory_id = ?", *f.SubcategoryID)
	}
	if f.OwnerID != nil {
		q = q.Where("listings.owner_id = ?", *f.OwnerID)
	}
	if f.MinPrice != nil {
		q = q.Where("listings.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("listings.price <= ?", *f.MaxPrice)
	}

	if f.City == "" && f.State == "" && f.ZipCode == "" && f.Search == "" && f.Geo == nil {
		return q
	}
	q = q.Joins("LEFT JOIN locations ON locations.id = listings.location_id")

	if f.City != "" {
		q = q.Where("LOWER(locations.city) LIKE ?", likePattern(f.City))
	}
	if f.State != "" {
		q = q.Where("LOWER(locations.state) LIKE ?", likePattern(f.State))
	}
	if f.ZipCode != "" {
		q = q.Where("locations.zip_code LIKE ?", likePattern(f.ZipCode))
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(LOWER(listings.title) LIKE ? OR LOWER(listings.description) LIKE ? OR "+
			"LOWER(locations.address) LIKE ? OR LOWER(locations.city) LIKE ? OR "+
			"LOWER(locations.state) LIKE ? OR locations.zip_code LIKE ?)",
			like, like, like, like, like, like)
	}
	if g := f.Geo; g != nil {
		// Prefiltro por rectángulo (usa índices) y después la distancia exacta
		minLat, maxLat, minLng, maxLng := utils.BoundingBox(g.Lat, g.Lng, g.RadiusKm)
		q = q.Where("locations.latitude IS NOT NULL AND locations.longitude IS NOT NULL").
			Where("locations.latitude BETWEEN ? AND ?", minLat, maxLat)
		// Si el rectángulo cruza el antimeridiano no se filtra por longitud
		if minLng >= -180 && maxLng <= 180 {
			q = q.Where("locations.longitude BETWEEN ? AND ?", minLng, maxLng)
		}
		q = q.Where(haversineSQL+" <= ?", g.Lat, g.Lng, g.Lat, g.RadiusKm)
	}
	return q
}

func withListingPreloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Location").
		Preload("Subcategory.Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, id ASC")
		}).
		Preload("Amenities").
		Preload("Features")
}
