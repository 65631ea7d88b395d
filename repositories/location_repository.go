package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// LocationFilter: búsqueda parcial, sin distinguir mayúsculas
type LocationFilter struct {
	City    string
	State   string
	ZipCode string
}

// Empty indica si no hay ningún filtro cargado
func (f LocationFilter) Empty() bool {
	return f.City == "" && f.State == "" && f.ZipCode == ""
}

// LocationRepository define la interfaz del repositorio de ubicaciones
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	GetByID(ctx context.Context, id uint) (*domain.Location, error)
	FindExact(ctx context.Context, address, city, state, zipCode string) (*domain.Location, error)
	List(ctx context.Context, page utils.PageRequest) ([]domain.Location, int64, error)
	Search(ctx context.Context, filter LocationFilter) ([]domain.Location, error)
	Update(ctx context.Context, loc *domain.Location) error
	Delete(ctx context.Context, id uint) error
	// CountReferences cuenta listings y usuarios que apuntan a la ubicación
	CountReferences(ctx context.Context, id uint) (listings int64, users int64, err error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository crea una nueva instancia del repositorio
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

// Create inserta una ubicación
func (r *locationRepository) Create(ctx context.Context, loc *domain.Location) error {
	return translate(r.db.WithContext(ctx).Create(loc).Error)
}

// GetByID busca una ubicación por ID
func (r *locationRepository) GetByID(ctx context.Context, id uint) (*domain.Location, error) {
	var loc domain.Location
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &loc, nil
}

// FindExact busca una ubicación con la misma dirección, ciudad, estado y código postal
func (r *locationRepository) FindExact(ctx context.Context, address, city, state, zipCode string) (*domain.Location, error) {
	var loc domain.Location
	err := r.db.WithContext(ctx).
		Where("address = ? AND city = ? AND state = ? AND zip_code = ?", address, city, state, zipCode).
		First(&loc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loc, nil
}

// List pagina las ubicaciones
func (r *locationRepository) List(ctx context.Context, page utils.PageRequest) ([]domain.Location, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Location{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var locs []domain.Location
	err := q.Order("id ASC").Offset(page.Offset()).Limit(page.PerPage).Find(&locs).Error
	return locs, total, err
}

// Search filtra ubicaciones por substring
func (r *locationRepository) Search(ctx context.Context, filter LocationFilter) ([]domain.Location, error) {
	q := r.db.WithContext(ctx).Model(&domain.Location{})
	if filter.City != "" {
		q = q.Where("LOWER(city) LIKE ?", likePattern(filter.City))
	}
	if filter.State != "" {
		q = q.Where("LOWER(state) LIKE ?", likePattern(filter.State))
	}
	if filter.ZipCode != "" {
		q = q.Where("zip_code LIKE ?", likePattern(filter.ZipCode))
	}
	var locs []domain.Location
	err := q.Order("city ASC, id ASC").Find(&locs).Error
	return locs, err
}

// Update guarda los cambios de una ubicación
func (r *locationRepository) Update(ctx context.Context, loc *domain.Location) error {
	return translate(r.db.WithContext(ctx).Save(loc).Error)
}

// Delete borra una ubicación
func (r *locationRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Location{}, id)
}

// CountReferences cuenta los listings y usuarios que usan la ubicación
func (r *locationRepository) CountReferences(ctx context.Context, id uint) (int64, int64, error) {
	var listings, users int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Listing{}).Where("location_id = ?", id).Count(&listings).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&domain.User{}).Where("location_id = ?", id).Count(&users).Error; err != nil {
		return 0, 0, err
	}
	return listings, users, nil
}

// likePattern arma '%texto%' en minúsculas escapando los comodines
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}
