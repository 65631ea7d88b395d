package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// UserRepository define la interfaz del repositorio de usuarios
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ReplaceRoles(ctx context.Context, user *domain.User, roles []domain.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page utils.PageRequest) ([]domain.User, int64, error)
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
	GetByIDs(ctx context.Context, ids []uint) ([]domain.User, error)

	ListFavorites(ctx context.Context, userID uint) ([]domain.Listing, error)
	AddFavorite(ctx context.Context, userID, listingID uint) error
	RemoveFavorite(ctx context.Context, userID, listingID uint) error
}

// userRepository es la implementación con GORM
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository crea una nueva instancia del repositorio
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserta el usuario junto con sus roles
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID busca un usuario por su ID con roles y ubicación
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Preload("Location").First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByEmail se usa en el login y para validar emails únicos
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Update guarda las columnas propias del usuario (no toca roles)
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit("Roles", "Location", "Favorites").Save(user).Error)
}

// ReplaceRoles reemplaza los roles del usuario
func (r *userRepository) ReplaceRoles(ctx context.Context, user *domain.User, roles []domain.Role) error {
	if err := r.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return translate(err)
	}
	user.Roles = roles
	return nil
}

// Delete elimina el usuario; user_roles y favorites caen por cascada
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Select("Roles", "Favorites").Delete(&domain.User{ID: id})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List pagina los usuarios
func (r *userRepository) List(ctx context.Context, page utils.PageRequest) ([]domain.User, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := q.Preload("Roles").Preload("Location").
		Order("id ASC").Offset(page.Offset()).Limit(page.PerPage).
		Find(&users).Error
	return users, total, err
}

// CountByIDs cuenta cuántos de los IDs existen
func (r *userRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

// GetByIDs trae varios usuarios en una sola consulta, sin roles
func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	var users []domain.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// ListFavorites devuelve los listings favoritos del usuario
func (r *userRepository) ListFavorites(ctx context.Context, userID uint) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.listing_id = listings.id").
		Where("favorites.user_id = ?", userID).
		Preload("Location").Preload("Images").
		Order("listings.id ASC").
		Find(&listings).Error
	return listings, err
}

// AddFavorite agrega un favorito; repetirlo no es un error
func (r *userRepository) AddFavorite(ctx context.Context, userID, listingID uint) error {
	return translate(r.db.WithContext(ctx).
		Model(&domain.User{ID: userID}).
		Association("Favorites").
		Append(&domain.Listing{ID: listingID}))
}

// RemoveFavorite quita un favorito
func (r *userRepository) RemoveFavorite(ctx context.Context, userID, listingID uint) error {
	return translate(r.db.WithContext(ctx).
		Model(&domain.User{ID: userID}).
		Association("Favorites").
		Delete(&domain.Listing{ID: listingID}))
}
