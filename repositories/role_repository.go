package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/domain"
)

// RoleRepository define la interfaz del repositorio de roles
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id uint) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	GetByIDs(ctx context.Context, ids []uint) ([]domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id uint) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository crea una nueva instancia del repositorio
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Create inserta un rol
func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	return translate(r.db.WithContext(ctx).Create(role).Error)
}

// GetByID busca un rol por ID
func (r *roleRepository) GetByID(ctx context.Context, id uint) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// GetByName busca un rol por nombre
func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// GetByIDs devuelve solo los roles que existen; el servicio compara cantidades
func (r *roleRepository) GetByIDs(ctx context.Context, ids []uint) ([]domain.Role, error) {
	var roles []domain.Role
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

// List devuelve todos los roles
func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

// Update guarda los cambios de un rol
func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	return translate(r.db.WithContext(ctx).Save(role).Error)
}

// Delete borra un rol
func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Role{}, id)
}
