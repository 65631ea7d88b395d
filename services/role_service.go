package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/repositories"
)

// RoleService define la interfaz del servicio de roles
type RoleService interface {
	List(ctx context.Context) ([]domain.Role, error)
	Get(ctx context.Context, id uint) (*domain.Role, error)
	Create(ctx context.Context, name string) (*domain.Role, error)
	Update(ctx context.Context, id uint, name string) (*domain.Role, error)
	Delete(ctx context.Context, id uint) error
}

type roleService struct {
	roles repositories.RoleRepository
}

// NewRoleService crea una nueva instancia del servicio
func NewRoleService(roles repositories.RoleRepository) RoleService {
	return &roleService{roles: roles}
}

// List devuelve todos los roles
func (s *roleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// Get busca un rol
func (s *roleService) Get(ctx context.Context, id uint) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "role")
	}
	return role, nil
}

// Create crea un rol con nombre único
func (s *roleService) Create(ctx context.Context, name string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("role name is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	role := &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictError("role %q already exists", name)
		}
		return nil, err
	}
	return role, nil
}

// Update cambia el nombre de un rol
func (s *roleService) Update(ctx context.Context, id uint, name string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("role name is required")
	}
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	role.Name = name
	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictError("role %q already exists", name)
		}
		return nil, err
	}
	return role, nil
}

// Delete borra un rol
func (s *roleService) Delete(ctx context.Context, id uint) error {
	return notFoundOr(s.roles.Delete(ctx, id), "role")
}

func (s *roleService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.roles.GetByName(ctx, name)
	if err == nil && existing.ID != selfID {
		return conflictError("role %q already exists", name)
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}
