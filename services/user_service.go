package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

// UserService define las operaciones de negocio sobre usuarios
type UserService interface {
	Register(ctx context.Context, actor *domain.User, req dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	ListUsers(ctx context.Context, page utils.PageRequest) (*dto.UserListResponse, error)
	UpdateUser(ctx context.Context, actor *domain.User, id uint, req dto.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, id uint) error
}

type userService struct {
	users     repositories.UserRepository
	roles     repositories.RoleRepository
	locations repositories.LocationRepository
}

// NewUserService crea una nueva instancia del servicio
func NewUserService(users repositories.UserRepository, roles repositories.RoleRepository, locations repositories.LocationRepository) UserService {
	return &userService{users: users, roles: roles, locations: locations}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register crea un usuario nuevo. Solo un admin puede asignar roles explícitos.
func (s *userService) Register(ctx context.Context, actor *domain.User, req dto.RegisterRequest) (*domain.User, error) {
	// 1. Validar datos básicos
	email := normalizeEmail(req.Email)
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, validationError("first_name is required")
	}

	// 2. El email tiene que ser único
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, conflictError("email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// 3. Resolver roles
	var roles []domain.Role
	if len(req.RoleIDs) > 0 {
		if actor == nil || !actor.IsAdmin() {
			return nil, forbiddenError("only admins can assign roles")
		}
		var err error
		if roles, err = s.lookupRoles(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
	} else {
		role, err := s.roles.GetByName(ctx, domain.RoleUser)
		switch {
		case err == nil:
			roles = []domain.Role{*role}
		case errors.Is(err, repositories.ErrNotFound):
			logger.FromContext(ctx).Warnf("Default role %q missing, registering %s without roles", domain.RoleUser, email)
		default:
			return nil, err
		}
	}

	// 4. Ubicación opcional
	var locationID *uint
	if req.Location != nil {
		loc, err := resolveLocation(ctx, s.locations, req.Location)
		if err != nil {
			return nil, err
		}
		locationID = &loc.ID
	}

	// 5. Hashear la contraseña
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, validationError("password is too long")
		}
		return nil, err
	}

	user := &domain.User{
		FirstName:  firstName,
		LastName:   strings.TrimSpace(req.LastName),
		Email:      email,
		Password:   hash,
		Phone:      strings.TrimSpace(req.Phone),
		LocationID: locationID,
		Roles:      roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictError("email already registered")
		}
		return nil, err
	}
	logger.FromContext(ctx).Infof("User registered: id=%d", user.ID)
	return s.GetUserByID(ctx, user.ID)
}

// Login verifica credenciales y emite el token.
// El mensaje es el mismo si el email no existe o la contraseña no coincide.
func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, unauthorizedError("invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, unauthorizedError("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: user}, nil
}

// GetUserByID busca un usuario
func (s *userService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

// ListUsers pagina los usuarios (solo admin)
func (s *userService) ListUsers(ctx context.Context, page utils.PageRequest) (*dto.UserListResponse, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &dto.UserListResponse{Users: users, Pagination: page.Paginate(total)}, nil
}

// UpdateUser: el propio usuario o un admin. Los roles solo los cambia un admin.
func (s *userService) UpdateUser(ctx context.Context, actor *domain.User, id uint, req dto.UpdateUserRequest) (*domain.User, error) {
	if !canManage(actor, id) {
		return nil, forbiddenError("you can only update your own account")
	}
	if req.RoleIDs != nil && !actor.IsAdmin() {
		return nil, forbiddenError("only admins can change roles")
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, validationError("first_name cannot be empty")
		}
		user.FirstName = name
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			other, err := s.users.GetByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, conflictError("email already registered")
			}
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			if errors.Is(err, utils.ErrPasswordTooLong) {
				return nil, validationError("password is too long")
			}
			return nil, err
		}
		user.Password = hash
	}
	if req.Location != nil {
		loc, err := resolveLocation(ctx, s.locations, req.Location)
		if err != nil {
			return nil, err
		}
		user.LocationID = &loc.ID
		user.Location = loc
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictError("email already registered")
		}
		return nil, err
	}

	if req.RoleIDs != nil {
		roles, err := s.lookupRoles(ctx, *req.RoleIDs)
		if err != nil {
			return nil, err
		}
		if err := s.users.ReplaceRoles(ctx, user, roles); err != nil {
			return nil, err
		}
	}
	return s.GetUserByID(ctx, id)
}

// DeleteUser borra un usuario; solo él mismo o un admin
func (s *userService) DeleteUser(ctx context.Context, actor *domain.User, id uint) error {
	if !canManage(actor, id) {
		return forbiddenError("you can only delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrReferenced) {
			return conflictError("user still owns listings; delete them first")
		}
		return notFoundOr(err, "user")
	}
	logger.FromContext(ctx).Infof("User deleted: id=%d", id)
	return nil
}

// lookupRoles falla con 404 si alguno de los IDs no existe
func (s *userService) lookupRoles(ctx context.Context, ids []uint) ([]domain.Role, error) {
	ids = uniqueIDs(ids)
	roles, err := s.roles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, notFoundError("role not found")
	}
	return roles, nil
}
