package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/utils"
)

func TestMain(m *testing.M) {
	utils.SetPasswordCostForTests()
	os.Exit(m.Run())
}

func newTestUserService() (UserService, *mockUserRepository, *mockRoleRepository, *mockLocationRepository) {
	users := newMockUserRepository()
	roles := newMockRoleRepository(domain.RoleAdmin, domain.RoleUser)
	locations := newMockLocationRepository()
	return NewUserService(users, roles, locations), users, roles, locations
}

func registerRequest(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "password123",
	}
}

// assertKind verifica el tipo de error que usan los controllers
func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

// ============================================
// TESTS
// ============================================

// Test: registro exitoso con rol por defecto y contraseña hasheada
func TestRegister_Success(t *testing.T) {
	service, _, _, _ := newTestUserService()

	user, err := service.Register(context.Background(), nil, registerRequest("Test@Example.com "))

	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, domain.RoleUser, user.Roles[0].Name)
}

// Test: email duplicado devuelve conflicto
func TestRegister_DuplicateEmail(t *testing.T) {
	service, _, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := service.Register(ctx, nil, registerRequest("dup@example.com"))
	require.NoError(t, err)

	user, err := service.Register(ctx, nil, registerRequest("DUP@example.com"))

	assert.Nil(t, user)
	assertKind(t, err, ErrConflict)
}

// Test: solo un admin puede asignar roles al registrar
func TestRegister_RoleAssignment(t *testing.T) {
	service, _, roles, _ := newTestUserService()
	ctx := context.Background()
	admin, _ := roles.GetByName(ctx, domain.RoleAdmin)

	req := registerRequest("new-admin@example.com")
	req.RoleIDs = []uint{admin.ID}

	_, err := service.Register(ctx, nil, req)
	assertKind(t, err, ErrForbidden)

	user, err := service.Register(ctx, adminUser(99), req)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	req = registerRequest("other@example.com")
	req.RoleIDs = []uint{404}
	_, err = service.Register(ctx, adminUser(99), req)
	assertKind(t, err, ErrNotFound)
}

// Test: la ubicación enviada se reutiliza si ya existe
func TestRegister_WithLocation(t *testing.T) {
	service, _, _, locations := newTestUserService()
	ctx := context.Background()
	loc := &dto.LocationInput{Address: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701", Country: "US"}

	req := registerRequest("a@example.com")
	req.Location = loc
	first, err := service.Register(ctx, nil, req)
	require.NoError(t, err)

	req = registerRequest("b@example.com")
	req.Location = loc
	second, err := service.Register(ctx, nil, req)
	require.NoError(t, err)

	require.NotNil(t, first.LocationID)
	assert.Equal(t, *first.LocationID, *second.LocationID)
	assert.Len(t, locations.locations, 1)
}

// Test: el login no revela si el email existe
func TestLogin_InvalidCredentials(t *testing.T) {
	service, _, _, _ := newTestUserService()
	ctx := context.Background()
	_, err := service.Register(ctx, nil, registerRequest("login@example.com"))
	require.NoError(t, err)

	_, errWrongPassword := service.Login(ctx, dto.LoginRequest{Email: "login@example.com", Password: "nope"})
	_, errUnknownEmail := service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "password123"})

	assertKind(t, errWrongPassword, ErrUnauthorized)
	assertKind(t, errUnknownEmail, ErrUnauthorized)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

// Test: login correcto devuelve un token válido para el usuario
func TestLogin_Success(t *testing.T) {
	service, _, _, _ := newTestUserService()
	ctx := context.Background()
	user, err := service.Register(ctx, nil, registerRequest("ok@example.com"))
	require.NoError(t, err)

	resp, err := service.Login(ctx, dto.LoginRequest{Email: "OK@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := utils.ValidateToken(resp.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

// Test: un usuario no puede modificar a otro ni cambiar sus propios roles
func TestUpdateUser_Permissions(t *testing.T) {
	service, users, _, _ := newTestUserService()
	ctx := context.Background()
	alice := users.add(&domain.User{FirstName: "Alice", Email: "alice@example.com"})
	bob := users.add(&domain.User{FirstName: "Bob", Email: "bob@example.com"})

	_, err := service.UpdateUser(ctx, alice, bob.ID, dto.UpdateUserRequest{FirstName: strPtr("Mallory")})
	assertKind(t, err, ErrForbidden)

	roleIDs := []uint{1}
	_, err = service.UpdateUser(ctx, alice, alice.ID, dto.UpdateUserRequest{RoleIDs: &roleIDs})
	assertKind(t, err, ErrForbidden)

	_, err = service.UpdateUser(ctx, alice, alice.ID, dto.UpdateUserRequest{Email: strPtr("bob@example.com")})
	assertKind(t, err, ErrConflict)

	updated, err := service.UpdateUser(ctx, adminUser(99), bob.ID, dto.UpdateUserRequest{RoleIDs: &roleIDs})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())
}

func TestDeleteUser(t *testing.T) {
	service, users, _, _ := newTestUserService()
	ctx := context.Background()
	alice := users.add(&domain.User{FirstName: "Alice", Email: "alice@example.com"})
	bob := users.add(&domain.User{FirstName: "Bob", Email: "bob@example.com"})

	assertKind(t, service.DeleteUser(ctx, alice, bob.ID), ErrForbidden)
	require.NoError(t, service.DeleteUser(ctx, alice, alice.ID))
	assertKind(t, service.DeleteUser(ctx, adminUser(99), alice.ID), ErrNotFound)
}

func TestDeleteUser_OwnerOfListingsConflicts(t *testing.T) {
	service, users, _, _ := newTestUserService()
	ctx := context.Background()
	users.listings = newMockListingRepository()
	owner := users.add(&domain.User{FirstName: "Olivia", Email: "owner@example.com"})
	listing := users.listings.add(&domain.Listing{Title: "Kayak", OwnerID: owner.ID})

	err := service.DeleteUser(ctx, owner, owner.ID)
	assertKind(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "owns listings")

	require.NoError(t, users.listings.Delete(ctx, listing.ID))
	require.NoError(t, service.DeleteUser(ctx, owner, owner.ID))
}
