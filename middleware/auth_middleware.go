package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/utils"
)

// Claves que los middlewares guardan en el contexto de gin
const (
	ContextUserID  = "user_id"
	ContextUser    = "user"
	ContextIsAdmin = "is_admin"
)

// UserFinder carga el usuario del token (services.UserService lo implementa)
type UserFinder interface {
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
}

var errTokenMissing = errors.New("token is missing")

// AuthMiddleware valida el JWT token en cada request
// Si el token es válido y el usuario existe, permite continuar
// Si no, devuelve error 401 (Unauthorized)
func AuthMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, users)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		setUser(c, user)
		c.Next() // Continúa con el endpoint
	}
}

// OptionalAuth carga el usuario si viene un token válido, pero nunca rechaza el request
func OptionalAuth(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, err := authenticate(c, users); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// AdminMiddleware valida que el usuario sea admin
// Este middleware se usa DESPUÉS de AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, http.StatusUnauthorized, "unauthorized", errTokenMissing.Error())
			return
		}
		if !user.IsAdmin() {
			abort(c, http.StatusForbidden, "forbidden", "admin privileges required")
			return
		}
		c.Next()
	}
}

// CurrentUser devuelve el usuario autenticado, o nil en rutas públicas
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func authenticate(c *gin.Context, users UserFinder) (*domain.User, error) {
	// Formato esperado: "Bearer <token>"
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return nil, errTokenMissing
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, utils.ErrTokenInvalid
	}

	claims, err := utils.ValidateToken(parts[1])
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, utils.ErrTokenExpired
		}
		return nil, utils.ErrTokenInvalid
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, utils.ErrTokenInvalid
	}

	// El usuario pudo haber sido borrado después de emitir el token
	user, err := users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.FromContext(c.Request.Context()).Debugf("Token for unknown user %d: %v", userID, err)
		return nil, utils.ErrTokenInvalid
	}
	return user, nil
}

// setUser guarda la info del usuario en el contexto
// Así los endpoints pueden saber quién hizo la request
func setUser(c *gin.Context, user *domain.User) {
	c.Set(ContextUserID, user.ID)
	c.Set(ContextUser, user)
	c.Set(ContextIsAdmin, user.IsAdmin())
	c.Request = c.Request.WithContext(logger.ContextWithUser(c.Request.Context(), user.ID))
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: code, Message: message})
}
