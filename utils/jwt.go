package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired se devuelve cuando la firma es válida pero el token ya venció
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenInvalid cubre cualquier otro problema (firma, formato, algoritmo)
var ErrTokenInvalid = errors.New("invalid token")

var (
	jwtSecret = []byte("default-secret-change-in-production")
	tokenTTL  = time.Hour
)

// ConfigureJWT fija el secreto de firma y la duración del token. Se llama una vez al arrancar.
func ConfigureJWT(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// Claims son los datos que viajan dentro del token.
// El ID del usuario va en "sub" como string.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID convierte el subject de vuelta al ID del usuario
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	return uint(id), nil
}

// GenerateToken genera un JWT para el usuario con la duración configurada
func GenerateToken(userID uint) (string, error) {
	return GenerateTokenWithTTL(userID, tokenTTL)
}

// GenerateTokenWithTTL es GenerateToken con una duración explícita
func GenerateTokenWithTTL(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken valida la firma y la expiración y devuelve los claims.
// Distingue el token vencido del resto de los errores.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
