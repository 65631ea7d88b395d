package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong: bcrypt sólo considera los primeros 72 bytes y falla si son más
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// passwordCost se baja en los tests para que corran rápido
var passwordCost = bcrypt.DefaultCost

// HashPassword devuelve el hash bcrypt de la contraseña
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compara la contraseña en texto plano con el hash guardado
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// hash corrupto o vacío: se trata igual que una contraseña incorrecta
		return false
	}
	return err == nil
}

// SetPasswordCostForTests baja el costo de bcrypt. Solo para tests.
func SetPasswordCostForTests() {
	passwordCost = bcrypt.MinCost
}
