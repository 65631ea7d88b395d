package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound se devuelve cuando la fila buscada no existe
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate se devuelve al violar un índice único
	ErrDuplicate = errors.New("duplicate record")
	// ErrBookingOverlap: ya hay una reserva activa que se superpone
	ErrBookingOverlap = errors.New("booking overlaps an existing booking")
	// ErrListingUnavailable: el rango cae dentro de una ventana bloqueada
	ErrListingUnavailable = errors.New("listing is blocked for the requested dates")
	// ErrStaleStatus: el estado cambió entre la lectura y la escritura
	ErrStaleStatus = errors.New("status changed concurrently")
	// ErrReferenced: otra fila todavía apunta a la que se quiere borrar (o la referencia no existe)
	ErrReferenced = errors.New("record is referenced by other records")
)

// Códigos de error de los drivers que los dialectos de gorm no traducen
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate convierte los errores de gorm en los errores del paquete
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenced
	}

	// El dialecto de MySQL no traduce el 1451 y el de postgres espera errores de pgx
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return ErrDuplicate
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return ErrReferenced
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return ErrDuplicate
		case pqForeignKeyViolation:
			return ErrReferenced
		}
	}
	return err
}
