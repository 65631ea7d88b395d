package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// BookingFilter: listado de reservas. Sin UserID ni ListingID se listan todas.
type BookingFilter struct {
	UserID    *uint
	ListingID *uint
	Status    domain.BookingStatus
	Page      utils.PageRequest
}

// BookingRepository define la interfaz del repositorio de reservas
type BookingRepository interface {
	// CreateIfAvailable inserta la reserva solo si no se superpone con otra
	// reserva activa ni con una ventana bloqueada del listing.
	CreateIfAvailable(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uint) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, int64, error)
	// UpdateStatus cambia el estado solo si sigue siendo "from"
	UpdateStatus(ctx context.Context, id uint, from, to domain.BookingStatus) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository crea una nueva instancia del repositorio
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// CreateIfAvailable inserta la reserva si el rango está libre, todo en una transacción
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Bloquear la fila del listing: serializa las reservas concurrentes del mismo listing
		var listing domain.Listing
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&listing, b.ListingID).Error
		if err != nil {
			return translate(err)
		}

		// 2. Buscar reservas activas que se superpongan (rangos semiabiertos)
		var existing domain.Booking
		err = tx.Model(&domain.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_id = ? AND status <> ?", b.ListingID, domain.BookingCancelled).
			Where("start_date < ? AND end_date > ?", b.EndDate, b.StartDate).
			Take(&existing).Error
		if err == nil {
			return ErrBookingOverlap
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 3. Ventanas bloqueadas (is_available = false)
		var blocked int64
		err = tx.Model(&domain.Availability{}).
			Where("listing_id = ? AND is_available = ?", b.ListingID, false).
			Where("start_date < ? AND end_date > ?", b.EndDate, b.StartDate).
			Count(&blocked).Error
		if err != nil {
			return err
		}
		if blocked > 0 {
			return ErrListingUnavailable
		}

		if b.Status == "" {
			b.Status = domain.BookingPending
		}
		return translate(tx.Omit("Listing").Create(b).Error)
	})
}

// GetByID busca una reserva con su listing
func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Preload("Listing").First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// List pagina las reservas según el filtro, las más recientes primero
func (r *bookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ListingID != nil {
		q = q.Where("listing_id = ?", *f.ListingID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	err := q.Preload("Listing").
		Order("start_date DESC").Order("id DESC").
		Offset(f.Page.Offset()).Limit(f.Page.PerPage).
		Find(&out).Error
	return out, total, err
}

// UpdateStatus cambia el estado solo si sigue siendo from
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
