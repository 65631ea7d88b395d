package dto

import (
	"time"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/utils"
)

// CreateBookingRequest: fechas en RFC3339
type CreateBookingRequest struct {
	ListingID uint      `json:"listing_id" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// UpdateBookingStatusRequest es el body de PUT /api/bookings/:id/status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

// BookingQuery: all=true solo tiene efecto para admins
type BookingQuery struct {
	PageQuery
	All    bool   `form:"all"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

// BookingListResponse es una página de reservas
type BookingListResponse struct {
	Bookings   []domain.Booking `json:"bookings"`
	Pagination utils.Pagination `json:"pagination"`
}

// CreatePaymentRequest registra un pago (no hay pasarela: solo el registro)
type CreatePaymentRequest struct {
	ListingID uint    `json:"listing_id" binding:"required"`
	BookingID *uint   `json:"booking_id"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// PaymentListResponse es una página de pagos
type PaymentListResponse struct {
	Payments   []domain.Payment `json:"payments"`
	Pagination utils.Pagination `json:"pagination"`
}

// CreateDeliveryRequest es el body de POST /api/deliveries
type CreateDeliveryRequest struct {
	ListingID   uint      `json:"listing_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// UpdateDeliveryStatusRequest es el body para cambiar el estado de una entrega
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_transit delivered cancelled"`
}

// DeliveryListResponse es una página de entregas
type DeliveryListResponse struct {
	Deliveries []domain.Delivery `json:"deliveries"`
	Pagination utils.Pagination  `json:"pagination"`
}
