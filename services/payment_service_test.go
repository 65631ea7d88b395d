package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/utils"
)

func TestCreatePayment(t *testing.T) {
	listings := newMockListingRepository()
	bookings := newMockBookingRepository(listings, nil)
	payments := &mockPaymentRepository{}
	publisher := &recordingPublisher{}
	service := NewPaymentService(payments, listings, bookings, publisher)
	ctx := context.Background()

	kayak := listings.add(&domain.Listing{Title: "Kayak", OwnerID: 1})
	canoe := listings.add(&domain.Listing{Title: "Canoe", OwnerID: 1})
	booking := &domain.Booking{UserID: 2, ListingID: kayak.ID, StartDate: day(1), EndDate: day(2), Status: domain.BookingPending}
	require.NoError(t, bookings.CreateIfAvailable(ctx, booking))
	guest := plainUser(2)

	_, err := service.Create(ctx, guest, dto.CreatePaymentRequest{ListingID: kayak.ID, Amount: 0})
	assertKind(t, err, ErrValidation)
	_, err = service.Create(ctx, guest, dto.CreatePaymentRequest{ListingID: 404, Amount: 10})
	assertKind(t, err, ErrNotFound)
	_, err = service.Create(ctx, plainUser(3), dto.CreatePaymentRequest{ListingID: kayak.ID, BookingID: &booking.ID, Amount: 10})
	assertKind(t, err, ErrForbidden)
	_, err = service.Create(ctx, guest, dto.CreatePaymentRequest{ListingID: canoe.ID, BookingID: &booking.ID, Amount: 10})
	assertKind(t, err, ErrValidation)

	payment, err := service.Create(ctx, guest, dto.CreatePaymentRequest{ListingID: kayak.ID, BookingID: &booking.ID, Amount: 80})
	require.NoError(t, err)
	assert.Equal(t, 80.0, payment.Amount)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.PaymentRecorded, publisher.events[0].Type)
	assert.Equal(t, uint(1), publisher.events[0].OwnerID)

	require.NoError(t, bookings.UpdateStatus(ctx, booking.ID, domain.BookingPending, domain.BookingCancelled))
	_, err = service.Create(ctx, guest, dto.CreatePaymentRequest{ListingID: kayak.ID, BookingID: &booking.ID, Amount: 10})
	assertKind(t, err, ErrValidation)

	list, err := service.List(ctx, guest, utils.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Len(t, list.Payments, 1)
}
