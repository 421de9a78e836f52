package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrSessionNotFound         = errors.New("cashier session not found")
	ErrSessionNotOpen          = errors.New("cashier session is not open")
	ErrNothingToSettle         = errors.New("no selected items to settle")
	ErrBookingsNotFound        = errors.New("bookings not found")
	ErrConcurrentSettlement    = errors.New("cashier session changed concurrently")
	ErrClientNotFound          = errors.New("client not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingNotBillable      = errors.New("booking is not confirmed for this client")
	ErrBookingAlreadyInTab     = errors.New("booking already in an open tab")
	ErrItemNotFound            = errors.New("cashier session item not found")
	ErrStaffNotFound           = errors.New("staff not found")
	ErrServiceNotFound         = errors.New("service not found")
	ErrCommissionConfigMissing = errors.New("commission config not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// isUniqueViolation matches both gorm's translated error and a raw postgres 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
