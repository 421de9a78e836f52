package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
	BookingNoShow    = "NO_SHOW"
)

// bookingTransitions lists the status changes staff may apply by hand.
// COMPLETED is reached only through cashier settlement.
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingNoShow},
}

// Booking is a scheduled service instance. Bookings are never deleted.
type Booking struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"salonId"`
	ClientID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"clientId"`
	StaffID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"staffId"`
	ServiceID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"serviceId"`
	ScheduledAt time.Time       `gorm:"index;not null" json:"scheduledAt"`
	Status      string          `gorm:"type:varchar(20);index;not null" json:"status"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	Notes       string          `json:"notes"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`

	Client  *Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Staff   *Staff   `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CanTransitionBooking reports whether a manual status change from -> to is allowed.
func CanTransitionBooking(from, to string) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsBookingStatus(status string) bool {
	switch status {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}
