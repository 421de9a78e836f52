package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SessionOpen      = "OPEN"
	SessionClosed    = "CLOSED"
	SessionCancelled = "CANCELLED"
)

const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentPix      = "PIX"
	PaymentMultiple = "MULTIPLE"
)

func IsPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentPix, PaymentMultiple:
		return true
	}
	return false
}

// CashierSession is a client's tab. OPEN tabs keep Subtotal and Total in
// line with their items; CLOSED tabs are never written again.
type CashierSession struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"salonId"`
	ClientID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"clientId"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status         string          `gorm:"type:varchar(20);index;not null" json:"status"`
	PaymentMethod  string          `gorm:"type:varchar(20)" json:"paymentMethod,omitempty"`
	ReceiptNumber  string          `gorm:"index" json:"receiptNumber,omitempty"`
	Version        int             `gorm:"not null" json:"version"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	ClosedAt       *time.Time      `gorm:"index" json:"closedAt,omitempty"`
	ClosedByUserID *uuid.UUID      `gorm:"type:uuid" json:"closedByUserId,omitempty"`

	Client *Client              `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []CashierSessionItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *CashierSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Recalculate refreshes Subtotal and Total from the current items.
func (s *CashierSession) Recalculate() {
	s.Subtotal = SumItemPrices(s.Items)
	s.Total = NetTotal(s.Subtotal, s.Discount)
}

// ItemSnapshot freezes what was billed so later renames or price changes
// never alter past receipts.
type ItemSnapshot struct {
	ServiceName string          `gorm:"not null" json:"serviceName"`
	StaffName   string          `gorm:"not null" json:"staffName"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// SnapshotBooking captures a booking's billable data. Service and Staff must be loaded.
func SnapshotBooking(b Booking) ItemSnapshot {
	snap := ItemSnapshot{Price: b.TotalPrice}
	if b.Service != nil {
		snap.ServiceName = b.Service.Name
	}
	if b.Staff != nil {
		snap.StaffName = b.Staff.Name
	}
	return snap
}

type CashierSessionItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;index;not null" json:"sessionId"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"bookingId"`
	ItemSnapshot
	Discount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i *CashierSessionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CloneFor copies the snapshot into a fresh item for another session.
// Discounts live on the session, so the clone starts at zero.
func (i CashierSessionItem) CloneFor(sessionID uuid.UUID) CashierSessionItem {
	return CashierSessionItem{
		ID:           uuid.New(),
		SessionID:    sessionID,
		BookingID:    i.BookingID,
		ItemSnapshot: i.ItemSnapshot,
		Discount:     decimal.Zero,
	}
}

func SumItemPrices(items []CashierSessionItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price)
	}
	return sum
}

// NetTotal applies a session discount without ever going below zero.
func NetTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
