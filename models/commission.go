package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CommissionPercentage = "PERCENTAGE"
	CommissionFixed      = "FIXED"
	CommissionMixed      = "MIXED"
)

const (
	CommissionStatusPending = "PENDING"
	CommissionStatusPaid    = "PAID"
)

func IsCommissionType(t string) bool {
	switch t {
	case CommissionPercentage, CommissionFixed, CommissionMixed:
		return true
	}
	return false
}

// CommissionRule is the type and values used to price one commission.
type CommissionRule struct {
	Type       string
	Percentage decimal.NullDecimal
	FixedValue decimal.NullDecimal
}

// StaffCommissionConfig is the default rule of one staff member.
type StaffCommissionConfig struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID        uuid.UUID           `gorm:"type:uuid;index;not null" json:"salonId"`
	StaffID        uuid.UUID           `gorm:"type:uuid;uniqueIndex;not null" json:"staffId"`
	CommissionType string              `gorm:"type:varchar(20);not null" json:"commissionType"`
	Percentage     decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"percentage"`
	FixedValue     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fixedValue"`

	ServiceOverrides []ServiceCommissionOverride `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"serviceOverrides"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *StaffCommissionConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c StaffCommissionConfig) Rule() CommissionRule {
	return CommissionRule{Type: c.CommissionType, Percentage: c.Percentage, FixedValue: c.FixedValue}
}

// ServiceCommissionOverride replaces the staff default for one service.
type ServiceCommissionOverride struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_override_config_service,priority:1" json:"configId"`
	ServiceID      uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_override_config_service,priority:2" json:"serviceId"`
	CommissionType string              `gorm:"type:varchar(20);not null" json:"commissionType"`
	Percentage     decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"percentage"`
	FixedValue     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fixedValue"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *ServiceCommissionOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o ServiceCommissionOverride) Rule() CommissionRule {
	return CommissionRule{Type: o.CommissionType, Percentage: o.Percentage, FixedValue: o.FixedValue}
}

// Commission is a ledger entry owed to a staff member for one completed
// booking. The rule values are copied so later config edits never change it.
type Commission struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID        uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_commission_booking_staff,priority:1" json:"bookingId"`
	StaffID          uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_commission_booking_staff,priority:2" json:"staffId"`
	SalonID          uuid.UUID           `gorm:"type:uuid;index;not null" json:"salonId"`
	ServiceID        uuid.UUID           `gorm:"type:uuid;index;not null" json:"serviceId"`
	CashierSessionID *uuid.UUID          `gorm:"type:uuid;index" json:"cashierSessionId,omitempty"`
	ServicePrice     decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"servicePrice"`
	CommissionType   string              `gorm:"type:varchar(20);not null" json:"commissionType"`
	Percentage       decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"percentage"`
	FixedValue       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fixedValue"`
	Amount           decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status           string              `gorm:"type:varchar(20);index;not null" json:"status"`

	Staff   *Staff   `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
