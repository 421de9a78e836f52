package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staff is a professional who performs bookings and earns commissions.
type Staff struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID  uuid.UUID `gorm:"type:uuid;index;not null" json:"salonId"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	IsActive bool      `json:"isActive"`

	CommissionConfig *StaffCommissionConfig `gorm:"foreignKey:StaffID" json:"commissionConfig,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
