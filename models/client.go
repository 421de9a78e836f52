package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID         uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_client_salon_phone,priority:1" json:"salonId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId"`

	Name        string          `gorm:"not null" json:"name"`
	Phone       string          `gorm:"not null;uniqueIndex:idx_client_salon_phone,priority:2" json:"phone"`
	Email       string          `json:"email"`
	Notes       string          `json:"notes"`
	TotalVisits int             `json:"totalVisits"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalSpent"`
	LastVisit   *time.Time      `json:"lastVisit,omitempty"`
	IsActive    bool            `json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
