package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string    `gorm:"not null" json:"name"`
	Address               string    `json:"address"`
	Phone                 string    `json:"phone"`
	WorkingHours          JSONB     `gorm:"type:jsonb" json:"workingHours"`
	ReceiptMessage        string    `gorm:"type:text" json:"receiptMessage"`
	WhatsAppNotifications bool      `json:"whatsAppNotifications"`
	SMSNotifications      bool      `json:"smsNotifications"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NotificationsEnabled reports whether any receipt channel is switched on.
func (s Salon) NotificationsEnabled() bool {
	return s.WhatsAppNotifications || s.SMSNotifications
}

// Custom JSONB type for working hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONB) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*j = JSONB{}
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, j)
}
