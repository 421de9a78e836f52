// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"salonId"`
	ClientID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	SessionID    *uuid.UUID `gorm:"type:uuid;index" json:"sessionId,omitempty"`
	Type         string     `gorm:"type:varchar(20)" json:"type"` // receipt
	Message      string     `gorm:"type:text" json:"message"`
	Status       string     `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string     `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel      string     `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time  `json:"sentAt"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
