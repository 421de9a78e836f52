// services/receipt_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

const defaultReceiptMessage = "Olá [ClientName], obrigado pela visita ao [SalonName]! Recibo [ReceiptNumber]: total R$ [Total] ([PaymentMethod])."

// MessageCreator is the part of the Twilio API the receipt service uses.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSettings struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

type ReceiptService struct {
	db        *gorm.DB
	messages  MessageCreator
	smsFrom   string
	whatsFrom string
	now       func() time.Time
}

func NewReceiptService(db *gorm.DB, settings TwilioSettings) *ReceiptService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: settings.AccountSID,
		Password: settings.AuthToken,
	})
	return newReceiptService(db, client.Api, settings)
}

func newReceiptService(db *gorm.DB, messages MessageCreator, settings TwilioSettings) *ReceiptService {
	return &ReceiptService{
		db:        db,
		messages:  messages,
		smsFrom:   settings.PhoneNumber,
		whatsFrom: settings.WhatsAppNumber,
		now:       time.Now,
	}
}

// SendReceipt messages the client of a closed session when the salon has a
// channel switched on. Every attempt is written to the notification log.
func (s *ReceiptService) SendReceipt(ctx context.Context, session *models.CashierSession) {
	if session == nil || session.Status != models.SessionClosed {
		return
	}

	db := s.db.WithContext(ctx)
	var salon models.Salon
	if err := db.First(&salon, "id = ?", session.SalonID).Error; err != nil {
		log.Printf("[receipt] salon %s: %v", session.SalonID, err)
		return
	}
	if !salon.NotificationsEnabled() {
		return
	}

	client := session.Client
	if client == nil {
		client = &models.Client{}
		if err := db.Unscoped().First(client, "id = ?", session.ClientID).Error; err != nil {
			log.Printf("[receipt] client %s: %v", session.ClientID, err)
			return
		}
	}
	if client.Phone == "" {
		return
	}

	message := RenderReceipt(salon, *client, session)
	channel, to, from := s.route(salon, client.Phone)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	status := NotificationSent
	errorMsg := ""
	resp, err := s.messages.CreateMessage(params)
	if err != nil {
		log.Printf("[receipt] failed to send receipt %s to %s: %v", session.ReceiptNumber, client.Phone, err)
		status = NotificationFailed
		errorMsg = err.Error()
	} else if resp != nil && resp.Sid != nil {
		log.Printf("[receipt] receipt %s sent to %s, SID: %s", session.ReceiptNumber, client.Phone, *resp.Sid)
	}

	sessionID := session.ID
	entry := models.NotificationLog{
		SalonID:      session.SalonID,
		ClientID:     client.ID,
		SessionID:    &sessionID,
		Type:         "receipt",
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       s.now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[receipt] failed to log receipt for client %s: %v", client.ID, err)
	}
}

// route prefers WhatsApp for E.164 numbers when the salon enabled it.
func (s *ReceiptService) route(salon models.Salon, phone string) (channel, to, from string) {
	if salon.WhatsAppNotifications && s.whatsFrom != "" && strings.HasPrefix(phone, "+") {
		return ChannelWhatsApp, "whatsapp:" + phone, "whatsapp:" + s.whatsFrom
	}
	return ChannelSMS, phone, s.smsFrom
}

// RenderReceipt fills the salon's receipt template. Known placeholders are
// [ClientName], [SalonName], [ReceiptNumber], [Total] and [PaymentMethod].
func RenderReceipt(salon models.Salon, client models.Client, session *models.CashierSession) string {
	template := salon.ReceiptMessage
	if strings.TrimSpace(template) == "" {
		template = defaultReceiptMessage
	}
	return strings.NewReplacer(
		"[ClientName]", client.Name,
		"[SalonName]", salon.Name,
		"[ReceiptNumber]", session.ReceiptNumber,
		"[Total]", session.Total.StringFixed(2),
		"[PaymentMethod]", session.PaymentMethod,
	).Replace(template)
}

// ListNotifications returns the latest notification log entries of a salon.
func ListNotifications(ctx context.Context, db *gorm.DB, salonID uuid.UUID, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []models.NotificationLog
	if err := db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return logs, nil
}
