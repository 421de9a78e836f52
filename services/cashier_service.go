package services

import (
	"context"
	"errors"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptSender delivers a payment receipt for a closed session. Delivery is
// best effort and must not fail the caller.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, session *models.CashierSession)
}

type CashierService struct {
	db       *gorm.DB
	receipts ReceiptSender
	now      func() time.Time
}

// NewCashierService builds the cashier. receipts may be nil.
func NewCashierService(db *gorm.DB, receipts ReceiptSender) *CashierService {
	return &CashierService{
		db:       db,
		receipts: receipts,
		now:      time.Now,
	}
}

// GetSession loads a tab of the salon with its items and client.
func (s *CashierService) GetSession(ctx context.Context, salonID, sessionID uuid.UUID) (*models.CashierSession, error) {
	return loadSession(s.db.WithContext(ctx), salonID, sessionID)
}

func (s *CashierService) ListSessions(ctx context.Context, salonID uuid.UUID, status string, clientID *uuid.UUID) ([]models.CashierSession, error) {
	query := s.db.WithContext(ctx).
		Preload("Items", orderItems).
		Preload("Client", unscoped).
		Where("salon_id = ?", salonID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	var sessions []models.CashierSession
	if err := query.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// OpenTab returns the client's OPEN tab, creating an empty one when there is none.
func (s *CashierService) OpenTab(ctx context.Context, salonID, clientID uuid.UUID) (*models.CashierSession, bool, error) {
	var (
		sessionID uuid.UUID
		created   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Where("salon_id = ? AND id = ?", salonID, clientID).First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}

		var existing models.CashierSession
		err := tx.Where("salon_id = ? AND client_id = ? AND status = ?", salonID, clientID, models.SessionOpen).
			First(&existing).Error
		if err == nil {
			sessionID = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tab := models.CashierSession{
			ID:       uuid.New(),
			SalonID:  salonID,
			ClientID: clientID,
			Subtotal: decimal.Zero,
			Discount: decimal.Zero,
			Total:    decimal.Zero,
			Status:   models.SessionOpen,
			Version:  1,
		}
		if err := tx.Create(&tab).Error; err != nil {
			return err
		}
		sessionID = tab.ID
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	session, err := s.GetSession(ctx, salonID, sessionID)
	return session, created, err
}

// AddBooking puts a CONFIRMED booking of the tab's client on the tab.
func (s *CashierService) AddBooking(ctx context.Context, salonID, sessionID, bookingID uuid.UUID) (*models.CashierSession, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := lockOpenSession(tx, salonID, sessionID)
		if err != nil {
			return err
		}

		var booking models.Booking
		if err := tx.Preload("Service", unscoped).Preload("Staff", unscoped).
			Where("salon_id = ? AND id = ?", salonID, bookingID).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.ClientID != tab.ClientID || booking.Status != models.BookingConfirmed {
			return ErrBookingNotBillable
		}

		inTab, err := countInOpenTabs(tx, booking.ID)
		if err != nil {
			return err
		}
		if inTab > 0 {
			return ErrBookingAlreadyInTab
		}

		item := models.CashierSessionItem{
			ID:           uuid.New(),
			SessionID:    tab.ID,
			BookingID:    booking.ID,
			ItemSnapshot: models.SnapshotBooking(booking),
			Discount:     decimal.Zero,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		tab.Items = append(tab.Items, item)
		tab.Recalculate()
		return saveOpenTotals(tx, tab)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSession(ctx, salonID, sessionID)
}

func (s *CashierService) RemoveItem(ctx context.Context, salonID, sessionID, itemID uuid.UUID) (*models.CashierSession, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := lockOpenSession(tx, salonID, sessionID)
		if err != nil {
			return err
		}

		kept := make([]models.CashierSessionItem, 0, len(tab.Items))
		found := false
		for _, item := range tab.Items {
			if item.ID == itemID {
				found = true
				continue
			}
			kept = append(kept, item)
		}
		if !found {
			return ErrItemNotFound
		}

		if err := tx.Where("session_id = ? AND id = ?", tab.ID, itemID).
			Delete(&models.CashierSessionItem{}).Error; err != nil {
			return err
		}

		tab.Items = kept
		tab.Recalculate()
		return saveOpenTotals(tx, tab)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSession(ctx, salonID, sessionID)
}

// SetDiscount changes the session-level discount of an OPEN tab.
func (s *CashierService) SetDiscount(ctx context.Context, salonID, sessionID uuid.UUID, discount decimal.Decimal) (*models.CashierSession, error) {
	if discount.IsNegative() {
		return nil, ErrInvalidInput
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := lockOpenSession(tx, salonID, sessionID)
		if err != nil {
			return err
		}
		tab.Discount = discount
		tab.Recalculate()
		return saveOpenTotals(tx, tab)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSession(ctx, salonID, sessionID)
}

// CancelTab abandons an OPEN tab; its bookings stay CONFIRMED.
func (s *CashierService) CancelTab(ctx context.Context, salonID, sessionID uuid.UUID) (*models.CashierSession, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := lockOpenSession(tx, salonID, sessionID)
		if err != nil {
			return err
		}
		now := s.now()
		result := tx.Model(&models.CashierSession{}).
			Where("id = ? AND status = ? AND version = ?", tab.ID, models.SessionOpen, tab.Version).
			Updates(map[string]interface{}{
				"status":    models.SessionCancelled,
				"closed_at": now,
				"version":   gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConcurrentSettlement
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSession(ctx, salonID, sessionID)
}

func loadSession(db *gorm.DB, salonID, sessionID uuid.UUID) (*models.CashierSession, error) {
	var session models.CashierSession
	if err := db.Preload("Items", orderItems).
		Preload("Client", unscoped).
		Where("salon_id = ? AND id = ?", salonID, sessionID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// lockOpenSession loads a tab for writing. On Postgres the row stays locked
// until the transaction ends.
func lockOpenSession(tx *gorm.DB, salonID, sessionID uuid.UUID) (*models.CashierSession, error) {
	query := tx.Preload("Items", orderItems)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var session models.CashierSession
	if err := query.Where("salon_id = ? AND id = ?", salonID, sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != models.SessionOpen {
		return nil, ErrSessionNotOpen
	}
	return &session, nil
}

// saveOpenTotals writes the totals of an OPEN tab, guarded by its version.
func saveOpenTotals(tx *gorm.DB, tab *models.CashierSession) error {
	result := tx.Model(&models.CashierSession{}).
		Where("id = ? AND status = ? AND version = ?", tab.ID, models.SessionOpen, tab.Version).
		Updates(map[string]interface{}{
			"subtotal": tab.Subtotal,
			"discount": tab.Discount,
			"total":    tab.Total,
			"version":  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentSettlement
	}
	tab.Version++
	return nil
}

// countInOpenTabs counts the items of OPEN tabs that bill any of bookingIDs.
func countInOpenTabs(tx *gorm.DB, bookingIDs ...uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&models.CashierSessionItem{}).
		Joins("JOIN cashier_sessions ON cashier_sessions.id = cashier_session_items.session_id").
		Where("cashier_session_items.booking_id IN ? AND cashier_sessions.status = ?", bookingIDs, models.SessionOpen).
		Count(&n).Error
	return n, err
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
