package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettleInput closes some bookings of a client against a payment method.
// With SessionID set the bookings come from that OPEN tab, otherwise they are
// loaded directly.
type SettleInput struct {
	SalonID       uuid.UUID
	UserID        uuid.UUID
	SessionID     *uuid.UUID
	ClientID      uuid.UUID
	BookingIDs    []uuid.UUID
	Discount      decimal.Decimal
	PaymentMethod string
}

func (in SettleInput) validate() error {
	if in.ClientID == uuid.Nil || len(in.BookingIDs) == 0 {
		return ErrInvalidInput
	}
	if in.Discount.IsNegative() {
		return ErrInvalidInput
	}
	if !models.IsPaymentMethod(in.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	return nil
}

type SettleResult struct {
	Session *models.CashierSession
	// RemainingItems is set only when an existing tab was settled.
	RemainingItems *int
	Accruals       []AccrualResult
}

// Warnings lists the settled bookings that did not get a commission.
func (r SettleResult) Warnings() []AccrualResult {
	var out []AccrualResult
	for _, a := range r.Accruals {
		if a.Outcome != AccrualAccrued {
			out = append(out, a)
		}
	}
	return out
}

// Totals is the money side of a settlement.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals sums the selected items only and floors the total at zero.
func CalculateTotals(selected []models.CashierSessionItem, discount decimal.Decimal) Totals {
	subtotal := models.SumItemPrices(selected)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    models.NetTotal(subtotal, discount),
	}
}

// PartitionItems splits a tab's items into those whose booking is being paid
// and the rest, keeping the original order.
func PartitionItems(items []models.CashierSessionItem, bookingIDs []uuid.UUID) (selected, unselected []models.CashierSessionItem) {
	wanted := make(map[uuid.UUID]struct{}, len(bookingIDs))
	for _, id := range bookingIDs {
		wanted[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := wanted[item.BookingID]; ok {
			selected = append(selected, item)
		} else {
			unselected = append(unselected, item)
		}
	}
	return selected, unselected
}

// resolution is what the resolver decided: the items being paid, what stays
// open and, on the tab path, the tab they came from.
type resolution struct {
	source     *models.CashierSession
	clientID   uuid.UUID
	selected   []models.CashierSessionItem
	unselected []models.CashierSessionItem
}

func (r resolution) bookingIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.selected))
	ids := make([]uuid.UUID, 0, len(r.selected))
	for _, item := range r.selected {
		if _, ok := seen[item.BookingID]; ok {
			continue
		}
		seen[item.BookingID] = struct{}{}
		ids = append(ids, item.BookingID)
	}
	return ids
}

// Settle closes the selected bookings in one transaction: it writes the CLOSED
// session, shrinks or removes the source tab, completes the bookings and
// accrues commissions. Accrual failures are reported, not returned.
func (s *CashierService) Settle(ctx context.Context, in SettleInput) (*SettleResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		closedID  uuid.UUID
		remaining *int
		accruals  []AccrualResult
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := resolveSettlement(tx, in)
		if err != nil {
			return err
		}

		closed, err := buildClosedSession(in, res, now)
		if err != nil {
			return err
		}
		if err := tx.Create(closed).Error; err != nil {
			return fmt.Errorf("create closed session: %w", err)
		}
		closedID = closed.ID

		remaining, err = reconcileSource(tx, res)
		if err != nil {
			return err
		}

		bookingIDs := res.bookingIDs()
		if err := tx.Model(&models.Booking{}).
			Where("id IN ? AND salon_id = ? AND status = ?", bookingIDs, in.SalonID, models.BookingConfirmed).
			Updates(map[string]interface{}{
				"status":       models.BookingCompleted,
				"completed_at": now,
			}).Error; err != nil {
			return fmt.Errorf("complete bookings: %w", err)
		}

		if err := tx.Model(&models.Client{}).
			Where("salon_id = ? AND id = ?", in.SalonID, res.clientID).
			Updates(map[string]interface{}{
				"total_visits": gorm.Expr("total_visits + ?", 1),
				"total_spent":  gorm.Expr("total_spent + ?", closed.Total),
				"last_visit":   now,
			}).Error; err != nil {
			return fmt.Errorf("update client stats: %w", err)
		}

		accruals = make([]AccrualResult, 0, len(bookingIDs))
		for _, bookingID := range bookingIDs {
			result, err := accrueInSavepoint(tx, in.SalonID, bookingID, &closed.ID)
			if err != nil {
				log.Printf("[cashier] commission accrual for booking %s failed: %v", bookingID, err)
				result = failed(bookingID)
			}
			accruals = append(accruals, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session, err := s.GetSession(ctx, in.SalonID, closedID)
	if err != nil {
		return nil, err
	}

	if s.receipts != nil {
		s.receipts.SendReceipt(ctx, session)
	}

	return &SettleResult{
		Session:        session,
		RemainingItems: remaining,
		Accruals:       accruals,
	}, nil
}

func resolveSettlement(tx *gorm.DB, in SettleInput) (resolution, error) {
	if in.SessionID != nil {
		tab, err := lockOpenSession(tx, in.SalonID, *in.SessionID)
		if err != nil {
			return resolution{}, err
		}
		if tab.ClientID != in.ClientID {
			return resolution{}, fmt.Errorf("%w: session belongs to another client", ErrInvalidInput)
		}

		selected, unselected := PartitionItems(tab.Items, in.BookingIDs)
		if len(selected) == 0 {
			return resolution{}, ErrNothingToSettle
		}
		return resolution{
			source:     tab,
			clientID:   tab.ClientID,
			selected:   selected,
			unselected: unselected,
		}, nil
	}

	var bookings []models.Booking
	if err := tx.Preload("Service", unscoped).Preload("Staff", unscoped).
		Where("id IN ? AND salon_id = ? AND client_id = ? AND status IN ?",
			in.BookingIDs, in.SalonID, in.ClientID,
			[]string{models.BookingConfirmed, models.BookingCompleted}).
		Order("scheduled_at ASC").
		Find(&bookings).Error; err != nil {
		return resolution{}, fmt.Errorf("load bookings: %w", err)
	}
	if len(bookings) == 0 {
		return resolution{}, ErrBookingsNotFound
	}

	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	inTab, err := countInOpenTabs(tx, ids...)
	if err != nil {
		return resolution{}, fmt.Errorf("check open tabs: %w", err)
	}
	if inTab > 0 {
		return resolution{}, ErrBookingAlreadyInTab
	}

	selected := make([]models.CashierSessionItem, 0, len(bookings))
	for _, b := range bookings {
		selected = append(selected, models.CashierSessionItem{
			BookingID:    b.ID,
			ItemSnapshot: models.SnapshotBooking(b),
		})
	}
	return resolution{clientID: in.ClientID, selected: selected}, nil
}

func buildClosedSession(in SettleInput, res resolution, now time.Time) (*models.CashierSession, error) {
	receiptNumber, err := utils.NextReceiptNumber(now)
	if err != nil {
		return nil, fmt.Errorf("receipt number: %w", err)
	}

	totals := CalculateTotals(res.selected, in.Discount)
	closed := &models.CashierSession{
		ID:            uuid.New(),
		SalonID:       in.SalonID,
		ClientID:      res.clientID,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Status:        models.SessionClosed,
		PaymentMethod: in.PaymentMethod,
		ReceiptNumber: receiptNumber,
		Version:       1,
		PaidAt:        &now,
		ClosedAt:      &now,
	}
	if in.UserID != uuid.Nil {
		userID := in.UserID
		closed.ClosedByUserID = &userID
	}
	for _, item := range res.selected {
		closed.Items = append(closed.Items, item.CloneFor(closed.ID))
	}
	return closed, nil
}

// reconcileSource removes the paid items from the source tab. A tab with
// nothing left is deleted. Writes are guarded by the version read under lock.
func reconcileSource(tx *gorm.DB, res resolution) (*int, error) {
	if res.source == nil {
		return nil, nil
	}
	src := res.source
	remaining := len(res.unselected)

	if remaining == 0 {
		if err := tx.Where("session_id = ?", src.ID).Delete(&models.CashierSessionItem{}).Error; err != nil {
			return nil, fmt.Errorf("delete settled tab items: %w", err)
		}
		result := tx.Where("id = ? AND status = ? AND version = ?", src.ID, models.SessionOpen, src.Version).
			Delete(&models.CashierSession{})
		if result.Error != nil {
			return nil, fmt.Errorf("delete settled tab: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrConcurrentSettlement
		}
		return &remaining, nil
	}

	paidIDs := make([]uuid.UUID, 0, len(res.selected))
	for _, item := range res.selected {
		paidIDs = append(paidIDs, item.ID)
	}
	if err := tx.Where("session_id = ? AND id IN ?", src.ID, paidIDs).
		Delete(&models.CashierSessionItem{}).Error; err != nil {
		return nil, fmt.Errorf("delete paid items: %w", err)
	}

	src.Items = res.unselected
	src.Discount = decimal.Zero
	src.Recalculate()
	if err := saveOpenTotals(tx, src); err != nil {
		if errors.Is(err, ErrConcurrentSettlement) {
			return nil, err
		}
		return nil, fmt.Errorf("update remaining tab: %w", err)
	}
	return &remaining, nil
}
