package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccrualOutcome string

const (
	AccrualAccrued AccrualOutcome = "ACCRUED"
	AccrualSkipped AccrualOutcome = "SKIPPED"
	AccrualFailed  AccrualOutcome = "FAILED"
)

// Skip reasons reported in AccrualResult.Reason.
const (
	SkipBookingMissing = "booking_not_found"
	SkipAlreadyAccrued = "already_accrued"
	SkipNoConfig       = "no_commission_config"
)

// FailAccrual is the only reason given for a FAILED accrual. The error itself
// stays in the server log.
const FailAccrual = "accrual_failed"

// AccrualResult tells what happened to one booking's commission.
type AccrualResult struct {
	BookingID    uuid.UUID       `json:"bookingId"`
	Outcome      AccrualOutcome  `json:"outcome"`
	Reason       string          `json:"reason,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	CommissionID *uuid.UUID      `json:"commissionId,omitempty"`
}

func skipped(bookingID uuid.UUID, reason string) AccrualResult {
	return AccrualResult{BookingID: bookingID, Outcome: AccrualSkipped, Reason: reason}
}

func failed(bookingID uuid.UUID) AccrualResult {
	return AccrualResult{BookingID: bookingID, Outcome: AccrualFailed, Reason: FailAccrual}
}

var hundred = decimal.NewFromInt(100)

var errDuplicateCommission = errors.New("duplicate commission")

// CalculateCommission prices a rule against a booking price. Null values count
// as zero and an unknown type earns nothing.
func CalculateCommission(rule models.CommissionRule, price decimal.Decimal) decimal.Decimal {
	percentage := valueOrZero(rule.Percentage)
	fixed := valueOrZero(rule.FixedValue)

	var amount decimal.Decimal
	switch rule.Type {
	case models.CommissionPercentage:
		amount = price.Mul(percentage).Div(hundred)
	case models.CommissionFixed:
		amount = fixed
	case models.CommissionMixed:
		amount = fixed.Add(price.Mul(percentage).Div(hundred))
	default:
		return decimal.Zero
	}
	return amount.Round(2)
}

// ResolveRule picks the override for serviceID when there is one, otherwise the
// staff default. Overrides replace the default whole, never field by field.
func ResolveRule(cfg models.StaffCommissionConfig, serviceID uuid.UUID) models.CommissionRule {
	for _, override := range cfg.ServiceOverrides {
		if override.ServiceID == serviceID {
			return override.Rule()
		}
	}
	return cfg.Rule()
}

func valueOrZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

type CommissionService struct {
	db *gorm.DB
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{db: db}
}

// AccrueForBooking records the commission of a completed booking if it is missing.
func (s *CommissionService) AccrueForBooking(ctx context.Context, salonID, bookingID uuid.UUID) (AccrualResult, error) {
	result, err := accrueInSavepoint(s.db.WithContext(ctx), salonID, bookingID, nil)
	if err != nil {
		return failed(bookingID), err
	}
	return result, nil
}

// accrueInSavepoint runs one accrual in a nested transaction so a failure only
// rolls back that booking's writes. On a plain *gorm.DB it opens a transaction.
func accrueInSavepoint(db *gorm.DB, salonID, bookingID uuid.UUID, sessionID *uuid.UUID) (AccrualResult, error) {
	var result AccrualResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = accrueCommission(tx, salonID, bookingID, sessionID)
		return err
	})
	if errors.Is(err, errDuplicateCommission) {
		return skipped(bookingID, SkipAlreadyAccrued), nil
	}
	if err != nil {
		return AccrualResult{}, err
	}
	return result, nil
}

func accrueCommission(tx *gorm.DB, salonID, bookingID uuid.UUID, sessionID *uuid.UUID) (AccrualResult, error) {
	var booking models.Booking
	if err := tx.Preload("Service").Preload("Staff").
		Where("id = ? AND salon_id = ?", bookingID, salonID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return skipped(bookingID, SkipBookingMissing), nil
		}
		return AccrualResult{}, fmt.Errorf("load booking %s: %w", bookingID, err)
	}

	var existing int64
	if err := tx.Model(&models.Commission{}).
		Where("booking_id = ? AND staff_id = ?", booking.ID, booking.StaffID).
		Count(&existing).Error; err != nil {
		return AccrualResult{}, fmt.Errorf("check commission %s: %w", bookingID, err)
	}
	if existing > 0 {
		return skipped(bookingID, SkipAlreadyAccrued), nil
	}

	var cfg models.StaffCommissionConfig
	if err := tx.Preload("ServiceOverrides", "service_id = ?", booking.ServiceID).
		Where("staff_id = ? AND salon_id = ?", booking.StaffID, salonID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return skipped(bookingID, SkipNoConfig), nil
		}
		return AccrualResult{}, fmt.Errorf("load commission config of staff %s: %w", booking.StaffID, err)
	}

	rule := ResolveRule(cfg, booking.ServiceID)
	commission := models.Commission{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		StaffID:          booking.StaffID,
		SalonID:          salonID,
		ServiceID:        booking.ServiceID,
		CashierSessionID: sessionID,
		ServicePrice:     booking.TotalPrice,
		CommissionType:   rule.Type,
		Percentage:       rule.Percentage,
		FixedValue:       rule.FixedValue,
		Amount:           CalculateCommission(rule, booking.TotalPrice),
		Status:           models.CommissionStatusPending,
	}
	if err := tx.Create(&commission).Error; err != nil {
		if isUniqueViolation(err) {
			return AccrualResult{}, errDuplicateCommission
		}
		return AccrualResult{}, fmt.Errorf("create commission for booking %s: %w", bookingID, err)
	}

	return AccrualResult{
		BookingID:    bookingID,
		Outcome:      AccrualAccrued,
		Amount:       commission.Amount,
		CommissionID: &commission.ID,
	}, nil
}

type BackfillSummary struct {
	Scanned int `json:"scanned"`
	Accrued int `json:"accrued"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Backfill accrues commissions for COMPLETED bookings that have none. A nil
// salonID covers every salon.
func (s *CommissionService) Backfill(ctx context.Context, salonID *uuid.UUID) (BackfillSummary, error) {
	type pendingBooking struct {
		ID      uuid.UUID
		SalonID uuid.UUID
	}

	var rows []pendingBooking
	query := s.db.WithContext(ctx).Table("bookings").
		Select("bookings.id, bookings.salon_id").
		Joins("LEFT JOIN commissions ON commissions.booking_id = bookings.id AND commissions.staff_id = bookings.staff_id").
		Where("bookings.status = ? AND commissions.id IS NULL", models.BookingCompleted)
	if salonID != nil {
		query = query.Where("bookings.salon_id = ?", *salonID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return BackfillSummary{}, fmt.Errorf("find bookings without commission: %w", err)
	}

	summary := BackfillSummary{Scanned: len(rows)}
	for _, row := range rows {
		result, err := s.AccrueForBooking(ctx, row.SalonID, row.ID)
		if err != nil {
			log.Printf("[commission] backfill of booking %s failed: %v", row.ID, err)
			summary.Failed++
			continue
		}
		switch result.Outcome {
		case AccrualAccrued:
			summary.Accrued++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}

// CommissionRuleInput is the admin-provided rule for a config or override.
type CommissionRuleInput struct {
	CommissionType string
	Percentage     decimal.NullDecimal
	FixedValue     decimal.NullDecimal
}

func (in CommissionRuleInput) validate() error {
	if !models.IsCommissionType(in.CommissionType) {
		return fmt.Errorf("%w: unknown commission type %q", ErrInvalidInput, in.CommissionType)
	}
	needsPercentage := in.CommissionType != models.CommissionFixed
	needsFixed := in.CommissionType != models.CommissionPercentage
	if needsPercentage && !in.Percentage.Valid {
		return fmt.Errorf("%w: percentage required for %s", ErrInvalidInput, in.CommissionType)
	}
	if needsFixed && !in.FixedValue.Valid {
		return fmt.Errorf("%w: fixed value required for %s", ErrInvalidInput, in.CommissionType)
	}
	if in.Percentage.Valid && (in.Percentage.Decimal.IsNegative() || in.Percentage.Decimal.GreaterThan(hundred)) {
		return fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidInput)
	}
	if in.FixedValue.Valid && in.FixedValue.Decimal.IsNegative() {
		return fmt.Errorf("%w: fixed value must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *CommissionService) GetConfig(ctx context.Context, salonID, staffID uuid.UUID) (*models.StaffCommissionConfig, error) {
	var cfg models.StaffCommissionConfig
	if err := s.db.WithContext(ctx).Preload("ServiceOverrides").
		Where("salon_id = ? AND staff_id = ?", salonID, staffID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionConfigMissing
		}
		return nil, err
	}
	return &cfg, nil
}

// UpsertConfig sets the default rule of a staff member.
func (s *CommissionService) UpsertConfig(ctx context.Context, salonID, staffID uuid.UUID, in CommissionRuleInput) (*models.StaffCommissionConfig, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff models.Staff
		if err := tx.Where("salon_id = ? AND id = ?", salonID, staffID).First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}
			return err
		}

		var cfg models.StaffCommissionConfig
		err := tx.Where("staff_id = ?", staffID).First(&cfg).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cfg = models.StaffCommissionConfig{SalonID: salonID, StaffID: staffID}
		case err != nil:
			return err
		}
		cfg.CommissionType = in.CommissionType
		cfg.Percentage = in.Percentage
		cfg.FixedValue = in.FixedValue
		return tx.Omit("ServiceOverrides").Save(&cfg).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetConfig(ctx, salonID, staffID)
}

// UpsertOverride sets the rule of one service for a staff member that already
// has a default config.
func (s *CommissionService) UpsertOverride(ctx context.Context, salonID, staffID, serviceID uuid.UUID, in CommissionRuleInput) (*models.ServiceCommissionOverride, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var override models.ServiceCommissionOverride
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cfg models.StaffCommissionConfig
		if err := tx.Where("salon_id = ? AND staff_id = ?", salonID, staffID).First(&cfg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommissionConfigMissing
			}
			return err
		}

		var service models.Service
		if err := tx.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return err
		}

		err := tx.Where("config_id = ? AND service_id = ?", cfg.ID, serviceID).First(&override).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			override = models.ServiceCommissionOverride{ConfigID: cfg.ID, ServiceID: serviceID}
		case err != nil:
			return err
		}
		override.CommissionType = in.CommissionType
		override.Percentage = in.Percentage
		override.FixedValue = in.FixedValue
		return tx.Save(&override).Error
	})
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (s *CommissionService) DeleteOverride(ctx context.Context, salonID, staffID, serviceID uuid.UUID) error {
	cfg, err := s.GetConfig(ctx, salonID, staffID)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("config_id = ? AND service_id = ?", cfg.ID, serviceID).
		Delete(&models.ServiceCommissionOverride{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

type CommissionFilter struct {
	StaffID *uuid.UUID
	Status  string
	From    time.Time
	To      time.Time
}

// List returns the ledger entries of a salon in a period, newest first, and their sum.
func (s *CommissionService) List(ctx context.Context, salonID uuid.UUID, filter CommissionFilter) ([]models.Commission, decimal.Decimal, error) {
	query := s.db.WithContext(ctx).Model(&models.Commission{}).
		Where("salon_id = ? AND created_at BETWEEN ? AND ?", salonID, filter.From, filter.To)
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var commissions []models.Commission
	if err := query.Preload("Staff", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Service", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at DESC").
		Find(&commissions).Error; err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for _, c := range commissions {
		total = total.Add(c.Amount)
	}
	return commissions, total, nil
}
