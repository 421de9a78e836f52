package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	commissionsEpoch     = time.Now().AddDate(-1, 0, 0)
	commissionsFarFuture = time.Now().AddDate(1, 0, 0)
)

func TestCalculateCommission(t *testing.T) {
	price := dec("100")
	tests := []struct {
		name string
		rule models.CommissionRule
		want string
	}{
		{"percentage", models.CommissionRule{Type: models.CommissionPercentage, Percentage: nullDec("20")}, "20.00"},
		{"fixed", models.CommissionRule{Type: models.CommissionFixed, FixedValue: nullDec("15")}, "15.00"},
		{"mixed", models.CommissionRule{Type: models.CommissionMixed, Percentage: nullDec("20"), FixedValue: nullDec("10")}, "30.00"},
		{"unknown type", models.CommissionRule{Type: "TIERED", Percentage: nullDec("50")}, "0.00"},
		{"null percentage counts as zero", models.CommissionRule{Type: models.CommissionMixed, FixedValue: nullDec("10")}, "10.00"},
		{"rounds to cents", models.CommissionRule{Type: models.CommissionPercentage, Percentage: nullDec("33.333")}, "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCommission(tt.rule, price)
			if got.StringFixed(2) != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.StringFixed(2))
			}
		})
	}
}

func TestResolveRuleOverrideWinsWhole(t *testing.T) {
	serviceID := uuid.New()
	cfg := models.StaffCommissionConfig{
		CommissionType: models.CommissionMixed,
		Percentage:     nullDec("20"),
		FixedValue:     nullDec("10"),
		ServiceOverrides: []models.ServiceCommissionOverride{
			{ServiceID: serviceID, CommissionType: models.CommissionFixed, FixedValue: nullDec("5")},
		},
	}

	rule := ResolveRule(cfg, serviceID)
	if rule.Type != models.CommissionFixed || rule.Percentage.Valid {
		t.Fatalf("expected the override rule untouched by defaults, got %+v", rule)
	}

	other := ResolveRule(cfg, uuid.New())
	if other.Type != models.CommissionMixed {
		t.Fatalf("expected default rule for other services, got %s", other.Type)
	}
}

func TestAccrueForBookingIsIdempotent(t *testing.T) {
	f := newFixture(t)
	service := f.newService(t, "Corte", "100")
	booking := f.newBooking(t, f.staff, service, models.BookingCompleted)
	f.configure(t, f.staff, models.CommissionRule{Type: models.CommissionPercentage, Percentage: nullDec("20")})

	svc := NewCommissionService(f.db)
	ctx := context.Background()

	first, err := svc.AccrueForBooking(ctx, f.salon.ID, booking.ID)
	if err != nil {
		t.Fatalf("first accrual: %v", err)
	}
	if first.Outcome != AccrualAccrued || !first.Amount.Equal(dec("20")) {
		t.Fatalf("expected ACCRUED 20, got %+v", first)
	}

	second, err := svc.AccrueForBooking(ctx, f.salon.ID, booking.ID)
	if err != nil {
		t.Fatalf("second accrual: %v", err)
	}
	if second.Outcome != AccrualSkipped || second.Reason != SkipAlreadyAccrued {
		t.Fatalf("expected SKIPPED already_accrued, got %+v", second)
	}

	var count int64
	f.db.Model(&models.Commission{}).Where("booking_id = ?", booking.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 commission, got %d", count)
	}
}

func TestAccrueForBookingSnapshotsOverride(t *testing.T) {
	f := newFixture(t)
	service := f.newService(t, "Coloração", "200")
	booking := f.newBooking(t, f.staff, service, models.BookingCompleted)
	cfg := f.configure(t, f.staff, models.CommissionRule{Type: models.CommissionPercentage, Percentage: nullDec("10")})
	mustCreate(t, f.db, &models.ServiceCommissionOverride{
		ConfigID:       cfg.ID,
		ServiceID:      service.ID,
		CommissionType: models.CommissionFixed,
		FixedValue:     nullDec("35"),
	})

	result, err := NewCommissionService(f.db).AccrueForBooking(context.Background(), f.salon.ID, booking.ID)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if !result.Amount.Equal(dec("35")) {
		t.Fatalf("expected override amount 35, got %s", result.Amount)
	}

	var commission models.Commission
	if err := f.db.First(&commission, "booking_id = ?", booking.ID).Error; err != nil {
		t.Fatalf("load commission: %v", err)
	}
	if commission.CommissionType != models.CommissionFixed || commission.Status != models.CommissionStatusPending {
		t.Fatalf("unexpected commission snapshot %+v", commission)
	}
	if commission.CashierSessionID != nil {
		t.Fatalf("expected no session on a direct accrual")
	}
	if !commission.ServicePrice.Equal(dec("200")) {
		t.Fatalf("expected service price 200, got %s", commission.ServicePrice)
	}
}

func TestAccrueForBookingSkips(t *testing.T) {
	f := newFixture(t)
	svc := NewCommissionService(f.db)
	ctx := context.Background()

	missing, err := svc.AccrueForBooking(ctx, f.salon.ID, uuid.New())
	if err != nil {
		t.Fatalf("missing booking: %v", err)
	}
	if missing.Outcome != AccrualSkipped || missing.Reason != SkipBookingMissing {
		t.Fatalf("expected booking_not_found skip, got %+v", missing)
	}

	service := f.newService(t, "Barba", "40")
	booking := f.newBooking(t, f.staff, service, models.BookingCompleted)
	noConfig, err := svc.AccrueForBooking(ctx, f.salon.ID, booking.ID)
	if err != nil {
		t.Fatalf("no config: %v", err)
	}
	if noConfig.Outcome != AccrualSkipped || noConfig.Reason != SkipNoConfig {
		t.Fatalf("expected no_commission_config skip, got %+v", noConfig)
	}
}

func TestBackfillCreatesMissingCommissionsOnce(t *testing.T) {
	f := newFixture(t)
	service := f.newService(t, "Corte", "50")
	f.configure(t, f.staff, models.CommissionRule{Type: models.CommissionFixed, FixedValue: nullDec("12")})
	f.newBooking(t, f.staff, service, models.BookingCompleted)
	f.newBooking(t, f.staff, service, models.BookingCompleted)
	f.newBooking(t, f.staff, service, models.BookingConfirmed)

	svc := NewCommissionService(f.db)
	summary, err := svc.Backfill(context.Background(), &f.salon.ID)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if summary.Scanned != 2 || summary.Accrued != 2 {
		t.Fatalf("expected 2 scanned and accrued, got %+v", summary)
	}

	again, err := svc.Backfill(context.Background(), nil)
	if err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	if again.Scanned != 0 || again.Accrued != 0 {
		t.Fatalf("expected nothing left to backfill, got %+v", again)
	}
}

func TestUpsertConfigValidatesRule(t *testing.T) {
	f := newFixture(t)
	svc := NewCommissionService(f.db)
	ctx := context.Background()

	_, err := svc.UpsertConfig(ctx, f.salon.ID, f.staff.ID, CommissionRuleInput{CommissionType: models.CommissionMixed, Percentage: nullDec("10")})
	if err == nil {
		t.Fatal("expected MIXED without fixed value to be rejected")
	}

	cfg, err := svc.UpsertConfig(ctx, f.salon.ID, f.staff.ID, CommissionRuleInput{CommissionType: models.CommissionPercentage, Percentage: nullDec("25")})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	updated, err := svc.UpsertConfig(ctx, f.salon.ID, f.staff.ID, CommissionRuleInput{CommissionType: models.CommissionFixed, FixedValue: nullDec("8")})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.ID != cfg.ID || updated.CommissionType != models.CommissionFixed {
		t.Fatalf("expected the same config updated in place, got %+v", updated)
	}

	if _, err := svc.UpsertConfig(ctx, f.salon.ID, uuid.New(), CommissionRuleInput{CommissionType: models.CommissionFixed, FixedValue: nullDec("8")}); !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestListCommissionsTotals(t *testing.T) {
	f := newFixture(t)
	service := f.newService(t, "Corte", "80")
	f.configure(t, f.staff, models.CommissionRule{Type: models.CommissionPercentage, Percentage: nullDec("50")})
	svc := NewCommissionService(f.db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b := f.newBooking(t, f.staff, service, models.BookingCompleted)
		if _, err := svc.AccrueForBooking(ctx, f.salon.ID, b.ID); err != nil {
			t.Fatalf("accrue: %v", err)
		}
	}

	commissions, total, err := svc.List(ctx, f.salon.ID, CommissionFilter{
		StaffID: &f.staff.ID,
		From:    commissionsEpoch,
		To:      commissionsFarFuture,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(commissions) != 2 || !total.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected 2 entries totalling 80, got %d / %s", len(commissions), total)
	}
	if commissions[0].Staff == nil || commissions[0].Staff.Name != "Carlos" {
		t.Fatalf("expected staff preloaded")
	}
}
