package services

import (
	"context"
	"errors"
	"testing"

	"salonbook-backend/models"
)

func TestOpenTabReusesOpenSession(t *testing.T) {
	f := newFixture(t)
	svc := NewCashierService(f.db, nil)
	ctx := context.Background()

	first, created, err := svc.OpenTab(ctx, f.salon.ID, f.client.ID)
	if err != nil || !created {
		t.Fatalf("expected a new tab, created=%v err=%v", created, err)
	}
	second, created, err := svc.OpenTab(ctx, f.salon.ID, f.client.ID)
	if err != nil || created {
		t.Fatalf("expected the existing tab, created=%v err=%v", created, err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same tab, got %s and %s", first.ID, second.ID)
	}
}

func TestAddBookingRules(t *testing.T) {
	f := newFixture(t)
	svc := NewCashierService(f.db, nil)
	ctx := context.Background()
	service := f.newService(t, "Corte", "45")

	tab := f.openTab(t, svc)
	pending := f.newBooking(t, f.staff, service, models.BookingPending)
	if _, err := svc.AddBooking(ctx, f.salon.ID, tab.ID, pending.ID); !errors.Is(err, ErrBookingNotBillable) {
		t.Fatalf("expected pending booking rejected, got %v", err)
	}

	confirmed := f.newBooking(t, f.staff, service, models.BookingConfirmed)
	tab, err := svc.AddBooking(ctx, f.salon.ID, tab.ID, confirmed.ID)
	if err != nil {
		t.Fatalf("add booking: %v", err)
	}
	if len(tab.Items) != 1 || !tab.Total.Equal(dec("45")) {
		t.Fatalf("expected one item totalling 45, got %d / %s", len(tab.Items), tab.Total)
	}

	if _, err := svc.AddBooking(ctx, f.salon.ID, tab.ID, confirmed.ID); !errors.Is(err, ErrBookingAlreadyInTab) {
		t.Fatalf("expected duplicate rejected, got %v", err)
	}
}

func TestTabTotalsFollowItemsAndDiscount(t *testing.T) {
	f := newFixture(t)
	svc := NewCashierService(f.db, nil)
	ctx := context.Background()
	a := f.newBooking(t, f.staff, f.newService(t, "Corte", "50"), models.BookingConfirmed)
	b := f.newBooking(t, f.staff, f.newService(t, "Barba", "30"), models.BookingConfirmed)
	tab := f.openTab(t, svc, a, b)

	tab, err := svc.SetDiscount(ctx, f.salon.ID, tab.ID, dec("100"))
	if err != nil {
		t.Fatalf("set discount: %v", err)
	}
	if !tab.Subtotal.Equal(dec("80")) || !tab.Total.IsZero() {
		t.Fatalf("expected subtotal 80 and total floored to 0, got %s / %s", tab.Subtotal, tab.Total)
	}
	if _, err := svc.SetDiscount(ctx, f.salon.ID, tab.ID, dec("-5")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected negative discount rejected, got %v", err)
	}

	tab, err = svc.SetDiscount(ctx, f.salon.ID, tab.ID, dec("5"))
	if err != nil {
		t.Fatalf("set discount: %v", err)
	}
	tab, err = svc.RemoveItem(ctx, f.salon.ID, tab.ID, tab.Items[0].ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(tab.Items) != 1 || !tab.Subtotal.Equal(dec("30")) || !tab.Total.Equal(dec("25")) {
		t.Fatalf("expected 30 - 5 = 25, got %s / %s", tab.Subtotal, tab.Total)
	}
}

func TestCancelTabFreezesIt(t *testing.T) {
	f := newFixture(t)
	svc := NewCashierService(f.db, nil)
	ctx := context.Background()
	booking := f.newBooking(t, f.staff, f.newService(t, "Corte", "50"), models.BookingConfirmed)
	tab := f.openTab(t, svc, booking)

	cancelled, err := svc.CancelTab(ctx, f.salon.ID, tab.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.SessionCancelled || cancelled.ClosedAt == nil {
		t.Fatalf("unexpected cancelled tab %+v", cancelled)
	}
	if _, err := svc.SetDiscount(ctx, f.salon.ID, tab.ID, dec("1")); !errors.Is(err, ErrSessionNotOpen) {
		t.Fatalf("expected cancelled tab to be read only, got %v", err)
	}

	var stored models.Booking
	f.db.First(&stored, "id = ?", booking.ID)
	if stored.Status != models.BookingConfirmed {
		t.Fatalf("expected booking to stay CONFIRMED, got %s", stored.Status)
	}

	reopened, created, err := svc.OpenTab(ctx, f.salon.ID, f.client.ID)
	if err != nil || !created || reopened.ID == tab.ID {
		t.Fatalf("expected a fresh tab after cancel, created=%v err=%v", created, err)
	}
	if _, err := svc.AddBooking(ctx, f.salon.ID, reopened.ID, booking.ID); err != nil {
		t.Fatalf("expected booking billable again: %v", err)
	}
}

func TestListSessionsFilters(t *testing.T) {
	f := newFixture(t)
	svc := NewCashierService(f.db, nil)
	ctx := context.Background()
	f.openTab(t, svc)

	open, err := svc.ListSessions(ctx, f.salon.ID, models.SessionOpen, &f.client.ID)
	if err != nil || len(open) != 1 {
		t.Fatalf("expected one open tab, got %d (%v)", len(open), err)
	}
	closed, err := svc.ListSessions(ctx, f.salon.ID, models.SessionClosed, nil)
	if err != nil || len(closed) != 0 {
		t.Fatalf("expected no closed tabs, got %d (%v)", len(closed), err)
	}
}
