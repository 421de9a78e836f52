package services

import (
	"context"
	"os"
	"testing"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	if err := utils.InitReceiptNode(1); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db     *gorm.DB
	salon  models.Salon
	user   uuid.UUID
	client models.Client
	staff  models.Staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, user: uuid.New()}

	f.salon = models.Salon{ID: uuid.New(), Name: "Barbearia Central"}
	mustCreate(t, db, &f.salon)
	f.client = models.Client{
		ID:         uuid.New(),
		SalonID:    f.salon.ID,
		Name:       "Ana Souza",
		Phone:      "+5511999990000",
		TotalSpent: decimal.Zero,
		IsActive:   true,
	}
	mustCreate(t, db, &f.client)
	f.staff = f.newStaff(t, "Carlos")
	return f
}

func (f *fixture) newStaff(t *testing.T, name string) models.Staff {
	t.Helper()
	staff := models.Staff{ID: uuid.New(), SalonID: f.salon.ID, Name: name, IsActive: true}
	mustCreate(t, f.db, &staff)
	return staff
}

func (f *fixture) newService(t *testing.T, name, price string) models.Service {
	t.Helper()
	service := models.Service{
		ID:       uuid.New(),
		SalonID:  f.salon.ID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Duration: 30,
		IsActive: true,
	}
	mustCreate(t, f.db, &service)
	return service
}

func (f *fixture) newBooking(t *testing.T, staff models.Staff, service models.Service, status string) models.Booking {
	t.Helper()
	booking := models.Booking{
		ID:          uuid.New(),
		SalonID:     f.salon.ID,
		ClientID:    f.client.ID,
		StaffID:     staff.ID,
		ServiceID:   service.ID,
		ScheduledAt: time.Now().Add(-time.Hour),
		Status:      status,
		TotalPrice:  service.Price,
	}
	mustCreate(t, f.db, &booking)
	return booking
}

func (f *fixture) configure(t *testing.T, staff models.Staff, rule models.CommissionRule) models.StaffCommissionConfig {
	t.Helper()
	cfg := models.StaffCommissionConfig{
		ID:             uuid.New(),
		SalonID:        f.salon.ID,
		StaffID:        staff.ID,
		CommissionType: rule.Type,
		Percentage:     rule.Percentage,
		FixedValue:     rule.FixedValue,
	}
	mustCreate(t, f.db, &cfg)
	return cfg
}

// openTab builds an OPEN tab holding the given CONFIRMED bookings.
func (f *fixture) openTab(t *testing.T, svc *CashierService, bookings ...models.Booking) *models.CashierSession {
	t.Helper()
	tab, _, err := svc.OpenTab(context.Background(), f.salon.ID, f.client.ID)
	if err != nil {
		t.Fatalf("open tab: %v", err)
	}
	for _, b := range bookings {
		if tab, err = svc.AddBooking(context.Background(), f.salon.ID, tab.ID, b.ID); err != nil {
			t.Fatalf("add booking %s: %v", b.ID, err)
		}
	}
	return tab
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func nullDec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
