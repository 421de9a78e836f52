package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
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

type cashierEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	cashier *services.CashierService
	salon   models.Salon
	client  models.Client
	booking models.Booking
}

func newCashierEnv(t *testing.T) *cashierEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &cashierEnv{db: db, cashier: services.NewCashierService(db, nil)}
	env.salon = models.Salon{ID: uuid.New(), Name: "Studio Bela"}
	env.client = models.Client{ID: uuid.New(), SalonID: env.salon.ID, Name: "Joana", Phone: "+5511988887777", TotalSpent: decimal.Zero, IsActive: true}
	staff := models.Staff{ID: uuid.New(), SalonID: env.salon.ID, Name: "Paula", IsActive: true}
	service := models.Service{ID: uuid.New(), SalonID: env.salon.ID, Name: "Escova", Price: decimal.RequireFromString("60"), Duration: 45, IsActive: true}
	env.booking = models.Booking{
		ID:          uuid.New(),
		SalonID:     env.salon.ID,
		ClientID:    env.client.ID,
		StaffID:     staff.ID,
		ServiceID:   service.ID,
		ScheduledAt: time.Now().Add(-time.Hour),
		Status:      models.BookingConfirmed,
		TotalPrice:  service.Price,
	}
	for _, v := range []interface{}{&env.salon, &env.client, &staff, &service, &env.booking} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("create %T: %v", v, err)
		}
	}

	ctl := &CashierController{Cashier: env.cashier}
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set("salonId", env.salon.ID.String())
		c.Set("userId", uuid.New().String())
		c.Next()
	})
	api.POST("/cashier/close", ctl.CloseSession)
	api.GET("/cashier/close", ctl.LookupSession)
	env.router = r
	return env
}

func (env *cashierEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return w, out
}

func TestCloseSessionFromTab(t *testing.T) {
	env := newCashierEnv(t)
	ctx := context.Background()
	tab, _, err := env.cashier.OpenTab(ctx, env.salon.ID, env.client.ID)
	if err != nil {
		t.Fatalf("open tab: %v", err)
	}
	if _, err := env.cashier.AddBooking(ctx, env.salon.ID, tab.ID, env.booking.ID); err != nil {
		t.Fatalf("add booking: %v", err)
	}

	w, body := env.do(t, http.MethodPost, "/api/cashier/close", gin.H{
		"sessionId":     tab.ID,
		"clientId":      env.client.ID,
		"bookingIds":    []uuid.UUID{env.booking.ID},
		"discount":      "10",
		"paymentMethod": models.PaymentPix,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body["success"] != true || body["remainingItems"] != float64(0) {
		t.Fatalf("unexpected body %v", body)
	}
	warnings, ok := body["commissionWarnings"].([]interface{})
	if !ok || len(warnings) != 1 {
		t.Fatalf("expected a missing-config warning, got %v", body["commissionWarnings"])
	}
	session := body["session"].(map[string]interface{})
	if session["status"] != models.SessionClosed || session["total"] != "50" {
		t.Fatalf("unexpected session %v", session)
	}

	// The tab is gone, so settling it again is a 404.
	w, body = env.do(t, http.MethodPost, "/api/cashier/close", gin.H{
		"sessionId":     tab.ID,
		"clientId":      env.client.ID,
		"bookingIds":    []uuid.UUID{env.booking.ID},
		"paymentMethod": models.PaymentPix,
	})
	if w.Code != http.StatusNotFound || body["error"] != "Sessão não encontrada" {
		t.Fatalf("expected 404, got %d %v", w.Code, body)
	}
}

func TestCloseSessionRejectsClosedTab(t *testing.T) {
	env := newCashierEnv(t)
	tab, _, err := env.cashier.OpenTab(context.Background(), env.salon.ID, env.client.ID)
	if err != nil {
		t.Fatalf("open tab: %v", err)
	}
	if _, err := env.cashier.CancelTab(context.Background(), env.salon.ID, tab.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	w, body := env.do(t, http.MethodPost, "/api/cashier/close", gin.H{
		"sessionId":     tab.ID,
		"clientId":      env.client.ID,
		"bookingIds":    []uuid.UUID{env.booking.ID},
		"paymentMethod": models.PaymentCash,
	})
	if w.Code != http.StatusBadRequest || body["error"] != "Sessão já foi fechada ou cancelada" {
		t.Fatalf("expected 400 for a cancelled tab, got %d %v", w.Code, body)
	}
}

func TestCloseSessionValidation(t *testing.T) {
	env := newCashierEnv(t)

	tests := []struct {
		name string
		body gin.H
		want string
	}{
		{
			name: "missing bookings",
			body: gin.H{"clientId": env.client.ID, "paymentMethod": models.PaymentCash},
			want: "Cliente, agendamentos e forma de pagamento são obrigatórios",
		},
		{
			name: "missing client",
			body: gin.H{"bookingIds": []uuid.UUID{env.booking.ID}, "paymentMethod": models.PaymentCash},
			want: "Cliente, agendamentos e forma de pagamento são obrigatórios",
		},
		{
			name: "unknown payment method",
			body: gin.H{"clientId": env.client.ID, "bookingIds": []uuid.UUID{env.booking.ID}, "paymentMethod": "CHEQUE"},
			want: "Forma de pagamento inválida",
		},
		{
			name: "negative discount",
			body: gin.H{"clientId": env.client.ID, "bookingIds": []uuid.UUID{env.booking.ID}, "paymentMethod": models.PaymentCash, "discount": "-1"},
			want: "Dados inválidos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/api/cashier/close", tt.body)
			if w.Code != http.StatusBadRequest || body["error"] != tt.want {
				t.Fatalf("expected 400 %q, got %d %v", tt.want, w.Code, body)
			}
		})
	}

	var count int64
	env.db.Model(&models.CashierSession{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no sessions written, got %d", count)
	}
}

func TestCloseSessionDirectBookings(t *testing.T) {
	env := newCashierEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/cashier/close", gin.H{
		"clientId":      env.client.ID,
		"bookingIds":    []uuid.UUID{env.booking.ID},
		"paymentMethod": models.PaymentCard,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := body["remainingItems"]; ok {
		t.Fatalf("remainingItems must be absent without a tab: %v", body)
	}

	w, body = env.do(t, http.MethodPost, "/api/cashier/close", gin.H{
		"clientId":      env.client.ID,
		"bookingIds":    []uuid.UUID{uuid.New()},
		"paymentMethod": models.PaymentCard,
	})
	if w.Code != http.StatusNotFound || body["error"] != "Agendamentos não encontrados" {
		t.Fatalf("expected 404, got %d %v", w.Code, body)
	}
}

func TestLookupSession(t *testing.T) {
	env := newCashierEnv(t)
	tab, _, err := env.cashier.OpenTab(context.Background(), env.salon.ID, env.client.ID)
	if err != nil {
		t.Fatalf("open tab: %v", err)
	}

	w, body := env.do(t, http.MethodGet, "/api/cashier/close?sessionId="+tab.ID.String(), nil)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected 200, got %d %v", w.Code, body)
	}

	w, body = env.do(t, http.MethodGet, "/api/cashier/close?sessionId="+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound || body["error"] != "Sessão não encontrada" {
		t.Fatalf("expected 404, got %d %v", w.Code, body)
	}

	w, _ = env.do(t, http.MethodGet, "/api/cashier/close?sessionId=nope", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d", w.Code)
	}
}
