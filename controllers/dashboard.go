package controllers

import (
	"fmt"
	"net/http"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

type DashboardOverview struct {
	TotalClients   int64              `json:"totalClients"`
	TodayRevenue   decimal.Decimal    `json:"todayRevenue"`
	MonthlyRevenue decimal.Decimal    `json:"monthlyRevenue"`
	OpenTabs       int64              `json:"openTabs"`
	OpenTabsTotal  decimal.Decimal    `json:"openTabsTotal"`
	TodayBookings  []TodayBooking     `json:"todayBookings"`
	Settlements    []RecentSettlement `json:"recentSettlements"`
}

type TodayBooking struct {
	ID          uuid.UUID `json:"id"`
	Time        string    `json:"time"`
	ClientName  string    `json:"clientName"`
	ServiceName string    `json:"serviceName"`
	StaffName   string    `json:"staffName"`
	Status      string    `json:"status"`
}

type RecentSettlement struct {
	ClientName    string          `json:"clientName"`
	ReceiptNumber string          `json:"receiptNumber"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	ClosedAt      string          `json:"closedAt"` // "Hoje", "Ontem", "3 dias atrás"
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	now := time.Now()
	overview := DashboardOverview{
		TodayBookings: []TodayBooking{},
		Settlements:   []RecentSettlement{},
	}

	dc.DB.Model(&models.Client{}).Where("salon_id = ?", salonID).Count(&overview.TotalClients)

	var today, month, open sumRow
	dc.DB.Model(&models.CashierSession{}).
		Where("salon_id = ? AND status = ? AND closed_at >= ?", salonID, models.SessionClosed, utils.BeginningOfDay(now)).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&today)
	dc.DB.Model(&models.CashierSession{}).
		Where("salon_id = ? AND status = ? AND closed_at >= ?", salonID, models.SessionClosed, utils.BeginningOfMonth(now)).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&month)
	dc.DB.Model(&models.CashierSession{}).
		Where("salon_id = ? AND status = ?", salonID, models.SessionOpen).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&open)
	dc.DB.Model(&models.CashierSession{}).
		Where("salon_id = ? AND status = ?", salonID, models.SessionOpen).
		Count(&overview.OpenTabs)
	overview.TodayRevenue = today.Total
	overview.MonthlyRevenue = month.Total
	overview.OpenTabsTotal = open.Total

	var bookings []models.Booking
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	if err := dc.DB.Preload("Client", unscoped).Preload("Staff", unscoped).Preload("Service", unscoped).
		Where("salon_id = ? AND scheduled_at BETWEEN ? AND ?", salonID, utils.BeginningOfDay(now), utils.EndOfDay(now)).
		Order("scheduled_at ASC").
		Find(&bookings).Error; err != nil {
		respondServiceError(c, "dashboard bookings", err)
		return
	}
	for _, b := range bookings {
		tb := TodayBooking{ID: b.ID, Time: b.ScheduledAt.Format("15:04"), Status: b.Status}
		if b.Client != nil {
			tb.ClientName = b.Client.Name
		}
		if b.Service != nil {
			tb.ServiceName = b.Service.Name
		}
		if b.Staff != nil {
			tb.StaffName = b.Staff.Name
		}
		overview.TodayBookings = append(overview.TodayBookings, tb)
	}

	var sessions []models.CashierSession
	if err := dc.DB.Preload("Client", unscoped).
		Where("salon_id = ? AND status = ?", salonID, models.SessionClosed).
		Order("closed_at DESC").
		Limit(5).
		Find(&sessions).Error; err != nil {
		respondServiceError(c, "dashboard settlements", err)
		return
	}
	for _, s := range sessions {
		rs := RecentSettlement{
			ReceiptNumber: s.ReceiptNumber,
			Total:         s.Total,
			PaymentMethod: s.PaymentMethod,
		}
		if s.Client != nil {
			rs.ClientName = s.Client.Name
		}
		if s.ClosedAt != nil {
			rs.ClosedAt = daysAgoLabel(now, *s.ClosedAt)
		}
		overview.Settlements = append(overview.Settlements, rs)
	}

	c.JSON(http.StatusOK, overview)
}

func daysAgoLabel(now, t time.Time) string {
	days := int(utils.BeginningOfDay(now).Sub(utils.BeginningOfDay(t)).Hours() / 24)
	switch days {
	case 0:
		return "Hoje"
	case 1:
		return "Ontem"
	default:
		return fmt.Sprintf("%d dias atrás", days)
	}
}
