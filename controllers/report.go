// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportController aggregates closed cashier sessions and commissions.
type ReportController struct {
	DB *gorm.DB
}

type AnalyticsSummary struct {
	CurrentMonthRevenue   decimal.Decimal    `json:"currentMonthRevenue"`
	MonthGrowth           float64            `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal    `json:"currentQuarterRevenue"`
	QuarterGrowth         float64            `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal    `json:"currentYearRevenue"`
	YearGrowth            float64            `json:"yearGrowth"`
	PaymentMethods        []PaymentBreakdown `json:"paymentMethods"`
	TopServices           []ServiceSummary   `json:"topServices"`
	TopClients            []ClientSummary    `json:"topClients"`
	TopStaff              []StaffSummary     `json:"topStaff"`
	QuickStats            QuickStatistics    `json:"quickStats"`
}

type PaymentBreakdown struct {
	PaymentMethod string          `json:"paymentMethod"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

type ServiceSummary struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ClientSummary struct {
	Name   string          `json:"name"`
	Visits int             `json:"visits"`
	Spent  decimal.Decimal `json:"spent"`
}

type StaffSummary struct {
	Name            string          `json:"name"`
	Services        int             `json:"services"`
	CommissionTotal decimal.Decimal `json:"commissions"`
}

type QuickStatistics struct {
	TotalClients       int             `json:"totalClients"`
	ClosedSessions     int             `json:"closedSessions"`
	AvgTicket          decimal.Decimal `json:"avgTicket"`
	PendingCommissions decimal.Decimal `json:"pendingCommissions"`
}

type sumRow struct {
	Total decimal.Decimal
}

// GetReportAnalytics answers the revenue report for the current period.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	now := time.Now()
	firstOfMonth := utils.BeginningOfMonth(now)
	endOfMonth := utils.EndOfDay(firstOfMonth.AddDate(0, 1, -1))
	quarterStart := rc.getQuarterStart(now)
	quarterEnd := utils.EndOfDay(quarterStart.AddDate(0, 3, -1))
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	yearEnd := utils.EndOfDay(time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()))

	type period struct {
		start, end time.Time
	}
	periods := []period{
		{firstOfMonth, endOfMonth},
		{firstOfMonth.AddDate(0, -1, 0), firstOfMonth.Add(-time.Nanosecond)},
		{quarterStart, quarterEnd},
		{quarterStart.AddDate(0, -3, 0), quarterStart.Add(-time.Nanosecond)},
		{yearStart, yearEnd},
		{yearStart.AddDate(-1, 0, 0), yearStart.Add(-time.Nanosecond)},
	}
	revenue := make([]decimal.Decimal, len(periods))
	for i, p := range periods {
		total, err := rc.getRevenue(salonID, p.start, p.end)
		if err != nil {
			respondServiceError(c, "report revenue", err)
			return
		}
		revenue[i] = total
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   revenue[0],
		MonthGrowth:           rc.calculateGrowthPercentage(revenue[0], revenue[1]),
		CurrentQuarterRevenue: revenue[2],
		QuarterGrowth:         rc.calculateGrowthPercentage(revenue[2], revenue[3]),
		CurrentYearRevenue:    revenue[4],
		YearGrowth:            rc.calculateGrowthPercentage(revenue[4], revenue[5]),
	}

	var err error
	if summary.PaymentMethods, err = rc.getPaymentBreakdown(salonID, firstOfMonth, endOfMonth); err != nil {
		respondServiceError(c, "report payment methods", err)
		return
	}
	if summary.TopServices, err = rc.getTopServices(salonID, firstOfMonth, endOfMonth, 5); err != nil {
		respondServiceError(c, "report top services", err)
		return
	}
	if summary.TopClients, err = rc.getTopClients(salonID, firstOfMonth, endOfMonth, 5); err != nil {
		respondServiceError(c, "report top clients", err)
		return
	}
	if summary.TopStaff, err = rc.getTopStaff(salonID, firstOfMonth, endOfMonth, 5); err != nil {
		respondServiceError(c, "report top staff", err)
		return
	}
	if summary.QuickStats, err = rc.getQuickStatistics(salonID); err != nil {
		respondServiceError(c, "report quick stats", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (rc *ReportController) closedSessions(salonID uuid.UUID, start, end time.Time) *gorm.DB {
	return rc.DB.Model(&models.CashierSession{}).
		Where("cashier_sessions.salon_id = ? AND cashier_sessions.status = ? AND cashier_sessions.closed_at BETWEEN ? AND ?",
			salonID, models.SessionClosed, start, end)
}

func (rc *ReportController) getRevenue(salonID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := rc.closedSessions(salonID, start, end).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) calculateGrowthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	growth, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return growth
}

func (rc *ReportController) getPaymentBreakdown(salonID uuid.UUID, start, end time.Time) ([]PaymentBreakdown, error) {
	var rows []PaymentBreakdown
	err := rc.closedSessions(salonID, start, end).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("payment_method").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (rc *ReportController) getTopServices(salonID uuid.UUID, start, end time.Time, limit int) ([]ServiceSummary, error) {
	var services []ServiceSummary
	err := rc.DB.Table("cashier_session_items").
		Select("cashier_session_items.service_name AS name, COUNT(*) AS count, SUM(cashier_session_items.price) AS revenue").
		Joins("JOIN cashier_sessions ON cashier_sessions.id = cashier_session_items.session_id").
		Where("cashier_sessions.salon_id = ? AND cashier_sessions.status = ? AND cashier_sessions.closed_at BETWEEN ? AND ?",
			salonID, models.SessionClosed, start, end).
		Group("cashier_session_items.service_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&services).Error
	return services, err
}

func (rc *ReportController) getTopClients(salonID uuid.UUID, start, end time.Time, limit int) ([]ClientSummary, error) {
	var clients []ClientSummary
	err := rc.closedSessions(salonID, start, end).
		Select("clients.name AS name, COUNT(cashier_sessions.id) AS visits, SUM(cashier_sessions.total) AS spent").
		Joins("JOIN clients ON clients.id = cashier_sessions.client_id").
		Group("clients.id, clients.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&clients).Error
	return clients, err
}

func (rc *ReportController) getTopStaff(salonID uuid.UUID, start, end time.Time, limit int) ([]StaffSummary, error) {
	var staff []StaffSummary
	err := rc.DB.Table("commissions").
		Select("staff.name AS name, COUNT(commissions.id) AS services, SUM(commissions.amount) AS commission_total").
		Joins("JOIN staff ON staff.id = commissions.staff_id").
		Where("commissions.salon_id = ? AND commissions.created_at BETWEEN ? AND ?", salonID, start, end).
		Group("staff.id, staff.name").
		Order("commission_total DESC").
		Limit(limit).
		Scan(&staff).Error
	return staff, err
}

func (rc *ReportController) getQuickStatistics(salonID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var totalClients int64
	if err := rc.DB.Model(&models.Client{}).Where("salon_id = ?", salonID).Count(&totalClients).Error; err != nil {
		return stats, err
	}
	stats.TotalClients = int(totalClients)

	var closed int64
	if err := rc.DB.Model(&models.CashierSession{}).
		Where("salon_id = ? AND status = ?", salonID, models.SessionClosed).
		Count(&closed).Error; err != nil {
		return stats, err
	}
	stats.ClosedSessions = int(closed)

	var revenue sumRow
	if err := rc.DB.Model(&models.CashierSession{}).
		Where("salon_id = ? AND status = ?", salonID, models.SessionClosed).
		Select("COALESCE(SUM(total), 0) AS total").
		Scan(&revenue).Error; err != nil {
		return stats, err
	}
	if closed > 0 {
		stats.AvgTicket = revenue.Total.Div(decimal.NewFromInt(closed)).Round(2)
	}

	var pending sumRow
	if err := rc.DB.Model(&models.Commission{}).
		Where("salon_id = ? AND status = ?", salonID, models.CommissionStatusPending).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&pending).Error; err != nil {
		return stats, err
	}
	stats.PendingCommissions = pending.Total

	return stats, nil
}
