package controllers

import (
	"net/http"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingController struct {
	Bookings *services.BookingService
}

type CreateBookingRequest struct {
	ClientID    uuid.UUID        `json:"clientId" binding:"required"`
	StaffID     uuid.UUID        `json:"staffId" binding:"required"`
	ServiceID   uuid.UUID        `json:"serviceId" binding:"required"`
	ScheduledAt time.Time        `json:"scheduledAt" binding:"required"`
	Status      string           `json:"status"`
	TotalPrice  *decimal.Decimal `json:"totalPrice"`
	Notes       string           `json:"notes"`
}

type BookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ctl *BookingController) CreateBooking(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	booking, err := ctl.Bookings.Create(c.Request.Context(), salonID, services.CreateBookingInput{
		ClientID:    req.ClientID,
		StaffID:     req.StaffID,
		ServiceID:   req.ServiceID,
		ScheduledAt: req.ScheduledAt,
		Status:      req.Status,
		TotalPrice:  req.TotalPrice,
		Notes:       req.Notes,
	})
	if err != nil {
		respondServiceError(c, "create booking", err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists bookings filtered by ?status=&clientId=&staffId=&date=YYYY-MM-DD.
func (ctl *BookingController) GetBookings(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	filter := services.BookingFilter{Status: c.Query("status")}
	if filter.Status != "" && !models.IsBookingStatus(filter.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Status inválido")
		return
	}
	if filter.ClientID, ok = optionalUUIDQuery(c, "clientId"); !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de cliente inválido")
		return
	}
	if filter.StaffID, ok = optionalUUIDQuery(c, "staffId"); !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de profissional inválido")
		return
	}
	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation(utils.DateLayout, date, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Data inválida")
			return
		}
		from, to := utils.BeginningOfDay(day), utils.EndOfDay(day)
		filter.From, filter.To = &from, &to
	}

	bookings, err := ctl.Bookings.List(c.Request.Context(), salonID, filter)
	if err != nil {
		respondServiceError(c, "list bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctl *BookingController) GetBooking(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	bookingID, ok := uuidParamOrAbort(c, "id", "ID de agendamento inválido")
	if !ok {
		return
	}

	booking, err := ctl.Bookings.Get(c.Request.Context(), salonID, bookingID)
	if err != nil {
		respondServiceError(c, "get booking", err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (ctl *BookingController) UpdateStatus(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	bookingID, ok := uuidParamOrAbort(c, "id", "ID de agendamento inválido")
	if !ok {
		return
	}

	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Status é obrigatório")
		return
	}

	booking, err := ctl.Bookings.UpdateStatus(c.Request.Context(), salonID, bookingID, req.Status)
	if err != nil {
		respondServiceError(c, "update booking status", err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
