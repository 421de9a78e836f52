package controllers

import (
	"net/http"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CashierController struct {
	Cashier *services.CashierService
}

type CloseSessionInput struct {
	SessionID     *uuid.UUID       `json:"sessionId"`
	ClientID      *uuid.UUID       `json:"clientId"`
	BookingIDs    []uuid.UUID      `json:"bookingIds"`
	Discount      *decimal.Decimal `json:"discount"`
	PaymentMethod string           `json:"paymentMethod"`
}

type OpenSessionInput struct {
	ClientID uuid.UUID `json:"clientId" binding:"required"`
}

type AddItemInput struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
}

type DiscountInput struct {
	Discount decimal.Decimal `json:"discount"`
}

// CloseSession settles bookings, either out of an OPEN tab or directly.
func (ctl *CashierController) CloseSession(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	userID, _ := utils.UserIDFromContext(c)

	var input CloseSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if input.ClientID == nil || len(input.BookingIDs) == 0 || input.PaymentMethod == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Cliente, agendamentos e forma de pagamento são obrigatórios")
		return
	}

	discount := decimal.Zero
	if input.Discount != nil {
		discount = *input.Discount
	}

	result, err := ctl.Cashier.Settle(c.Request.Context(), services.SettleInput{
		SalonID:       salonID,
		UserID:        userID,
		SessionID:     input.SessionID,
		ClientID:      *input.ClientID,
		BookingIDs:    input.BookingIDs,
		Discount:      discount,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		respondServiceError(c, "close cashier session", err)
		return
	}

	resp := gin.H{
		"success": true,
		"session": result.Session,
	}
	if result.RemainingItems != nil {
		resp["remainingItems"] = *result.RemainingItems
	}
	if warnings := result.Warnings(); len(warnings) > 0 {
		resp["commissionWarnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

// LookupSession returns any tab of the salon by ?sessionId=.
func (ctl *CashierController) LookupSession(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Query("sessionId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de sessão inválido")
		return
	}

	session, err := ctl.Cashier.GetSession(c.Request.Context(), salonID, sessionID)
	if err != nil {
		respondServiceError(c, "lookup cashier session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (ctl *CashierController) OpenSession(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	var input OpenSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Cliente é obrigatório")
		return
	}

	session, created, err := ctl.Cashier.OpenTab(c.Request.Context(), salonID, input.ClientID)
	if err != nil {
		respondServiceError(c, "open cashier session", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "session": session})
}

func (ctl *CashierController) ListSessions(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	clientID, ok := optionalUUIDQuery(c, "clientId")
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de cliente inválido")
		return
	}

	sessions, err := ctl.Cashier.ListSessions(c.Request.Context(), salonID, c.Query("status"), clientID)
	if err != nil {
		respondServiceError(c, "list cashier sessions", err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (ctl *CashierController) GetSession(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParamOrAbort(c, "id", "ID de sessão inválido")
	if !ok {
		return
	}

	session, err := ctl.Cashier.GetSession(c.Request.Context(), salonID, sessionID)
	if err != nil {
		respondServiceError(c, "get cashier session", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ctl *CashierController) AddItem(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParamOrAbort(c, "id", "ID de sessão inválido")
	if !ok {
		return
	}

	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Agendamento é obrigatório")
		return
	}

	session, err := ctl.Cashier.AddBooking(c.Request.Context(), salonID, sessionID, input.BookingID)
	if err != nil {
		respondServiceError(c, "add cashier item", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ctl *CashierController) RemoveItem(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParamOrAbort(c, "id", "ID de sessão inválido")
	if !ok {
		return
	}
	itemID, ok := uuidParamOrAbort(c, "itemId", "ID de item inválido")
	if !ok {
		return
	}

	session, err := ctl.Cashier.RemoveItem(c.Request.Context(), salonID, sessionID, itemID)
	if err != nil {
		respondServiceError(c, "remove cashier item", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ctl *CashierController) SetDiscount(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParamOrAbort(c, "id", "ID de sessão inválido")
	if !ok {
		return
	}

	var input DiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Desconto inválido")
		return
	}

	session, err := ctl.Cashier.SetDiscount(c.Request.Context(), salonID, sessionID, input.Discount)
	if err != nil {
		respondServiceError(c, "set cashier discount", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ctl *CashierController) CancelSession(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	sessionID, ok := uuidParamOrAbort(c, "id", "ID de sessão inválido")
	if !ok {
		return
	}

	session, err := ctl.Cashier.CancelTab(c.Request.Context(), salonID, sessionID)
	if err != nil {
		respondServiceError(c, "cancel cashier session", err)
		return
	}
	c.JSON(http.StatusOK, session)
}
