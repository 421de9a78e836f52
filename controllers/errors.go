package controllers

import (
	"errors"
	"log"
	"net/http"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

// serviceErrors maps service sentinels to the status and message sent to clients.
var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrInvalidPaymentMethod, http.StatusBadRequest, "Forma de pagamento inválida"},
	{services.ErrInvalidInput, http.StatusBadRequest, "Dados inválidos"},
	{services.ErrSessionNotFound, http.StatusNotFound, "Sessão não encontrada"},
	{services.ErrSessionNotOpen, http.StatusBadRequest, "Sessão já foi fechada ou cancelada"},
	{services.ErrNothingToSettle, http.StatusBadRequest, "Nenhum item selecionado para fechamento"},
	{services.ErrBookingsNotFound, http.StatusNotFound, "Agendamentos não encontrados"},
	{services.ErrConcurrentSettlement, http.StatusConflict, "Sessão foi alterada por outra operação, tente novamente"},
	{services.ErrClientNotFound, http.StatusNotFound, "Cliente não encontrado"},
	{services.ErrBookingNotFound, http.StatusNotFound, "Agendamento não encontrado"},
	{services.ErrBookingNotBillable, http.StatusBadRequest, "Agendamento não está confirmado para este cliente"},
	{services.ErrBookingAlreadyInTab, http.StatusBadRequest, "Agendamento já está em uma comanda aberta"},
	{services.ErrItemNotFound, http.StatusNotFound, "Item não encontrado"},
	{services.ErrStaffNotFound, http.StatusNotFound, "Profissional não encontrado"},
	{services.ErrServiceNotFound, http.StatusNotFound, "Serviço não encontrado"},
	{services.ErrCommissionConfigMissing, http.StatusNotFound, "Configuração de comissão não encontrada"},
	{services.ErrInvalidStatusTransition, http.StatusBadRequest, "Mudança de status não permitida"},
}

// respondServiceError answers with the mapped message, or a generic 500 with
// the detail kept in the server log.
func respondServiceError(c *gin.Context, op string, err error) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			utils.RespondWithError(c, e.status, e.message)
			return
		}
	}
	log.Printf("[api] %s failed: %v", op, err)
	utils.RespondWithError(c, http.StatusInternalServerError, "Erro interno do servidor")
}
