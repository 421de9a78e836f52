package controllers

import (
	"net/http"
	"strconv"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateSalonInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func loadSalon(c *gin.Context) (*models.Salon, bool) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return nil, false
	}
	var salon models.Salon
	if err := config.DB.First(&salon, "id = ?", salonID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Salão não encontrado")
		return nil, false
	}
	return &salon, true
}

// GetProfile returns the salon of the logged in user
func GetProfile(c *gin.Context) {
	salon, ok := loadSalon(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, salon)
}

// UpdateSalonProfile updates the salon name, address and phone
func UpdateSalonProfile(c *gin.Context) {
	salon, ok := loadSalon(c)
	if !ok {
		return
	}

	var input UpdateSalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}
	phone := utils.NormalizePhone(input.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Telefone inválido")
		return
	}

	salon.Name = input.Name
	salon.Address = input.Address
	salon.Phone = phone
	if err := config.DB.Save(salon).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar salão")
		return
	}

	c.JSON(http.StatusOK, salon)
}

// UpdateWorkingHours replaces the salon working hours
func UpdateWorkingHours(c *gin.Context) {
	salon, ok := loadSalon(c)
	if !ok {
		return
	}

	var input struct {
		WorkingHours models.JSONB `json:"workingHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Horário inválido")
		return
	}

	if err := config.DB.Model(salon).Update("working_hours", input.WorkingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar horário")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Horário atualizado"})
}

// UpdateReceiptTemplate sets the receipt text sent after a settlement.
func UpdateReceiptTemplate(c *gin.Context) {
	salon, ok := loadSalon(c)
	if !ok {
		return
	}

	var input struct {
		ReceiptMessage string `json:"receiptMessage"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := config.DB.Model(salon).Update("receipt_message", input.ReceiptMessage).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar mensagem")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mensagem de recibo atualizada"})
}

func UpdateNotifications(c *gin.Context) {
	salon, ok := loadSalon(c)
	if !ok {
		return
	}

	var input struct {
		WhatsAppNotifications bool `json:"whatsAppNotifications"`
		SMSNotifications      bool `json:"smsNotifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := config.DB.Model(salon).Updates(map[string]interface{}{
		"whats_app_notifications": input.WhatsAppNotifications,
		"sms_notifications":       input.SMSNotifications,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar notificações")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notificações atualizadas"})
}

// GetNotificationLogs returns the latest receipt deliveries, ?limit= up to 200.
func GetNotificationLogs(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := services.ListNotifications(c.Request.Context(), config.DB, salonID, limit)
	if err != nil {
		respondServiceError(c, "list notifications", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
