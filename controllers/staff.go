package controllers

import (
	"errors"
	"net/http"
	"strings"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StaffInput struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsActive *bool  `json:"isActive"`
}

// CreateStaff adds a professional to the salon
func CreateStaff(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	staff := models.Staff{
		SalonID:  salonID,
		Name:     strings.TrimSpace(input.Name),
		Phone:    utils.NormalizePhone(input.Phone),
		Email:    input.Email,
		IsActive: true,
	}
	if staff.Phone != "" && !utils.ValidatePhone(staff.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Telefone inválido")
		return
	}

	if err := config.DB.Create(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao cadastrar profissional")
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// GetStaff lists professionals with their commission config.
func GetStaff(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	var staff []models.Staff
	if err := config.DB.Preload("CommissionConfig.ServiceOverrides").
		Where("salon_id = ?", salonID).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao buscar profissionais")
		return
	}

	c.JSON(http.StatusOK, staff)
}

// UpdateStaff updates an existing professional
func UpdateStaff(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	staffID, ok := uuidParamOrAbort(c, "id", "ID de profissional inválido")
	if !ok {
		return
	}

	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	var staff models.Staff
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, staffID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Profissional não encontrado")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		}
		return
	}

	staff.Name = strings.TrimSpace(input.Name)
	staff.Phone = utils.NormalizePhone(input.Phone)
	staff.Email = input.Email
	if input.IsActive != nil {
		staff.IsActive = *input.IsActive
	}
	if staff.Phone != "" && !utils.ValidatePhone(staff.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Telefone inválido")
		return
	}

	if err := config.DB.Omit("CommissionConfig").Save(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar profissional")
		return
	}

	c.JSON(http.StatusOK, staff)
}

// DeleteStaff soft deletes a professional; their commissions stay in the ledger.
func DeleteStaff(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	staffID, ok := uuidParamOrAbort(c, "id", "ID de profissional inválido")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, staffID).Delete(&models.Staff{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao remover profissional")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Profissional não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profissional removido com sucesso"})
}
