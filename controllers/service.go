// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration" binding:"min=0"` // in minutes
	Category    string          `json:"category"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"isActive"`
}

// CreateService creates a new service for the salon
func CreateService(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Preço não pode ser negativo")
		return
	}

	service := models.Service{
		SalonID:     salonID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Duration:    input.Duration,
		Category:    input.Category,
		IsActive:    true,
	}
	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao criar serviço")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services for the salon, ?active=true for the bookable ones
func GetServices(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Where("salon_id = ?", salonID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := query.Order("name ASC").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao buscar serviços")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific service by ID
func GetService(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	serviceID, ok := uuidParamOrAbort(c, "id", "ID de serviço inválido")
	if !ok {
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Serviço não encontrado")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService changes the catalogue entry. Existing bookings keep their own price.
func UpdateService(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	serviceID, ok := uuidParamOrAbort(c, "id", "ID de serviço inválido")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Serviço não encontrado")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Preço não pode ser negativo")
			return
		}
		service.Price = input.Price.Round(2)
	}
	if input.Duration != nil {
		if *input.Duration < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Duração não pode ser negativa")
			return
		}
		service.Duration = *input.Duration
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar serviço")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service
func DeleteService(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	serviceID, ok := uuidParamOrAbort(c, "id", "ID de serviço inválido")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, serviceID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao remover serviço")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Serviço não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Serviço removido com sucesso"})
}
