package controllers

import (
	"errors"
	"net/http"
	"strings"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateClientInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"`
	Notes string  `json:"notes"`
}

type UpdateClientInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateClient creates a new client for the salon
func CreateClient(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	userID, _ := utils.UserIDFromContext(c)

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	phone := utils.NormalizePhone(input.Phone)
	if !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Telefone inválido")
		return
	}

	client := models.Client{
		ID:              uuid.New(),
		SalonID:         salonID,
		CreatedByUserID: userID,
		Name:            strings.TrimSpace(input.Name),
		Phone:           phone,
		Notes:           input.Notes,
		TotalSpent:      decimal.Zero,
		IsActive:        true,
	}
	if input.Email != nil {
		client.Email = *input.Email
	}

	if err := config.DB.Create(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Já existe um cliente com este telefone")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao criar cliente")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients lists the salon's clients, optionally filtered by ?search= on name or phone.
func GetClients(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Where("salon_id = ?", salonID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var clients []models.Client
	if err := query.Order("name ASC").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao buscar clientes")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID
func GetClient(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	clientID, ok := uuidParamOrAbort(c, "id", "ID de cliente inválido")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, clientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Cliente não encontrado")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	clientID, ok := uuidParamOrAbort(c, "id", "ID de cliente inválido")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("salon_id = ? AND id = ?", salonID, clientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Cliente não encontrado")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		}
		return
	}

	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		phone := utils.NormalizePhone(*input.Phone)
		if !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Telefone inválido")
			return
		}
		client.Phone = phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Já existe um cliente com este telefone")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao atualizar cliente")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient soft deletes a client. Past sessions keep pointing at it.
func DeleteClient(c *gin.Context) {
	salonID, ok := salonIDOrAbort(c)
	if !ok {
		return
	}
	clientID, ok := uuidParamOrAbort(c, "id", "ID de cliente inválido")
	if !ok {
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonID, clientID).Delete(&models.Client{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao remover cliente")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Cliente não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cliente removido com sucesso"})
}
