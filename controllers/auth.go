package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email        string       `json:"email" binding:"required,email"`
	Phone        string       `json:"phone" binding:"required"`
	Name         string       `json:"name" binding:"required"`
	Password     string       `json:"password" binding:"required,min=8"`
	SalonName    string       `json:"salonName" binding:"required"`
	SalonAddress string       `json:"salonAddress"`
	WorkingHours models.JSONB `json:"workingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
	Password   string `json:"password" binding:"required"`
}

func defaultWorkingHours() models.JSONB {
	return models.JSONB{
		"monday":    map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"tuesday":   map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"wednesday": map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"thursday":  map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"friday":    map[string]interface{}{"open": "09:00", "close": "20:00", "closed": false},
		"saturday":  map[string]interface{}{"open": "09:00", "close": "18:00", "closed": false},
		"sunday":    map[string]interface{}{"open": "09:00", "close": "13:00", "closed": true},
	}
}

// Register creates a salon together with its owner account.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}
	input.Phone = utils.NormalizePhone(input.Phone)
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Telefone inválido")
		return
	}

	var existing models.User
	err := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existing).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "E-mail ou telefone já cadastrado")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		return
	}

	salon := models.Salon{
		Name:                  input.SalonName,
		Address:               input.SalonAddress,
		Phone:                 input.Phone,
		WorkingHours:          input.WorkingHours,
		WhatsAppNotifications: false,
		SMSNotifications:      false,
	}
	if salon.WorkingHours == nil {
		salon.WorkingHours = defaultWorkingHours()
	}
	user := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate
		Role:     models.RoleOwner,
		IsActive: true,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&salon).Error; err != nil {
			return err
		}
		user.SalonID = salon.ID
		return tx.Omit("Salon").Create(&user).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao criar conta")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), salon.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao gerar token")
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cadastro realizado com sucesso",
		"token":   token,
		"user":    userResponse(user, salon),
	})
}

// Login authenticates a user by email or phone
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	if err := config.DB.Preload("Salon").
		Where("email = ? OR phone = ?", identifier, utils.NormalizePhone(identifier)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Credenciais inválidas")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Erro no banco de dados")
		}
		return
	}

	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.SalonID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Falha ao gerar token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user, user.Salon),
	})
}

// Me returns the authenticated user
func Me(c *gin.Context) {
	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}

	var user models.User
	if err := config.DB.Preload("Salon").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Usuário não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user, user.Salon)})
}

func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int(utils.TokenTTL().Seconds()), "/", "", true, true)
}

func userResponse(user models.User, salon models.Salon) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"phone":     user.Phone,
		"role":      user.Role,
		"salonId":   user.SalonID,
		"salonName": salon.Name,
	}
}
