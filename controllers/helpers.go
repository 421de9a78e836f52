package controllers

import (
	"net/http"

	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// salonIDOrAbort reads the tenant from the auth context, answering 401 when missing.
func salonIDOrAbort(c *gin.Context) (uuid.UUID, bool) {
	salonID, err := utils.SalonIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salão não identificado")
		return uuid.Nil, false
	}
	return salonID, true
}

func uuidParamOrAbort(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery parses an optional query parameter. ok is false when the
// value is present but malformed.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
