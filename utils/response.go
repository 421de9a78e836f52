package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

var errMissingContext = errors.New("missing auth context")

// SalonIDFromContext returns the tenant set by AuthMiddleware.
func SalonIDFromContext(c *gin.Context) (uuid.UUID, error) {
	return uuidFromContext(c, "salonId")
}

func UserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	return uuidFromContext(c, "userId")
}

func uuidFromContext(c *gin.Context, key string) (uuid.UUID, error) {
	value, exists := c.Get(key)
	if !exists {
		return uuid.Nil, errMissingContext
	}
	s, ok := value.(string)
	if !ok {
		return uuid.Nil, errMissingContext
	}
	return uuid.Parse(s)
}
