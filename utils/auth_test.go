package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(), func(c *gin.Context) {
		salonID, err := SalonIDFromContext(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"salonId": salonID.String(), "role": c.GetString("role")})
	})
	r.GET("/owner", AuthMiddleware(), RequireRole("owner"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	ownerToken, err := GenerateToken("0b4c3f56-8a1e-4f0e-9d6a-2f1b7c9e0a11", "6f1d2e3c-4b5a-4c6d-8e7f-9a0b1c2d3e4f", "owner")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	employeeToken, err := GenerateToken("0b4c3f56-8a1e-4f0e-9d6a-2f1b7c9e0a11", "6f1d2e3c-4b5a-4c6d-8e7f-9a0b1c2d3e4f", "employee")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/private", "", http.StatusUnauthorized},
		{"garbage token", "/private", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/private", "Bearer " + ownerToken, http.StatusOK},
		{"owner route as owner", "/owner", "Bearer " + ownerToken, http.StatusNoContent},
		{"owner route as employee", "/owner", "Bearer " + employeeToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "first")
	token, err := GenerateToken("u", "s", "owner")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	t.Setenv("JWT_SECRET", "second")
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("s3nha-forte", hash) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("outra", hash) {
		t.Fatal("expected wrong password to fail")
	}
}
