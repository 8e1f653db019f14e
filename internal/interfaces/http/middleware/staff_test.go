package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftshop/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStaffOnly(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		remoteAddr string
		wantStatus int
		wantBody   string
	}{
		{"empty allowlist denies everyone", nil, "127.0.0.1:1", http.StatusForbidden, "ERR_FORBIDDEN"},
		{"allowed single ip", []string{"127.0.0.1", "::1"}, "127.0.0.1:1", http.StatusOK, "orders"},
		{"allowed ipv6 loopback", []string{"127.0.0.1", "::1"}, "[::1]:1", http.StatusOK, "orders"},
		{"allowed cidr", []string{"10.0.0.0/8"}, "10.20.30.40:1", http.StatusOK, "orders"},
		{"outside cidr", []string{"10.0.0.0/8"}, "203.0.113.9:1", http.StatusForbidden, "restricted to shop staff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID())
			router.GET("/orders", StaffOnly(config.StaffConfig{AllowedIPs: tt.allowed}), func(c *gin.Context) {
				c.String(http.StatusOK, "orders")
			})

			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
