package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftshop/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerStatus(cfg config.SwaggerConfig, remoteAddr string) (int, string) {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		remoteAddr string
		wantStatus int
		wantBody   string
	}{
		{"disabled", config.SwaggerConfig{Enabled: false}, "127.0.0.1:1", http.StatusNotFound, "ERR_NOT_FOUND"},
		{"enabled without allowlist", config.SwaggerConfig{Enabled: true}, "203.0.113.9:1", http.StatusOK, "docs"},
		{"allowed single ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.1.1.1"}}, "10.1.1.1:1", http.StatusOK, "docs"},
		{"denied single ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.1.1.1"}}, "10.1.1.2:1", http.StatusForbidden, "ERR_FORBIDDEN"},
		{"allowed cidr", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "192.168.44.3:1", http.StatusOK, "docs"},
		{"invalid entries only deny", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip"}}, "10.1.1.1:1", http.StatusForbidden, "ERR_FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := swaggerStatus(tt.cfg, tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	_, lan, _ := net.ParseCIDR("10.0.0.0/8")
	ips := []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")}

	assert.True(t, isIPAllowed(net.ParseIP("127.0.0.1"), ips, nil))
	assert.True(t, isIPAllowed(net.ParseIP("::1"), ips, nil))
	assert.True(t, isIPAllowed(net.ParseIP("10.20.30.40"), nil, []*net.IPNet{lan}))
	assert.False(t, isIPAllowed(net.ParseIP("11.0.0.1"), ips, []*net.IPNet{lan}))
	assert.False(t, isIPAllowed(nil, ips, []*net.IPNet{lan}))
}
