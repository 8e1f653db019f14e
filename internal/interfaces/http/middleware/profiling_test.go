package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExtractControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/products":              "products",
		"/api/products/:id":          "products",
		"/api/orders/track/:orderId": "orders",
		"/api/promo/:code/validate":  "promo",
		"/api/cart/quote":            "cart",
		"/swagger/*any":              "swagger",
		"":                           "",
		"/api":                       "",
	}
	for route, want := range tests {
		assert.Equal(t, want, extractControllerFromRoute(route), route)
	}
}

func TestProfilingWithConfig_Labels(t *testing.T) {
	router := gin.New()
	router.Use(Locale(), Profiling())

	var labels map[string]string
	router.GET("/api/orders/track/:orderId", func(c *gin.Context) {
		labels = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			labels[key] = value
			return true
		})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/track/TXR-20260301-001?lang=bn", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		ProfilingLabelMethod:     http.MethodGet,
		ProfilingLabelRoute:      "/api/orders/track/:orderId",
		ProfilingLabelController: "orders",
		ProfilingLabelLocale:     "bn",
	}, labels)
}

func TestProfilingWithConfig_SkipsAndDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilingConfig
		path string
	}{
		{"skip path", DefaultProfilingConfig(), "/health"},
		{"skip prefix", DefaultProfilingConfig(), "/swagger/index.html"},
		{"disabled", ProfilingConfig{Enabled: false}, "/api/products"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(ProfilingWithConfig(tt.cfg))

			labelled := false
			handler := func(c *gin.Context) {
				pprof.ForLabels(c.Request.Context(), func(string, string) bool {
					labelled = true
					return false
				})
				c.Status(http.StatusOK)
			}
			router.GET("/health", handler)
			router.GET("/api/products", handler)
			router.GET("/swagger/*any", handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		})
	}
}
