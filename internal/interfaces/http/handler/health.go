package handler

import (
	"net/http"
	"time"

	"github.com/giftshop/backend/internal/infrastructure/logger"
	"github.com/giftshop/backend/internal/infrastructure/persistence"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks a backing store is reachable and reports its pool usage
type Pinger interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler reports service health for load balancers
type HealthHandler struct {
	BaseHandler
	db        Pinger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
// @name HandlerHealthResponse
type HealthResponse struct {
	Status          string `json:"status" example:"ok"`
	Database        string `json:"database" example:"ok"`
	OpenConnections int    `json:"openConnections" example:"4"`
	InUse           int    `json:"inUse" example:"1"`
	Version         string `json:"version" example:"1.0.0"`
	Uptime          string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Pings the database; answers 503 when it is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.db.Ping(); err != nil {
		logger.L(c.Request.Context()).Error("Health check failed", zap.Error(err))
		resp.Status = "unavailable"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}

	if stats, err := h.db.Stats(); err == nil {
		resp.OpenConnections = stats.OpenConnections
		resp.InUse = stats.InUse
	}

	h.Success(c, resp)
}
