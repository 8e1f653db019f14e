package middleware

import (
	"net/http"

	"github.com/giftshop/backend/internal/infrastructure/config"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// StaffOnly restricts a route to clients on the staff allowlist. Anyone else
// gets 403, and an empty allowlist closes the route to everyone.
func StaffOnly(cfg config.StaffConfig) gin.HandlerFunc {
	allowedIPs, allowedNets := parseAllowlist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !isIPAllowed(getClientIP(c), allowedIPs, allowedNets) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "This operation is restricted to shop staff", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
