package middleware

import (
	"net/http"
	"strings"

	"github.com/giftshop/backend/internal/infrastructure/locale"
	"github.com/giftshop/backend/internal/infrastructure/logger"
	"github.com/giftshop/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are served without a span (health probes, docs)
	SkipPaths []string
}

// DefaultTracingConfig returns default tracing configuration
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "giftshop-backend",
		Enabled:     true,
		SkipPaths:   []string{"/health", "/swagger/"},
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin. Spans are named after the route pattern.
// Use SpanEnricher after RequestID and Locale to add storefront attributes.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return noop
	}

	base := otelgin.Middleware(cfg.ServiceName)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || (strings.HasSuffix(skip, "/") && strings.HasPrefix(path, skip)) {
				c.Next()
				return
			}
		}
		base(c)
	}
}

// SpanEnricher tags the request span with the request ID and display
// language, and after the handler with the order code and error status.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		span.SetAttributes(attribute.String("app.locale", locale.FromContext(c.Request.Context())))

		c.Next()

		if code := logger.GetOrderCode(c.Request.Context()); code != "" {
			span.SetAttributes(attribute.String(telemetry.SpanAttrOrderCode, code))
		}
		markSpanStatus(span, c.Writer.Status())
	}
}

func markSpanStatus(span trace.Span, statusCode int) {
	if statusCode < http.StatusBadRequest {
		return
	}

	var message string
	switch {
	case statusCode >= http.StatusInternalServerError:
		message = "Internal Server Error"
	case statusCode == http.StatusNotFound:
		message = "Not Found"
	case statusCode == http.StatusUnprocessableEntity:
		message = "Unprocessable Entity"
	case statusCode == http.StatusTooManyRequests:
		message = "Too Many Requests"
	default:
		message = "Client Error"
	}
	span.SetStatus(codes.Error, message)
	span.SetAttributes(attribute.Int("http.status_code", statusCode))
}
