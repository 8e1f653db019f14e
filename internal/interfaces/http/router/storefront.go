package router

import (
	"net/http"

	"github.com/giftshop/backend/internal/infrastructure/config"
	"github.com/giftshop/backend/internal/infrastructure/logger"
	"github.com/giftshop/backend/internal/interfaces/http/dto"
	"github.com/giftshop/backend/internal/interfaces/http/handler"
	"github.com/giftshop/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the endpoint handlers mounted by NewEngine
type Handlers struct {
	Products  *handler.ProductHandler
	Reference *handler.ReferenceHandler
	Promos    *handler.PromoHandler
	Cart      *handler.CartHandler
	Orders    *handler.OrderHandler
	Health    *handler.HealthHandler
}

// EngineConfig configures the middleware chain of the storefront engine
type EngineConfig struct {
	Logger    *zap.Logger
	HTTP      config.HTTPConfig
	Swagger   config.SwaggerConfig
	Staff     config.StaffConfig
	Tracing   middleware.TracingConfig
	Metrics   middleware.HTTPMetricsConfig
	Profiling middleware.ProfilingConfig

	// RateLimiter limits every API request per client; nil disables it
	RateLimiter *middleware.RateLimiter
	// CheckoutLimiter additionally limits order placement; nil disables it
	CheckoutLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware chain and all routes.
//
// Middleware order:
//  1. Recovery - catch panics
//  2. RequestID - generate/propagate request ID
//  3. Locale - negotiate bn/en
//  4. Logger - one line per request
//  5. Tracing, span enrichment, metrics, profiling
//  6. Security headers, CORS, body limit, rate limit
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Locale())
	engine.Use(logger.GinMiddleware(log))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.TracingWithConfig(cfg.Tracing))
		engine.Use(middleware.SpanEnricher())
	}
	engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	if cfg.Profiling.Enabled {
		engine.Use(middleware.ProfilingWithConfig(cfg.Profiling))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	engine.GET("/health", h.Health.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine)
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	for _, group := range StorefrontGroups(h, cfg.CheckoutLimiter, middleware.StaffOnly(cfg.Staff)) {
		r.Register(group)
	}
	r.Setup()

	return engine
}

// StorefrontGroups returns the route groups mounted under the API base path.
// Catalog and promo management, order listing and order status changes are
// wrapped in staff.
func StorefrontGroups(h Handlers, checkoutLimiter *middleware.RateLimiter, staff gin.HandlerFunc) []*DomainGroup {
	products := NewDomainGroup("catalog", "/products")
	products.GET("", h.Products.List)
	products.POST("", staff, h.Products.Create)
	products.GET("/:id", h.Products.Get)
	products.PUT("/:id", staff, h.Products.Update)
	products.DELETE("/:id", staff, h.Products.Deactivate)
	products.POST("/:id/image-upload-url", staff, h.Products.ImageUploadURL)

	categories := NewDomainGroup("categories", "/categories")
	categories.GET("", h.Reference.ListCategories)

	zones := NewDomainGroup("delivery-zones", "/delivery-zones")
	zones.GET("", h.Reference.ListDeliveryZones)

	promos := NewDomainGroup("promotion", "/promo-codes")
	promos.POST("", staff, h.Promos.Create)
	promos.GET("/:code", h.Promos.Get)
	promos.POST("/:code/validate", h.Promos.Validate)

	cart := NewDomainGroup("cart", "/cart")
	cart.POST("/quote", h.Cart.Quote)

	orders := NewDomainGroup("orders", "/orders")
	if checkoutLimiter != nil {
		orders.POST("", middleware.CheckoutRateLimit(checkoutLimiter), h.Orders.Create)
	} else {
		orders.POST("", h.Orders.Create)
	}
	orders.GET("", staff, h.Orders.List)
	orders.GET("/track/:orderId", h.Orders.Track)
	orders.GET("/:orderId", h.Orders.Get)
	orders.PUT("/:orderId/status", staff, h.Orders.UpdateStatus)
	orders.POST("/:orderId/cancel", staff, h.Orders.Cancel)

	return []*DomainGroup{products, categories, zones, promos, cart, orders}
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
