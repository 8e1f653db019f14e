package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	cartapp "github.com/giftshop/backend/internal/application/cart"
	catalogapp "github.com/giftshop/backend/internal/application/catalog"
	orderapp "github.com/giftshop/backend/internal/application/order"
	promoapp "github.com/giftshop/backend/internal/application/promotion"
	"github.com/giftshop/backend/internal/domain/cart"
	"github.com/giftshop/backend/internal/domain/order"
	"github.com/giftshop/backend/internal/domain/shared/valueobject"
	"github.com/giftshop/backend/internal/infrastructure/cache"
	"github.com/giftshop/backend/internal/infrastructure/config"
	"github.com/giftshop/backend/internal/infrastructure/event"
	"github.com/giftshop/backend/internal/infrastructure/logger"
	"github.com/giftshop/backend/internal/infrastructure/persistence"
	"github.com/giftshop/backend/internal/infrastructure/storage"
	"github.com/giftshop/backend/internal/infrastructure/telemetry"
	"github.com/giftshop/backend/internal/interfaces/http/handler"
	"github.com/giftshop/backend/internal/interfaces/http/middleware"
	"github.com/giftshop/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/giftshop/backend/docs"
)

//	@title			Giftshop API
//	@version		1.0
//	@description	Storefront backend for a Bengali/English gift shop: catalog, promo codes, cart quotes, checkout and order tracking.

//	@contact.name	Giftshop Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// OTLP log export tees into the application logger
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogExportEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	var extraCores []zapcore.Core
	if logProvider.IsEnabled() {
		extraCores = append(extraCores, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	}
	log, err := logger.New(logCfg, extraCores...)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting giftshop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeServerURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Profiler disabled", zap.Error(err))
	} else if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("giftshop"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Database
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	dbTracing.DBName = cfg.Database.DBName

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(gormLog),
		persistence.WithTracing(dbTracing, log),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	productRepo := persistence.NewGormProductRepository(db.DB)
	promoRepo := persistence.NewGormPromoCodeRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Checkout idempotency keys
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	images := newImageStorage(ctx, cfg, log)

	// Events feed metrics and the order notification log
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewMetricsRecorder(businessMetrics))
	eventBus.Subscribe(event.NewLogNotifier(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	zones, err := deliveryZones(cfg.Storefront.DeliveryZones)
	if err != nil {
		log.Fatal("Invalid delivery zones", zap.Error(err))
	}
	loc, err := cfg.Storefront.Location()
	if err != nil {
		log.Fatal("Invalid storefront timezone", zap.String("timezone", cfg.Storefront.Timezone), zap.Error(err))
	}

	// Application services
	promoService := promoapp.NewService(promoRepo,
		promoapp.WithMetrics(businessMetrics),
		promoapp.WithLogger(log),
	)
	pricer := cartapp.NewPricer(productRepo, zones, log)
	quoteService := cartapp.NewQuoteService(pricer, promoService)
	orderService := orderapp.NewService(orderRepo, pricer, promoService,
		order.NewCodeGenerator(cfg.Storefront.OrderCodePrefix, loc),
		orderapp.WithMaxAttempts(cfg.Storefront.OrderCodeMaxAttempts),
		orderapp.WithWhatsAppNumber(cfg.Storefront.WhatsAppNumber),
		orderapp.WithIdempotencyStore(idempotencyStore, cfg.Storefront.IdempotencyTTL),
		orderapp.WithCollisionMetrics(businessMetrics),
		orderapp.WithEventPublisher(eventBus),
		orderapp.WithLogger(log),
	)
	productService := catalogapp.NewProductService(productRepo, images, eventBus, log)

	handlers := router.Handlers{
		Products:  handler.NewProductHandler(productService),
		Reference: handler.NewReferenceHandler(catalogapp.NewCategoryService(), quoteService),
		Promos:    handler.NewPromoHandler(promoService),
		Cart:      handler.NewCartHandler(quoteService),
		Orders:    handler.NewOrderHandler(orderService),
		Health:    handler.NewHealthHandler(db, telemetry.ServiceVersion),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tracing := middleware.DefaultTracingConfig()
	tracing.ServiceName = cfg.Telemetry.ServiceName
	tracing.Enabled = tracerProvider.IsEnabled()

	engineCfg := router.EngineConfig{
		Logger:  log,
		HTTP:    cfg.HTTP,
		Swagger: cfg.Swagger,
		Staff:   cfg.Staff,
		Tracing: tracing,
		Metrics: middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
			Logger:        log,
		},
		Profiling: middleware.DefaultProfilingConfig(),
	}
	engineCfg.Profiling.Enabled = profiler != nil && profiler.IsEnabled()

	if cfg.HTTP.RateLimitEnabled {
		engineCfg.RateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engineCfg.CheckoutLimiter = middleware.NewRateLimiter(cfg.HTTP.CheckoutLimit, cfg.HTTP.RateLimitWindow)
		defer engineCfg.RateLimiter.Stop()
		defer engineCfg.CheckoutLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Int("checkout_requests", cfg.HTTP.CheckoutLimit),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if len(cfg.Staff.AllowedIPs) == 0 {
		log.Warn("Staff allowlist is empty, staff endpoints are closed")
	}

	engine := router.NewEngine(engineCfg, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("base_path", router.DefaultBasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Error stopping profiler", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newImageStorage presigns against S3 when storage is enabled and otherwise
// serves image keys from the public base URL
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) catalogapp.ImageStorage {
	if !cfg.Storage.Enabled {
		return storage.NewPublicImageStorage(cfg.Storage.PublicBaseURL)
	}

	s3, err := storage.NewS3ImageStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Image bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	return s3
}

func deliveryZones(entries []config.DeliveryZoneConfig) (cart.DeliveryZones, error) {
	zones := make([]cart.DeliveryZone, 0, len(entries))
	for _, z := range entries {
		zones = append(zones, cart.DeliveryZone{
			ID:   z.ID,
			Name: valueobject.NewLocalizedText(z.NameEn, z.NameBn),
			Fee:  z.Fee,
		})
	}
	return cart.NewDeliveryZones(zones...)
}
