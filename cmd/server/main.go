package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stationops/internal/app"
	"stationops/internal/backend"
	"stationops/internal/config"
	"stationops/internal/handler"
	internalRedis "stationops/internal/redis"
	"stationops/internal/repository/postgres"
	"stationops/internal/service"
)

func main() {
	// Load configuration (.env is read by the godotenv autoload import).
	cfg := config.Load()

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Wire dependencies.
	server, err := wireServer(ctx, db, redisClient, nrApp, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire server", zap.Error(err))
	}

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(ctx context.Context, db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *zap.Logger) (*http.Server, error) {
	// Initialize Redis stores.
	sessionStore := internalRedis.NewSessionStore(redisClient, cfg.CheckIn.SessionTTL)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	journalRepo := postgres.NewJournalRepository(db)
	if err := journalRepo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	// Initialize the backend gateway; outbound calls are traced when New Relic is on.
	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	if nrApp != nil {
		httpClient.Transport = newrelic.NewRoundTripper(nil)
	}
	gateway := backend.NewClient(backend.Settings{
		BaseURL:          cfg.Backend.BaseURL,
		APIToken:         cfg.Backend.APIToken,
		Timeout:          cfg.Backend.Timeout,
		Interval:         cfg.Backend.BreakerInterval,
		BreakerTimeout:   cfg.Backend.BreakerTimeout,
		FailureThreshold: uint32(cfg.Backend.FailureThreshold),
	}, httpClient, logger.Named("backend"))

	// Initialize services.
	notificationService := service.NewNotificationService(logger.Named("notify"))
	receiptService := service.NewReceiptService()
	inventoryGuard := service.NewInventoryGuard(gateway, cacheStore, logger.Named("inventory"))
	checkInService := service.NewCheckInService(
		gateway,
		sessionStore,
		lockStore,
		cacheStore,
		inventoryGuard,
		journalRepo,
		notificationService,
		receiptService,
		service.CheckInConfig{
			PayLater:         cfg.CheckIn.PayLater,
			PayLaterStations: cfg.CheckIn.PayLaterStations,
			LockTTL:          cfg.CheckIn.LockTTL,
			ReturnURL:        cfg.CheckIn.ReturnURL,
		},
		logger.Named("checkin"),
	)

	// Initialize handlers.
	checkInHandler := handler.NewCheckInHandler(checkInService)
	inventoryHandler := handler.NewInventoryHandler(inventoryGuard)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CheckInHandler:   checkInHandler,
		InventoryHandler: inventoryHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Logger:           logger,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
