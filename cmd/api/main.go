package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ecom-platform/inventory-service/internal/application"
	"github.com/ecom-platform/inventory-service/internal/domain"
	mongoRepo "github.com/ecom-platform/inventory-service/internal/infrastructure/mongodb"
	"github.com/ecom-platform/inventory-service/pkg/kafka"
	"github.com/ecom-platform/inventory-service/pkg/logging"
	"github.com/ecom-platform/inventory-service/pkg/metrics"
	"github.com/ecom-platform/inventory-service/pkg/middleware"
	"github.com/ecom-platform/inventory-service/pkg/mongodb"
	"github.com/ecom-platform/inventory-service/pkg/outbox"
	"github.com/ecom-platform/inventory-service/pkg/resilience"
	"github.com/ecom-platform/inventory-service/pkg/tracing"
)

const serviceName = "inventory-service"

func main() {
	_ = godotenv.Load()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting inventory-service API")

	config := loadConfig()
	ctx := context.Background()

	// OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	// MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Repositories
	inventoryRepo := mongoRepo.NewInventoryRepository(mongoClient.Database())
	movementRepo := mongoRepo.NewMovementRepository(mongoClient.Database())
	alertRepo := mongoRepo.NewAlertRepository(mongoClient.Database())

	// Kafka producer behind a circuit breaker, drained by the outbox publisher
	producer := kafka.NewProducer(config.Kafka)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	breaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("kafka-publisher"), logger.Logger)

	outboxPublisher := outbox.NewPublisher(
		inventoryRepo.OutboxRepository(),
		producer,
		breaker,
		logger,
		m,
		&outbox.PublisherConfig{
			PollInterval: config.OutboxPollInterval,
			BatchSize:    100,
		},
	)
	if err := outboxPublisher.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start outbox publisher")
		os.Exit(1)
	}
	defer outboxPublisher.Stop()
	logger.Info("Outbox publisher started")

	// Application services
	policy := domain.NewInventoryService()
	commandService := application.NewInventoryCommandService(inventoryRepo, alertRepo, policy, m, logger)
	queryService := application.NewInventoryQueryService(inventoryRepo, policy, logger)
	movementService := application.NewMovementService(movementRepo, alertRepo, logger)
	alertService := application.NewAlertService(inventoryRepo, alertRepo, policy, m, logger)

	// Gin router with the standard middleware chain
	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.TracingMiddleware(middleware.DefaultTracingConfig(serviceName)))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api/v1/inventory")
	{
		// Static routes first (must come before wildcard routes)
		api.POST("", createInventoryHandler(commandService, logger))
		api.GET("", listInventoryHandler(queryService, logger))
		api.GET("/stats", statsHandler(queryService, logger))
		api.GET("/reorder-recommendations", reorderRecommendationsHandler(queryService, logger))
		api.GET("/availability", checkAvailabilityHandler(commandService, logger))
		api.POST("/reserve", reserveStockHandler(commandService, logger))
		api.POST("/release", releaseStockHandler(commandService, logger))
		api.POST("/transfer", transferStockHandler(commandService, logger))
		api.GET("/product/:productId", getByProductHandler(commandService, logger))
		api.GET("/sku/:sku", getBySKUHandler(commandService, logger))
		api.GET("/movements/summary", movementSummaryHandler(movementService, logger))
		api.POST("/movements/cleanup", cleanupMovementsHandler(movementService, logger))
		api.GET("/alerts", listAlertsHandler(alertService, logger))
		api.POST("/alerts/scan", scanAlertsHandler(alertService, logger))
		api.POST("/alerts/:alertId/resolve", resolveAlertHandler(alertService, logger))

		// Wildcard id routes (must come after static routes)
		api.GET("/:id", getInventoryHandler(commandService, logger))
		api.PUT("/:id", updateInventoryHandler(commandService, logger))
		api.DELETE("/:id", deleteInventoryHandler(commandService, logger))
		api.POST("/:id/stock-in", stockInHandler(commandService, logger))
		api.POST("/:id/stock-out", stockOutHandler(commandService, logger))
		api.POST("/:id/adjust", adjustStockHandler(commandService, logger))
		api.POST("/:id/activate", activateHandler(commandService, logger))
		api.POST("/:id/deactivate", deactivateHandler(commandService, logger))
		api.GET("/:id/movements", listMovementsHandler(movementService, logger))
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr         string
	OutboxPollInterval time.Duration
	MongoDB            *mongodb.Config
	Kafka              *kafka.Config
}

func loadConfig() *Config {
	pollInterval := 1 * time.Second
	if raw := getEnv("OUTBOX_POLL_INTERVAL", ""); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			pollInterval = parsed
		}
	}

	return &Config{
		ServerAddr:         getEnv("SERVER_ADDR", ":8085"),
		OutboxPollInterval: pollInterval,
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "inventory_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
