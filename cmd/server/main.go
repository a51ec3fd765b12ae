package main

// @title           Food Stall POS API
// @version         1.0
// @description     Order pipeline and catalog service with real-time propagation to connected dashboards
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-service/internal/adapters/kafka"
	"pos-service/internal/api/routes"
	"pos-service/internal/cache"
	"pos-service/internal/config"
	"pos-service/internal/database"
	"pos-service/internal/realtime"
	"pos-service/internal/repositories/postgres"
	"pos-service/internal/services"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("Starting POS server")

	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	db, err := database.NewPostgresConnection(cfg.DB.URI)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)

	instanceID := cfg.Server.InstanceID
	if instanceID == "" {
		instanceID = uuid.New().String()
	}

	// The registry, hub, cache and notifier are constructed once here and
	// injected everywhere; nothing reaches them through package globals.
	dataCache := cache.New(logger)
	registry := realtime.NewRegistry(logger)
	hub := realtime.NewHub(registry, redisClient, instanceID, logger)

	var sink realtime.EventSink
	if cfg.Kafka.Enabled {
		auditSink, err := kafka.NewAuditSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Error("Failed to connect to Kafka", "error", err)
			os.Exit(1)
		}
		defer auditSink.Close()
		sink = auditSink
	}

	notifier := realtime.NewNotifier(hub, dataCache, sink, logger)

	orderService := services.NewOrderService(orderRepo, productRepo, dataCache, notifier, cfg.Cache.OrdersTTL)
	productService := services.NewProductService(productRepo, dataCache, notifier, cfg.Cache.ProductsTTL)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	go hub.RunRelay(relayCtx)

	router := routes.NewRouter(
		registry,
		notifier,
		orderService,
		productService,
		redisClient,
		cfg.JWT.Secret,
		logger,
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", "address", server.Addr, "instanceID", instanceID)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopRelay()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}
