package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-analytics-service/internal/api/rest"
	"order-analytics-service/internal/config"
	"order-analytics-service/internal/metrics"
	"order-analytics-service/internal/repository/postgres"
	"order-analytics-service/internal/service"
	"order-analytics-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log := initLogger()

	log.Infow("Analytics server starting up...")

	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	pool, err := postgres.NewConnection(ctx, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Infow("Database connection established")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("Failed to apply schema", "error", err)
	}

	orderRepo := postgres.NewPostgresOrderRepository(pool, log)

	registry := prometheus.NewRegistry()
	queryMetrics := metrics.NewQueryMetrics(registry, log)

	analyticsService := service.NewAnalyticsService(orderRepo, queryMetrics, log)

	router := rest.SetupRouter(analyticsService, registry, log)
	server := rest.NewServer(router, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalw("Failed to start HTTP server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	} else {
		log.Infow("HTTP server gracefully stopped")
	}
}

// initLogger creates the process logger
func initLogger() *logger.Logger {
	logLevel := logger.INFO
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = logger.DEBUG
	}
	return logger.New(logLevel)
}
