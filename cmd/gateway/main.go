package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/backend"
	"github.com/agrimart/agrimart-gateway/internal/handler"
	mid "github.com/agrimart/agrimart-gateway/internal/middleware"
	"github.com/agrimart/agrimart-gateway/internal/notify"
	"github.com/agrimart/agrimart-gateway/pkg/cache"
	"github.com/agrimart/agrimart-gateway/pkg/config"
	"github.com/agrimart/agrimart-gateway/pkg/logger"
	"github.com/agrimart/agrimart-gateway/pkg/session"
	"github.com/agrimart/agrimart-gateway/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("agrimart-gateway")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting agrimart-gateway", appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Session token verifier
	verifier := session.NewVerifier(appConfig.JWT.SigningKey)

	// Redis cache for offer lookups
	offerCache := cache.New(&redis.Options{
		Addr:     appConfig.Cache.Addr,
		Password: appConfig.Cache.Password,
		DB:       appConfig.Cache.DB,
	})

	// Marketplace backend client and dashboard engines
	client := backend.NewClient(appConfig.Backend, log)
	dashboards := buildDashboards(client, offerCache, appConfig, log)
	h := handler.New(dashboards)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Dashboard API routes - Apply auth middleware to validate the session token
	api := e.Group("/api", mid.AuthMiddleware(verifier))
	api.GET("/:collection/catalog", h.GetCatalog)
	api.POST("/:collection/catalog/:id/:action", h.Mutate)

	// Background poller keeps the shared market catalog fresh
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if market, ok := dashboards["market-products"]; ok {
		poller := notify.New("market-products", appConfig.Engine.PollInterval, market.Refresh, log)
		go poller.Run(ctx)
	}

	// Start server
	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}
