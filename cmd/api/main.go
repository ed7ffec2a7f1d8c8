package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/payfuse/payment-gateway/internal/adapter/primary/http"
	"github.com/payfuse/payment-gateway/internal/adapter/secondary/database"
	"github.com/payfuse/payment-gateway/internal/adapter/secondary/messaging"
	"github.com/payfuse/payment-gateway/internal/config"
	"github.com/payfuse/payment-gateway/internal/constant/model/db"
	"github.com/payfuse/payment-gateway/internal/core/service"
	"github.com/payfuse/payment-gateway/internal/provider"
	"github.com/payfuse/payment-gateway/internal/provider/algorand"
	"github.com/payfuse/payment-gateway/internal/provider/mtn"
	"github.com/payfuse/payment-gateway/internal/provider/orange"
	"github.com/payfuse/payment-gateway/internal/provider/wave"
	"github.com/payfuse/payment-gateway/pkg/security"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize secondary adapter: Database
	dbConn, err := db.NewDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbConn.Close()

	// Initialize secondary adapters: Repositories and Messaging
	paymentRepo := database.NewGormPaymentRepository(dbConn.DB)
	webhookRepo := database.NewGormWebhookRepository(dbConn.DB)

	msgClient, err := messaging.NewRabbitMQClient(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer msgClient.Close()

	// Provider registry, built once and read-only afterwards
	registry := provider.NewRegistry(
		orange.New(cfg.OrangeMoney, cfg.Webhook.SigningSecret),
		wave.New(cfg.Wave),
		mtn.New(cfg.MTNMoMo),
		algorand.New(cfg.Algorand),
	)

	// Rate limiter: shared Redis counter when configured, process-local
	// window otherwise
	var limiter security.RateLimiter = security.NewMemoryRateLimiter()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = security.NewRedisRateLimiter(redisClient)
		logger.Info("using redis rate limiter", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize core services
	gatewayService := service.NewGatewayService(paymentRepo, registry, logger)
	webhookService := service.NewWebhookService(webhookRepo)
	webhookProcessor := service.NewWebhookProcessor(paymentRepo, registry, msgClient, cfg.Webhook.SigningSecret, logger)

	// Initialize primary adapters: HTTP handlers
	paymentHandler := http.NewPaymentHandler(gatewayService, logger)
	webhookHandler := http.NewWebhookHandler(webhookService)
	callbackHandler := http.NewCallbackHandler(webhookProcessor, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api/v1")
	api.Use(http.RateLimitMiddleware(limiter, 100, time.Minute, logger))

	api.POST("/payments", paymentHandler.CreatePayment)
	api.GET("/payments", paymentHandler.ListPayments)
	api.GET("/payments/:id", paymentHandler.GetPayment)
	api.GET("/payments/:id/status", paymentHandler.CheckStatus)
	api.GET("/providers", paymentHandler.ListProviders)

	api.POST("/callbacks/:provider", callbackHandler.HandleCallback)

	// Endpoint management mutates merchant state, so it sits behind JWT auth
	// when a secret is configured.
	webhooks := api.Group("/webhooks")
	if cfg.Server.JWTSecret != "" {
		webhooks.Use(http.AuthMiddleware(cfg.Server.JWTSecret, logger))
	}
	webhooks.POST("", webhookHandler.CreateWebhook)
	webhooks.GET("", webhookHandler.ListWebhooks)
	webhooks.GET("/:id", webhookHandler.GetWebhook)
	webhooks.PUT("/:id", webhookHandler.UpdateWebhook)
	webhooks.DELETE("/:id", webhookHandler.DeleteWebhook)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("starting API server",
		zap.String("addr", addr),
		zap.String("environment", cfg.Server.Env),
		zap.Strings("providers", registry.SupportedProviders()))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
