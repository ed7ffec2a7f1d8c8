package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payfuse/payment-gateway/internal/adapter/secondary/database"
	"github.com/payfuse/payment-gateway/internal/adapter/secondary/messaging"
	"github.com/payfuse/payment-gateway/internal/config"
	"github.com/payfuse/payment-gateway/internal/constant/model/db"
	"github.com/payfuse/payment-gateway/internal/core/service"
	"github.com/payfuse/payment-gateway/internal/port/output"
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

	// Initialize secondary adapter: Repository
	webhookRepo := database.NewGormWebhookRepository(dbConn.DB)

	// Initialize core service: delivery dispatcher
	dispatcher := service.NewWebhookDispatcher(webhookRepo, cfg.Webhook.SigningSecret, logger)

	// Initialize secondary adapter: Messaging (concrete type for worker)
	msgClient, err := messaging.NewRabbitMQClientConcrete(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer msgClient.Close()

	// Start consuming delivery jobs
	err = msgClient.ConsumeDeliveries(func(job output.DeliveryJob) error {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return dispatcher.Dispatch(ctx, job)
	})
	if err != nil {
		logger.Fatal("failed to start consuming delivery jobs", zap.Error(err))
	}

	logger.Info("webhook delivery worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker")
}
