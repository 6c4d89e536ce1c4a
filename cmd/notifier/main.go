package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/clothing-store/internal/config"
	"github.com/example/clothing-store/internal/email"
	"github.com/example/clothing-store/internal/infrastructure/kafka"
	"github.com/example/clothing-store/internal/notification"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if !cfg.PublishEvents() {
		log.Fatal("KAFKA_BROKERS is required")
	}

	logger := cfg.NewLogger()
	logger.WithFields(log.Fields{
		"component": "notifier",
		"brokers":   cfg.KafkaBrokers,
		"topic":     cfg.KafkaTopic,
		"group":     cfg.KafkaGroup,
		"smtp":      cfg.SMTPHost + ":" + cfg.SMTPPort,
		"to":        cfg.ShopEmail,
	}).Info("starting notification service")

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc, cfg.ShopEmail, logger)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, logger)
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("consumer stopped")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-done:
	}

	logger.Info("shutting down")
	cancel()
	<-done
}
