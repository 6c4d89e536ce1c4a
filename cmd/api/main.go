package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/clothing-store/internal/api"
	"github.com/example/clothing-store/internal/app"
	"github.com/example/clothing-store/internal/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to start store")
	}
	logger := a.Logger.WithField("component", "api")

	handlers := api.NewHandlers(a.Store, a.Generator, a.Logger)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handlers, a.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithFields(log.Fields{
			"addr":    cfg.HTTPAddr,
			"storage": cfg.Storage,
			"ai":      a.Generator.Available(),
		}).Info("server started")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown")
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.WithError(err).Warn("store shutdown")
	}
}
