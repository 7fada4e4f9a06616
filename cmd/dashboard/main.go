package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecsitomi/donki-dashboard/internal/adapter/donki"
	httpadapter "github.com/ecsitomi/donki-dashboard/internal/adapter/http"
	kafkaadapter "github.com/ecsitomi/donki-dashboard/internal/adapter/kafka"
	"github.com/ecsitomi/donki-dashboard/internal/config"
	"github.com/ecsitomi/donki-dashboard/internal/dashboard"
	"github.com/ecsitomi/donki-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := donki.NewClient(cfg.NASAAPIKey, cfg.DONKIBaseURL, cfg.DONKITimeout, metrics, logger)

	// Event feed is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher dashboard.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.FeedEnabled.Set(1)
		logger.Info("kafka event feed enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka event feed disabled")
	}

	controller := dashboard.New(client, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, controller, controller, cfg.DefaultWindowDays, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
