package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/productfilter/backend/config"
	httpDelivery "github.com/productfilter/backend/internal/delivery/http"
	"github.com/productfilter/backend/internal/infrastructure/logger"
	"github.com/productfilter/backend/internal/infrastructure/metrics"
	"github.com/productfilter/backend/internal/infrastructure/source"
	"github.com/productfilter/backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "productfilter",
		Short:         "Product filter API server",
		Long:          "Serves the upstream product catalog filtered by price and size, with highlighted descriptions and summary metadata.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return run(cfg)
		},
	}

	cmd.Flags().String("port", "8080", "Port to listen on")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func run(cfg *config.Config) error {
	zlog, cleanup, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer cleanup()

	zlog.Info("Starting ProductFilter Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("source_url", cfg.Source.URL),
		zap.Duration("source_timeout", cfg.Source.Timeout),
		zap.Int("common_words_skip", cfg.Metadata.CommonWordsSkip),
		zap.Int("common_words_take", cfg.Metadata.CommonWordsTake),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	sourceClient, err := source.NewClient(source.Config{
		URL:          cfg.Source.URL,
		PrimaryKey:   cfg.Source.PrimaryKey,
		SecondaryKey: cfg.Source.SecondaryKey,
		Timeout:      cfg.Source.Timeout,
		RateLimit:    cfg.Source.RateLimit,
		RateBurst:    cfg.Source.RateBurst,
	}, zlog.Named("source"))
	if err != nil {
		return fmt.Errorf("failed to create source client: %w", err)
	}

	productService := usecase.NewProductService(
		sourceClient,
		recorder,
		usecase.ProductServiceConfig{
			Metadata: usecase.MetadataConfig{
				CommonWordsSkip: cfg.Metadata.CommonWordsSkip,
				CommonWordsTake: cfg.Metadata.CommonWordsTake,
			},
		},
		zlog.Named("pipeline"),
	)

	handler := httpDelivery.NewHandler(productService, zlog.Named("http"))
	router := httpDelivery.SetupRouter(
		cfg,
		handler,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		zlog.Named("http"),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case sig := <-signalCh:
		zlog.Info("Received signal", zap.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	zlog.Info("Server stopped")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
