// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"placement-analytics/internal/api"
	"placement-analytics/internal/common/camunda"
	"placement-analytics/internal/common/config"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/common/observability"
	"placement-analytics/internal/common/validation"
	"placement-analytics/internal/dataset"
	"placement-analytics/internal/reporting"
	"placement-analytics/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Analytics.Store),
	)

	obs, err := observability.New(cfg.Observability.ServiceName, observability.Options{
		Tracing: observability.TracingOptions{
			Enabled:        cfg.Observability.TracingEnabled,
			JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		},
	})
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Activity registry and schemas ---
	reg, err := registry.LoadRegistry(cfg.Analytics.RegistryPath)
	if err != nil {
		zapLog.Fatal("registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("registry is invalid", zap.Error(err))
	}
	schemas, err := validation.NewSchemaSet(reg)
	if err != nil {
		zapLog.Fatal("schema compilation failed", zap.Error(err))
	}

	// --- Backing services ---
	deps, err := connect(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("dependency setup failed", zap.Error(err))
	}
	defer deps.Close(zapLog)

	reports := reporting.NewService(
		dataset.NewLoader(deps.store, config.GetDuration(cfg.Analytics.LoadTimeout), log),
		log,
		reporting.Options{
			Cache:           deps.cache,
			Snapshots:       deps.snapshots,
			Schemas:         schemas,
			Observability:   obs,
			TrendSeed:       cfg.Analytics.TrendSeed,
			ComparisonLimit: cfg.Analytics.DefaultComparisonLimit,
		},
	)

	// --- Zeebe client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")
	deps.checks = append(deps.checks, zeebe)

	workers := camunda.NewWorkers(zeebe.GetClient(), log)
	started := registerWorkers(workers, cfg, reg, reports, deps, camunda.Deps{
		Schemas:       schemas,
		Observability: obs,
		Logger:        log,
	})
	zapLog.Info("Workers registered", zap.Int("running", started))

	// --- HTTP API ---
	var searcher api.SnapshotSearcher
	if deps.indexer != nil {
		searcher = deps.indexer
	}
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewHandler(reports, searcher, deps.checks, log).Routes(),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	workers.Stop()
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
