// cmd/scoring-api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"altcred/internal/api"
	"altcred/internal/common/camunda"
	"altcred/internal/common/config"
	"altcred/internal/common/database"
	"altcred/internal/common/logger"
	"altcred/internal/common/metrics"
	"altcred/internal/common/observability"
	"altcred/internal/inference"
	"altcred/internal/profiles"
	"altcred/internal/scoring"

	sa "altcred/internal/workers/credit/score-applicant"
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
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	zapLog.Info("Starting scoring API...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Estimator, chosen once for the process lifetime ---
	estimator := scoring.LoadEstimator(cfg.Model.Path, log)
	metrics.SetEstimatorMode(estimator.Mode(), scoring.Modes()...)
	service := inference.NewService(estimator, log)

	var checks []api.ReadinessCheck

	// --- Sample profiles: Redis when enabled, built-ins otherwise ---
	var store profiles.Store = profiles.NewStaticStore()
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		redisStore := profiles.NewRedisStore(rdb.Client, cfg.Profiles.RedisKey, log)
		if cfg.Profiles.SeedOnBoot {
			if err := redisStore.Seed(ctx, profiles.Defaults()); err != nil {
				zapLog.Fatal("sample profile seeding failed", zap.Error(err))
			}
		}
		store = redisStore
		checks = append(checks, api.ReadinessCheck{Name: "redis", Check: rdb.Ping})
	}

	// --- Dataset database, reported by /ready ---
	if cfg.Database.Postgres.Enabled {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres client setup failed", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Ping(ctx); err != nil {
			zapLog.Warn("PostgreSQL not reachable yet", zap.Error(err))
		} else {
			zapLog.Info("PostgreSQL connected successfully")
		}
		checks = append(checks, api.ReadinessCheck{Name: "postgres", Check: pg.Ping})
	}

	// --- Zeebe job worker ---
	var (
		zeebeClient *camunda.Client
		jobWorker   worker.JobWorker
	)
	if cfg.Camunda.Enabled && config.IsWorkerEnabled(cfg, sa.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		wcfg := config.GetWorkerConfig(cfg, sa.TaskType)
		handler := sa.NewHandler(sa.LoadConfig(wcfg), service, obs, log).WithRetrier(zeebeClient)
		jobWorker = camunda.StartWorker(zeebeClient.GetClient(), sa.TaskType, wcfg, handler.Handle, zapLog)
		checks = append(checks, api.ReadinessCheck{Name: "zeebe", Check: zeebeClient.HealthCheck})
	} else if cfg.Camunda.Enabled {
		zapLog.Info("score-applicant worker disabled by configuration")
	}

	// --- HTTP API ---
	server := api.New(cfg.Server, service, store, obs, log, checks...)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping...")
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Scoring API stopped gracefully")
}
