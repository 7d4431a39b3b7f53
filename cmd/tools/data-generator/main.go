// cmd/tools/data-generator/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"altcred/internal/common/config"
	"altcred/internal/common/database"
	"altcred/internal/common/logger"
	"altcred/internal/training"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml lookup)")
	rows := flag.Int("rows", 0, "Number of applicants to generate (default from training.rows)")
	seed := flag.Uint64("seed", 0, "Random seed (default from training.seed)")
	out := flag.String("out", "", "CSV output path (default from training.dataset_path)")
	toPostgres := flag.Bool("postgres", false, "Also replace the synthetic_applicants table (requires database.postgres)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console", "stderr")
	defer zapLog.Sync()

	genCfg := training.GeneratorConfig{Rows: cfg.Training.Rows, Seed: cfg.Training.Seed}
	if *rows > 0 {
		genCfg.Rows = *rows
	}
	if *seed > 0 {
		genCfg.Seed = *seed
	}
	path := cfg.Training.DatasetPath
	if *out != "" {
		path = *out
	}

	start := time.Now()
	data := training.Generate(genCfg)

	defaults := 0
	for _, row := range data {
		if row.LoanDefault {
			defaults++
		}
	}

	if err := training.SaveCSV(path, data); err != nil {
		zapLog.Fatal("dataset write failed", zap.Error(err))
	}
	zapLog.Info("synthetic dataset written",
		zap.String("path", path),
		zap.Int("rows", len(data)),
		zap.Int("defaults", defaults),
		zap.Uint64("seed", genCfg.Seed),
		zap.Duration("took", time.Since(start)),
	)

	if !*toPostgres {
		return
	}
	if !cfg.Database.Postgres.Enabled {
		zapLog.Fatal("-postgres requires database.postgres.enabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	store := training.NewPostgresStore(pg)
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema setup failed", zap.Error(err))
	}
	if err := store.Replace(ctx, data); err != nil {
		zapLog.Fatal("dataset insert failed", zap.Error(err))
	}
	zapLog.Info("synthetic dataset stored", zap.String("table", training.DatasetTable), zap.Int("rows", len(data)))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
