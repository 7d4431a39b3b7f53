// cmd/tools/model-trainer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"altcred/internal/common/config"
	"altcred/internal/common/database"
	"altcred/internal/common/logger"
	"altcred/internal/models"
	"altcred/internal/scoring"
	"altcred/internal/training"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml lookup)")
	data := flag.String("data", "", "Training CSV (default from training.dataset_path)")
	fromPostgres := flag.Bool("postgres", false, "Read the dataset from the synthetic_applicants table instead of CSV")
	out := flag.String("out", "", "Model artifact path (default from model.path / MODEL_PATH; one of them is required)")
	trees := flag.Int("trees", 0, "Number of trees (default from training.trees)")
	depth := flag.Int("max-depth", 0, "Maximum tree depth (default from training.max_depth)")
	workers := flag.Int("workers", 0, "Trees grown in parallel (default from training.workers)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console", "stderr")
	defer zapLog.Sync()

	path, err := resolveModelPath(*out, cfg.Model.Path)
	if err != nil {
		zapLog.Fatal("no output path", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	rows, source, err := loadDataset(ctx, cfg, *data, *fromPostgres)
	if err != nil {
		zapLog.Fatal("dataset load failed", zap.Error(err))
	}
	zapLog.Info("dataset loaded", zap.String("source", source), zap.Int("rows", len(rows)))

	train, test, err := training.StratifiedSplit(rows, cfg.Training.TestSize, cfg.Training.Seed)
	if err != nil {
		zapLog.Fatal("split failed", zap.Error(err))
	}

	forestCfg := training.ForestConfig{
		Trees:          cfg.Training.Trees,
		MaxDepth:       cfg.Training.MaxDepth,
		MinSamplesLeaf: cfg.Training.MinSamplesLeaf,
		Seed:           cfg.Training.Seed,
		Workers:        cfg.Training.Workers,
	}
	if *trees > 0 {
		forestCfg.Trees = *trees
	}
	if *depth > 0 {
		forestCfg.MaxDepth = *depth
	}
	if *workers > 0 {
		forestCfg.Workers = *workers
	}

	start := time.Now()
	forest, err := training.TrainForest(ctx, train, forestCfg)
	if err != nil {
		zapLog.Fatal("training failed", zap.Error(err))
	}
	zapLog.Info("forest trained",
		zap.Int("trees", len(forest.Trees)),
		zap.Int("trainRows", len(train)),
		zap.Duration("took", time.Since(start)),
	)

	est, err := scoring.NewForestEstimator(forest)
	if err != nil {
		zapLog.Fatal("trained forest is invalid", zap.Error(err))
	}
	report, err := training.Evaluate(est, test)
	if err != nil {
		zapLog.Fatal("evaluation failed", zap.Error(err))
	}

	fmt.Println("Classification report (hold-out set)")
	fmt.Println()
	fmt.Print(report.String())
	fmt.Println()
	fmt.Println("Global feature importance (mean decrease in impurity)")
	for i, name := range models.FeatureNames() {
		fmt.Printf("  %-22s %.4f\n", name, forest.FeatureImportances[i])
	}

	if err := writeModel(path, forest); err != nil {
		zapLog.Fatal("model write failed", zap.String("path", path), zap.Error(err))
	}
	zapLog.Info("model artifact written", zap.String("path", path), zap.Float64("accuracy", report.Accuracy))
}

// resolveModelPath prefers the -out flag over model.path.
func resolveModelPath(out, configured string) (string, error) {
	if out != "" {
		return out, nil
	}
	if configured != "" {
		return configured, nil
	}
	return "", fmt.Errorf("set -out or model.path (MODEL_PATH) to the artifact scoring-api loads")
}

func loadDataset(ctx context.Context, cfg *config.Config, csvPath string, fromPostgres bool) ([]models.LabeledApplicant, string, error) {
	if !fromPostgres {
		if csvPath == "" {
			csvPath = cfg.Training.DatasetPath
		}
		rows, err := training.LoadCSV(csvPath)
		return rows, csvPath, err
	}

	if !cfg.Database.Postgres.Enabled {
		return nil, "", fmt.Errorf("-postgres requires database.postgres.enabled")
	}
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, "", err
	}
	defer pg.Close()

	rows, err := training.NewPostgresStore(pg).Load(ctx)
	return rows, training.DatasetTable, err
}

func writeModel(path string, forest *scoring.Forest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := scoring.WriteForest(file, forest); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
