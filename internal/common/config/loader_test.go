package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: test-scoring\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-scoring", cfg.App.Name)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, ":9000", cfg.Server.Addr())
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "altcred:sample-profiles", cfg.Profiles.RedisKey)
	assert.Equal(t, 10000, cfg.Training.Rows)
	assert.Equal(t, uint64(42), cfg.Training.Seed)
	assert.Equal(t, 0.2, cfg.Training.TestSize)
	assert.Equal(t, 400, cfg.Training.Trees)
	assert.Equal(t, 10, cfg.Training.MaxDepth)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_MODEL_LOCATION", "/opt/altcred/model.json")
	path := writeConfig(t, "model:\n  path: ${TEST_MODEL_LOCATION}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/altcred/model.json", cfg.Model.Path)
}

func TestLoadFromFile_UnsetPlaceholderBecomesEmpty(t *testing.T) {
	t.Setenv("MODEL_PATH", "")
	path := writeConfig(t, "model:\n  path: ${ALTCRED_TEST_UNSET_VAR}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Model.Path)
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	path := writeConfig(t, "workers:\n  score-applicant:\n    enabled: false\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, WorkerScoreApplicant)
	assert.False(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 3, w.MaxRetries)
	assert.False(t, IsWorkerEnabled(cfg, WorkerScoreApplicant))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "camunda enabled without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "postgres enabled without host",
			body:    "database:\n  postgres:\n    enabled: true\n    database: altcred\n    user: u\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "redis enabled without address",
			body:    "database:\n  redis:\n    enabled: true\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "test size out of range",
			body:    "training:\n  test_size: 1.5\n",
			wantErr: "training.test_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
