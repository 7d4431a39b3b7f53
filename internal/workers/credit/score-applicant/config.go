// internal/workers/credit/score-applicant/config.go
package scoreapplicant

import (
	"time"

	"altcred/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig derives the per-job timeout from the worker settings.
func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{Timeout: timeout}
}
