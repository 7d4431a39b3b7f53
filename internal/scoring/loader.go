package scoring

import (
	"os"
	"path/filepath"

	"altcred/internal/common/errors"
	"altcred/internal/common/logger"
)

// DefaultModelFile is the artifact name looked up beside the executable.
const DefaultModelFile = "model.json"

// DefaultModelPath returns model.json in the directory of the running binary.
func DefaultModelPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultModelFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultModelFile)
}

// LoadForest reads and validates the artifact at path.
func LoadForest(path string) (*Forest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadForest(file)
}

// LoadEstimator picks the estimator for the process lifetime. A usable
// artifact at path yields the forest estimator; anything else falls back to
// the simulation formula. An empty path means DefaultModelPath.
func LoadEstimator(path string, log logger.Logger) ProbabilityEstimator {
	if path == "" {
		path = DefaultModelPath()
	}

	forest, err := LoadForest(path)
	if err == nil {
		var est *ForestEstimator
		if est, err = NewForestEstimator(forest); err == nil {
			log.Info("classifier artifact loaded", map[string]interface{}{
				"path":  path,
				"trees": est.Trees(),
				"mode":  est.Mode(),
			})
			return est
		}
	}

	loadErr := errors.NewModelLoadFailedError(path, err)
	fields := map[string]interface{}{
		"path":      path,
		"errorCode": string(loadErr.Code),
		"details":   loadErr.Details,
		"mode":      ModeSimulation,
	}
	if os.IsNotExist(err) {
		log.Info("no classifier artifact found, using simulation estimator", fields)
	} else {
		log.Warn("classifier artifact unusable, using simulation estimator", fields)
	}
	return NewSimulationEstimator()
}
