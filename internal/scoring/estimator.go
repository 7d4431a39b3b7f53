// Package scoring turns an applicant feature vector into a probability of
// default and derives the credit score, risk category and loan decision.
package scoring

import "altcred/internal/models"

// Estimator modes reported by ProbabilityEstimator.Mode.
const (
	ModeModel      = "model"
	ModeSimulation = "simulation"
)

// Modes lists every estimator mode.
func Modes() []string {
	return []string{ModeModel, ModeSimulation}
}

// ProbabilityEstimator produces the probability of default for one applicant.
// Implementations are immutable and safe for concurrent use.
type ProbabilityEstimator interface {
	Estimate(features models.FeatureVector) float64
	Mode() string
}
