// Package inference is the single entry point for scoring an applicant:
// it validates the raw payload, runs the estimator and shapes the result.
package inference

import (
	"context"
	"math"

	"altcred/internal/common/errors"
	"altcred/internal/common/logger"
	"altcred/internal/common/validation"
	"altcred/internal/models"
	"altcred/internal/scoring"
)

// Service is stateless apart from the immutable estimator it is built with.
type Service struct {
	estimator scoring.ProbabilityEstimator
	validator *validation.FeatureValidator
	logger    logger.Logger
}

func NewService(estimator scoring.ProbabilityEstimator, log logger.Logger) *Service {
	return &Service{
		estimator: estimator,
		validator: validation.MustFeatureValidator(),
		logger:    log.WithFields(map[string]interface{}{"component": "inference"}),
	}
}

// Mode reports which estimator serves requests.
func (s *Service) Mode() string {
	return s.estimator.Mode()
}

// Score validates raw and scores it. Exactly one of the return values is
// non-nil.
func (s *Service) Score(ctx context.Context, raw map[string]interface{}) (*models.ScoringResult, *errors.StandardError) {
	features, verr := s.validator.Validate(raw)
	if verr != nil {
		s.logger.Debug("applicant rejected", map[string]interface{}{
			"errorCode": string(verr.Code),
			"field":     verr.Field(),
		})
		return nil, verr
	}
	return s.ScoreVector(ctx, features)
}

// ScoreVector scores an already validated feature vector.
func (s *Service) ScoreVector(_ context.Context, features models.FeatureVector) (*models.ScoringResult, *errors.StandardError) {
	p := s.estimator.Estimate(features)
	if math.IsNaN(p) || p < 0 || p > 1 {
		s.logger.Error("estimator returned invalid probability", map[string]interface{}{
			"probability": p,
			"mode":        s.estimator.Mode(),
		})
		return nil, errors.NewScoringFailedError("probability outside [0, 1]")
	}

	result := scoring.Translate(p)
	s.logger.Debug("applicant scored", map[string]interface{}{
		"creditScore":  result.CreditScore,
		"riskCategory": result.RiskCategory,
		"mode":         s.estimator.Mode(),
	})
	return &result, nil
}
