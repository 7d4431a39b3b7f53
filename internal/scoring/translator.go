package scoring

import (
	"math"

	"altcred/internal/models"
)

// Score range endpoints.
const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

// CreditScore maps a probability of default linearly onto [300, 900],
// truncating toward negative infinity.
func CreditScore(p float64) int {
	return int(math.Floor(MinCreditScore + (1-p)*(MaxCreditScore-MinCreditScore)))
}

// RiskCategory buckets p. Threshold values belong to the upper bucket.
func RiskCategory(p float64) string {
	switch {
	case p < 0.25:
		return models.RiskLow
	case p < 0.6:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// LoanDecision applies the decision rules in priority order.
func LoanDecision(score int, p float64) string {
	switch {
	case score >= 750 && p < 0.2:
		return models.DecisionAutoApproved
	case score >= 600:
		return models.DecisionManualReview
	default:
		return models.DecisionConditionalApprove
	}
}

// Translate derives the full scoring result from p.
func Translate(p float64) models.ScoringResult {
	score := CreditScore(p)
	return models.ScoringResult{
		CreditScore:          score,
		RiskCategory:         RiskCategory(p),
		LoanDecision:         LoanDecision(score, p),
		ProbabilityOfDefault: p,
	}
}
