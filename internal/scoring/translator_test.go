package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"altcred/internal/models"
)

func TestCreditScore(t *testing.T) {
	tests := []struct {
		p    float64
		want int
	}{
		{0, 900},
		{1, 300},
		{0.5, 600},
		{0.25, 750},
		{0.1, 840},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CreditScore(tt.p), "p=%v", tt.p)
	}
}

func TestCreditScore_MonotonicAndBounded(t *testing.T) {
	prev := CreditScore(0)
	for i := 1; i <= 1000; i++ {
		p := float64(i) / 1000
		score := CreditScore(p)
		assert.LessOrEqual(t, score, prev, "p=%v", p)
		assert.GreaterOrEqual(t, score, MinCreditScore)
		assert.LessOrEqual(t, score, MaxCreditScore)
		prev = score
	}
}

func TestRiskCategory_Boundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, models.RiskLow},
		{0.24999, models.RiskLow},
		{0.25, models.RiskMedium},
		{0.59999, models.RiskMedium},
		{0.6, models.RiskHigh},
		{1, models.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskCategory(tt.p), "p=%v", tt.p)
	}
}

func TestLoanDecision_Priority(t *testing.T) {
	tests := []struct {
		name  string
		score int
		p     float64
		want  string
	}{
		{"high score low probability", 800, 0.1, models.DecisionAutoApproved},
		{"high score but probability too high", 800, 0.25, models.DecisionManualReview},
		{"mid score", 650, 0.5, models.DecisionManualReview},
		{"low score", 400, 0.8, models.DecisionConditionalApprove},
		{"score boundary 750", 750, 0.19, models.DecisionAutoApproved},
		{"probability boundary 0.2", 760, 0.2, models.DecisionManualReview},
		{"score boundary 600", 600, 0.5, models.DecisionManualReview},
		{"just below 600", 599, 0.5, models.DecisionConditionalApprove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoanDecision(tt.score, tt.p))
		})
	}
}

func TestTranslate(t *testing.T) {
	got := Translate(0.5)
	assert.Equal(t, models.ScoringResult{
		CreditScore:          600,
		RiskCategory:         models.RiskMedium,
		LoanDecision:         models.DecisionManualReview,
		ProbabilityOfDefault: 0.5,
	}, got)

	assert.Equal(t, models.DecisionAutoApproved, Translate(0).LoanDecision)
	assert.Equal(t, models.DecisionConditionalApprove, Translate(1).LoanDecision)
}
