// internal/workers/credit/score-applicant/models.go
package scoreapplicant

type Input struct {
	ApplicationID string                 `json:"applicationId"`
	Applicant     map[string]interface{} `json:"applicant"`
}

// Output variable names match the HTTP response fields.
type Output struct {
	CreditScore          int     `json:"credit_score"`
	RiskCategory         string  `json:"risk_category"`
	LoanDecision         string  `json:"loan_decision"`
	ProbabilityOfDefault float64 `json:"probability_of_default"`
}
