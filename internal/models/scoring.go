// internal/models/scoring.go
package models

// Risk categories.
const (
	RiskLow    = "Low Risk"
	RiskMedium = "Medium Risk"
	RiskHigh   = "High Risk"
)

// Loan decisions.
const (
	DecisionAutoApproved       = "Auto Approved"
	DecisionManualReview       = "Manual Review Required"
	DecisionConditionalApprove = "Conditional Approval (Low Limit / High Interest)"
)

// ScoringResult is derived per request and never stored. Field order is the
// wire order.
type ScoringResult struct {
	CreditScore          int     `json:"credit_score"`
	RiskCategory         string  `json:"risk_category"`
	LoanDecision         string  `json:"loan_decision"`
	ProbabilityOfDefault float64 `json:"probability_of_default"`
}

// ErrorResponse is the failure body of the scoring endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SampleProfile is a named, ready-made applicant used by the dashboard.
type SampleProfile struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Features    FeatureVector `json:"features"`
}
