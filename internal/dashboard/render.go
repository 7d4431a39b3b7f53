package dashboard

import (
	stderrors "errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"altcred/internal/common/errors"
	commonhttp "altcred/internal/common/http"
	"altcred/internal/models"
	"altcred/internal/scoring"
)

// Band is a credit rating range on the gauge. Upper is exclusive except for
// the last band.
type Band struct {
	Name  string
	Lower int
	Upper int
}

// Bands returns the rating bands in ascending order.
func Bands() []Band {
	return []Band{
		{"Poor", 300, 500},
		{"Fair", 500, 650},
		{"Good", 650, 750},
		{"Very Good", 750, 850},
		{"Excellent", 850, 900},
	}
}

// Rating names the band a credit score falls in.
func Rating(score int) string {
	switch {
	case score < 500:
		return "Poor"
	case score < 650:
		return "Fair"
	case score < 750:
		return "Good"
	case score < 850:
		return "Very Good"
	default:
		return "Excellent"
	}
}

// FeatureImpact is the simulated contribution of one input.
type FeatureImpact struct {
	Feature string
	Score   float64
}

// Impacts weighs each raw value by the sum of all values plus one, largest
// first. It is illustrative only and ignores the classifier.
func Impacts(fv models.FeatureVector) []FeatureImpact {
	names := models.FeatureNames()
	values := fv.Values()

	total := 1.0
	for _, v := range values {
		total += v
	}

	out := make([]FeatureImpact, len(values))
	for i, v := range values {
		out[i] = FeatureImpact{Feature: names[i], Score: v / total}
	}
	slices.SortStableFunc(out, func(a, b FeatureImpact) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Explanation is the canned narrative shown under the impact chart.
func Explanation(risk string) []string {
	return []string{
		"Higher income and consistent UPI usage improved creditworthiness",
		"Strong bill payment and recharge behavior reduced default risk",
		"E-commerce spending compared to income was evaluated",
		fmt.Sprintf("Overall AI detected %s financial behavior", risk),
	}
}

// Gauge draws the score on a width-character scale from 300 to 900 with
// band boundaries marked by '|'.
func Gauge(score, width int) string {
	if width < 10 {
		width = 10
	}
	span := float64(scoring.MaxCreditScore - scoring.MinCreditScore)
	pos := func(v int) int {
		p := int(float64(v-scoring.MinCreditScore) / span * float64(width))
		return min(max(p, 0), width)
	}

	bar := []rune(strings.Repeat(".", width))
	for i := 0; i < pos(score); i++ {
		bar[i] = '#'
	}
	for _, b := range Bands()[1:] {
		if p := pos(b.Lower); p < width {
			bar[p] = '|'
		}
	}

	marker := strings.Repeat(" ", min(pos(score), width-1)) + "^"
	return fmt.Sprintf("%d [%s] %d\n%s %s %d",
		scoring.MinCreditScore, string(bar), scoring.MaxCreditScore,
		strings.Repeat(" ", len(fmt.Sprint(scoring.MinCreditScore))+1), marker, score)
}

// Render writes the full assessment for one applicant.
func Render(w io.Writer, fv models.FeatureVector, res *models.ScoringResult) {
	fmt.Fprintln(w, "AI Credit Assessment Result")
	fmt.Fprintln(w, strings.Repeat("-", 27))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "AI Credit Score (%d - %d)\n", scoring.MinCreditScore, scoring.MaxCreditScore)
	fmt.Fprintln(w, Gauge(res.CreditScore, 60))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Credit Rating:          %s\n", Rating(res.CreditScore))
	fmt.Fprintf(w, "Risk Category:          %s\n", res.RiskCategory)
	fmt.Fprintf(w, "Loan Decision:          %s\n", res.LoanDecision)
	fmt.Fprintf(w, "Probability of Default: %.2f%%\n", res.ProbabilityOfDefault*100)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Feature Contribution to Credit Score (AI Simulated)")
	for _, imp := range Impacts(fv) {
		fmt.Fprintf(w, "  %-22s %.4f %s\n", imp.Feature, imp.Score, strings.Repeat("=", int(imp.Score*40)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "AI Explanation")
	for _, line := range Explanation(res.RiskCategory) {
		fmt.Fprintf(w, "  * %s\n", line)
	}
}

// RenderProfile prints a sample profile's inputs.
func RenderProfile(w io.Writer, p models.SampleProfile) {
	fmt.Fprintf(w, "%s [%s]\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	m := p.Features.Map()
	for _, name := range models.FeatureNames() {
		fmt.Fprintf(w, "  %-22s %v\n", name, m[name])
	}
}

// ErrorMessage formats a client failure for display: API error payloads as
// "API Error: <msg>" and everything else as "API request failed: <err>".
func ErrorMessage(err error) string {
	var apiErr *commonhttp.APIError
	if stderrors.As(err, &apiErr) {
		return "API Error: " + apiErr.Message
	}
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) && stdErr.Code == errors.ErrCodeUpstreamUnavailable {
		return "API request failed: " + stdErr.Details
	}
	return fmt.Sprintf("API request failed: %v", err)
}
