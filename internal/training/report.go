package training

import (
	"fmt"
	"strings"

	"altcred/internal/models"
	"altcred/internal/scoring"
)

// DecisionThreshold is the probability above which a row is predicted to
// default.
const DecisionThreshold = 0.5

// ClassMetrics holds per-class precision, recall and F1.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport summarizes hold-out performance.
type ClassificationReport struct {
	Classes     [2]ClassMetrics `json:"classes"`
	Accuracy    float64         `json:"accuracy"`
	MacroAvg    ClassMetrics    `json:"macro_avg"`
	WeightedAvg ClassMetrics    `json:"weighted_avg"`
	Total       int             `json:"total"`
}

// Evaluate predicts each row with estimator and tallies the results.
func Evaluate(estimator scoring.ProbabilityEstimator, rows []models.LabeledApplicant) (*ClassificationReport, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no evaluation rows")
	}

	// confusion[actual][predicted]
	var confusion [2][2]int
	for _, row := range rows {
		p := estimator.Estimate(row.Features)
		predicted := 0
		if p > DecisionThreshold {
			predicted = 1
		}
		actual := 0
		if row.LoanDefault {
			actual = 1
		}
		confusion[actual][predicted]++
	}

	report := &ClassificationReport{Total: len(rows)}
	correct := 0
	for c := 0; c < 2; c++ {
		tp := confusion[c][c]
		predicted := confusion[0][c] + confusion[1][c]
		support := confusion[c][0] + confusion[c][1]
		correct += tp

		m := ClassMetrics{Support: support}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes[c] = m
	}
	report.Accuracy = float64(correct) / float64(len(rows))

	for _, m := range report.Classes {
		report.MacroAvg.Precision += m.Precision / 2
		report.MacroAvg.Recall += m.Recall / 2
		report.MacroAvg.F1 += m.F1 / 2

		w := float64(m.Support) / float64(len(rows))
		report.WeightedAvg.Precision += m.Precision * w
		report.WeightedAvg.Recall += m.Recall * w
		report.WeightedAvg.F1 += m.F1 * w
	}
	report.MacroAvg.Support = len(rows)
	report.WeightedAvg.Support = len(rows)

	return report, nil
}

// String renders the report as a fixed-width table.
func (r *ClassificationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%14s %9s %9s %9s %9s\n\n", "", "precision", "recall", "f1-score", "support")
	for c, m := range r.Classes {
		fmt.Fprintf(&b, "%14d %9.2f %9.2f %9.2f %9d\n", c, m.Precision, m.Recall, m.F1, m.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%14s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&b, "%14s %9.2f %9.2f %9.2f %9d\n", "macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%14s %9.2f %9.2f %9.2f %9d\n", "weighted avg", r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	return b.String()
}
