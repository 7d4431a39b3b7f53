// Package training holds the offline pipeline: synthetic dataset
// generation, dataset persistence and random forest training.
package training

import (
	"math/rand/v2"

	"altcred/internal/models"
)

// GeneratorConfig controls synthetic dataset generation.
type GeneratorConfig struct {
	Rows int
	Seed uint64
}

// RiskPoints scores an applicant with the hand-written default rules used
// to label the synthetic data.
func RiskPoints(f models.FeatureVector) int {
	risk := 0
	if f.Income < 20000 {
		risk += 3
	}
	if f.EcommerceSpend > f.Income {
		risk += 2
	}
	if f.BillPaymentScore < 30 {
		risk++
	}
	if f.UPITxnCount < 10 {
		risk++
	}
	if f.Age < 21 {
		risk++
	}
	return risk
}

// DefaultProbability converts risk points into the labelling probability.
func DefaultProbability(risk int) float64 {
	return min(float64(risk)/8, 1)
}

// Generate draws cfg.Rows labelled applicants. The output depends only on
// cfg.Seed.
func Generate(cfg GeneratorConfig) []models.LabeledApplicant {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	rows := make([]models.LabeledApplicant, 0, cfg.Rows)

	for i := 0; i < cfg.Rows; i++ {
		f := models.FeatureVector{
			Age:                 float64(18 + rng.IntN(60-18)),
			Income:              float64(8000 + rng.IntN(200000-8000)),
			UPITxnCount:         float64(rng.IntN(500)),
			BillPaymentScore:    rng.Float64() * 100,
			MobileRechargeScore: rng.Float64() * 100,
			EcommerceSpend:      float64(rng.IntN(50000)),
		}
		p := DefaultProbability(RiskPoints(f))
		rows = append(rows, models.LabeledApplicant{
			Features:    f,
			LoanDefault: rng.Float64() < p,
		})
	}
	return rows
}
