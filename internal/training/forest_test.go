package training

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altcred/internal/models"
	"altcred/internal/scoring"
)

// separableRows labels every applicant under 20000 income as a default.
func separableRows(n int) []models.LabeledApplicant {
	rows := make([]models.LabeledApplicant, 0, n)
	for i := 0; i < n; i++ {
		income := 50000 + float64(i)*100
		if i%2 == 0 {
			income = 10000 + float64(i)*10
		}
		rows = append(rows, models.LabeledApplicant{
			Features: models.FeatureVector{
				Age:                 float64(20 + i%30),
				Income:              income,
				UPITxnCount:         float64(i % 17),
				BillPaymentScore:    float64(i % 13),
				MobileRechargeScore: float64(i % 11),
				EcommerceSpend:      float64(i % 7 * 1000),
			},
			LoanDefault: i%2 == 0,
		})
	}
	return rows
}

func TestTrainForest_LearnsSeparableData(t *testing.T) {
	forest, err := TrainForest(context.Background(), separableRows(200), ForestConfig{
		Trees:       15,
		MaxDepth:    4,
		MaxFeatures: 6,
		Seed:        42,
		Workers:     3,
	})
	require.NoError(t, err)
	require.NoError(t, forest.Validate())
	assert.Len(t, forest.Trees, 15)
	assert.Equal(t, "balanced", forest.Params["class_weight"])

	est, err := scoring.NewForestEstimator(forest)
	require.NoError(t, err)

	low := est.Estimate(models.FeatureVector{Age: 30, Income: 12000, UPITxnCount: 5})
	high := est.Estimate(models.FeatureVector{Age: 30, Income: 90000, UPITxnCount: 5})
	assert.Greater(t, low, 0.9)
	assert.Less(t, high, 0.1)

	require.Len(t, forest.FeatureImportances, 6)
	assert.InDelta(t, 1.0, forest.FeatureImportances[1], 1e-9)
}

func TestTrainForest_DeterministicAcrossWorkers(t *testing.T) {
	rows := Generate(GeneratorConfig{Rows: 300, Seed: 5})
	cfg := ForestConfig{Trees: 8, MaxDepth: 5, Seed: 11}

	cfg.Workers = 1
	a, err := TrainForest(context.Background(), rows, cfg)
	require.NoError(t, err)

	cfg.Workers = 4
	b, err := TrainForest(context.Background(), rows, cfg)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Params["max_features"])
}

func TestTrainForest_RespectsMaxDepth(t *testing.T) {
	rows := Generate(GeneratorConfig{Rows: 300, Seed: 9})
	forest, err := TrainForest(context.Background(), rows, ForestConfig{Trees: 3, MaxDepth: 1, Seed: 1})
	require.NoError(t, err)

	for _, tree := range forest.Trees {
		assert.LessOrEqual(t, len(tree.Nodes), 3)
	}
}

func TestTrainForest_Errors(t *testing.T) {
	_, err := TrainForest(context.Background(), nil, ForestConfig{})
	assert.Error(t, err)

	oneClass := []models.LabeledApplicant{
		{Features: models.FeatureVector{Income: 1}},
		{Features: models.FeatureVector{Income: 2}},
	}
	_, err = TrainForest(context.Background(), oneClass, ForestConfig{})
	assert.Error(t, err)
}

func TestTrainForest_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TrainForest(ctx, separableRows(20), ForestConfig{Trees: 4})
	assert.ErrorIs(t, err, context.Canceled)
}
