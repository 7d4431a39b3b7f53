package training

import (
	"fmt"
	"math"
	"math/rand/v2"

	"altcred/internal/models"
)

// StratifiedSplit shuffles rows with seed and holds out testSize of each
// class for evaluation.
func StratifiedSplit(rows []models.LabeledApplicant, testSize float64, seed uint64) (train, test []models.LabeledApplicant, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	var byClass [2][]int
	for i, row := range rows {
		c := 0
		if row.LoanDefault {
			c = 1
		}
		byClass[c] = append(byClass[c], i)
	}

	rng := rand.New(rand.NewPCG(seed, seed+1))
	for _, idx := range byClass {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(math.Round(float64(len(idx)) * testSize))
		for k, i := range idx {
			if k < nTest {
				test = append(test, rows[i])
			} else {
				train = append(train, rows[i])
			}
		}
	}
	return train, test, nil
}
