package scoring

import "altcred/internal/models"

// Clamp bounds applied to the simulated probability.
const (
	SimulationFloor   = 0.01
	SimulationCeiling = 0.95
)

// SimulationEstimator scores with a fixed linear formula when no trained
// classifier is available. Age is not used.
type SimulationEstimator struct{}

func NewSimulationEstimator() *SimulationEstimator {
	return &SimulationEstimator{}
}

func (SimulationEstimator) Mode() string { return ModeSimulation }

func (SimulationEstimator) Estimate(f models.FeatureVector) float64 {
	return clamp(SimulatedProbability(f), SimulationFloor, SimulationCeiling)
}

// SimulatedProbability returns the unclamped formula value.
func SimulatedProbability(f models.FeatureVector) float64 {
	return 0.4 -
		f.Income/300000 -
		f.BillPaymentScore/500 -
		f.MobileRechargeScore/600 -
		f.UPITxnCount/5000 +
		f.EcommerceSpend/100000
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
