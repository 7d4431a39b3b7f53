// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scoring channels.
const (
	ChannelHTTP   = "http"
	ChannelWorker = "worker"
	ChannelCLI    = "cli"
)

// Scoring outcomes.
const (
	OutcomeScored   = "scored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring requests by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_duration_seconds",
			Help:    "Duration of a single scoring call in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"channel"},
	)

	ScoringRiskCategory = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_risk_category_total",
			Help: "Scored applicants by risk category",
		},
		[]string{"category"},
	)

	ScoringLoanDecision = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_loan_decision_total",
			Help: "Scored applicants by loan decision",
		},
		[]string{"decision"},
	)

	EstimatorInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scoring_estimator_info",
			Help: "Set to 1 for the probability estimator currently serving requests",
		},
		[]string{"mode"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled by the inference API",
		},
		[]string{"method", "path", "status"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// SetEstimatorMode marks mode as the active estimator and clears the others.
func SetEstimatorMode(mode string, all ...string) {
	for _, m := range all {
		EstimatorInfo.WithLabelValues(m).Set(0)
	}
	EstimatorInfo.WithLabelValues(mode).Set(1)
}
