// internal/workers/credit/score-applicant/handler.go
package scoreapplicant

import (
	"context"
	"encoding/json"
	"time"

	"altcred/internal/common/errors"
	"altcred/internal/common/logger"
	"altcred/internal/common/metrics"
	"altcred/internal/common/observability"
	"altcred/internal/inference"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-applicant"
)

// Retrier resends broker commands that fail with transient transport errors.
type Retrier interface {
	ExecuteWithRetry(ctx context.Context, commandFunc func(context.Context) (interface{}, error), operationName string) (interface{}, error)
}

type Handler struct {
	config     *Config
	service    *inference.Service
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
	retrier    Retrier
}

func NewHandler(config *Config, service *inference.Service, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		service:    service,
		errHandler: errors.NewErrorHandler(l),
		obs:        obs,
		logger:     l,
	}
}

// WithRetrier routes job completion through r.
func (h *Handler) WithRetrier(r Retrier) *Handler {
	h.retrier = r
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := decodeInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.record(ctx, metrics.OutcomeScored, output.RiskCategory, start)
}

func decodeInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError("Invalid job variables", err)
	}
	if input.Applicant == nil {
		return nil, errors.NewParseError("Invalid job variables", nil)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, serr := h.service.Score(ctx, input.Applicant)
	if serr != nil {
		return nil, serr
	}

	h.logger.Info("applicant scored", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"creditScore":   result.CreditScore,
		"riskCategory":  result.RiskCategory,
		"loanDecision":  result.LoanDecision,
	})

	return &Output{
		CreditScore:          result.CreditScore,
		RiskCategory:         result.RiskCategory,
		LoanDecision:         result.LoanDecision,
		ProbabilityOfDefault: result.ProbabilityOfDefault,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()

	outcome := metrics.OutcomeFailed
	if stdErr.IsValidation() {
		outcome = metrics.OutcomeRejected
	}
	h.record(ctx, outcome, "", start)

	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) record(ctx context.Context, outcome, riskCategory string, start time.Time) {
	elapsed := time.Since(start)
	metrics.ScoringRequests.WithLabelValues(metrics.ChannelWorker, outcome).Inc()
	metrics.ScoringDuration.WithLabelValues(metrics.ChannelWorker).Observe(elapsed.Seconds())
	if riskCategory != "" {
		metrics.ScoringRiskCategory.WithLabelValues(riskCategory).Inc()
	}
	h.obs.RecordScore(ctx, metrics.ChannelWorker, outcome, riskCategory, elapsed)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	err = h.send(ctx, "complete job", func(ctx context.Context) (interface{}, error) {
		return cmd.Send(ctx)
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
}

func (h *Handler) send(ctx context.Context, operation string, command func(context.Context) (interface{}, error)) error {
	if h.retrier == nil {
		_, err := command(ctx)
		return err
	}
	_, err := h.retrier.ExecuteWithRetry(ctx, command, operation)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
