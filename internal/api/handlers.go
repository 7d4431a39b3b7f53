package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"altcred/internal/common/errors"
	"altcred/internal/common/metrics"
	"altcred/internal/models"
)

// RootStatus is the fixed liveness payload of GET /.
const RootStatus = "AltCred AI API Running"

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": RootStatus})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readinessTimeout bounds each dependency check.
const readinessTimeout = 2 * time.Second

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status": "ready",
		"mode":   s.service.Mode(),
		"time":   time.Now().Format(time.RFC3339),
	}

	if len(s.checks) > 0 {
		deps := make(map[string]string, len(s.checks))
		for _, c := range s.checks {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := c.Check(ctx)
			cancel()

			if err != nil {
				deps[c.Name] = err.Error()
				status = http.StatusServiceUnavailable
				body["status"] = "not ready"
				s.logger.Warn("readiness check failed", map[string]interface{}{
					"dependency": c.Name,
					"error":      err.Error(),
				})
				continue
			}
			deps[c.Name] = "ok"
		}
		body["dependencies"] = deps
	}

	s.jsonResponse(w, status, body)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.recordOutcome(r, metrics.OutcomeRejected, "", start)
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, serr := s.service.Score(r.Context(), raw)
	if serr != nil {
		outcome := metrics.OutcomeRejected
		if !serr.IsValidation() {
			outcome = metrics.OutcomeFailed
		}
		s.recordOutcome(r, outcome, "", start)
		s.logger.Warn("score request rejected", map[string]interface{}{
			"requestId": RequestID(r.Context()),
			"errorCode": string(serr.Code),
			"message":   serr.Message,
		})
		s.errorResponse(w, HTTPStatus(serr), serr.Message)
		return
	}

	s.recordOutcome(r, metrics.OutcomeScored, result.RiskCategory, start)
	metrics.ScoringRiskCategory.WithLabelValues(result.RiskCategory).Inc()
	metrics.ScoringLoanDecision.WithLabelValues(result.LoanDecision).Inc()
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	list, err := s.profiles.List(r.Context())
	if err != nil {
		s.logger.Error("list sample profiles failed", map[string]interface{}{"error": err.Error()})
		s.errorResponse(w, http.StatusInternalServerError, "Sample profiles unavailable")
		return
	}
	if list == nil {
		list = []models.SampleProfile{}
	}
	s.jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	profile, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		stdErr := errors.Normalize(err)
		if stdErr.Code != errors.ErrCodeProfileNotFound {
			s.logger.Error("get sample profile failed", map[string]interface{}{"id": id, "error": err.Error()})
			s.errorResponse(w, http.StatusInternalServerError, "Sample profiles unavailable")
			return
		}
		s.errorResponse(w, HTTPStatus(stdErr), stdErr.Message)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) recordOutcome(r *http.Request, outcome, riskCategory string, start time.Time) {
	elapsed := time.Since(start)
	metrics.ScoringRequests.WithLabelValues(metrics.ChannelHTTP, outcome).Inc()
	metrics.ScoringDuration.WithLabelValues(metrics.ChannelHTTP).Observe(elapsed.Seconds())
	s.obs.RecordScore(r.Context(), metrics.ChannelHTTP, outcome, riskCategory, elapsed)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", map[string]interface{}{"error": err.Error()})
	}
}

// errorResponse writes the {"error": "..."} body used by every failure.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, models.ErrorResponse{Error: message})
}
