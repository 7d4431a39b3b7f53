package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altcred/internal/common/config"
	"altcred/internal/common/logger"
	"altcred/internal/inference"
	"altcred/internal/models"
	"altcred/internal/profiles"
	"altcred/internal/scoring"
)

const validBody = `{"age":25,"income":50000,"upi_txn_count":120,"bill_payment_score":85,"mobile_recharge_score":90,"ecommerce_spend":12000}`

func newTestServer(t *testing.T, store profiles.Store, maxBody int64) http.Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	svc := inference.NewService(scoring.NewSimulationEstimator(), log)
	if store == nil {
		store = profiles.NewStaticStore()
	}
	return New(config.ServerConfig{Port: 9000, MaxBodyBytes: maxBody}, svc, store, nil, log).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRoot(t *testing.T) {
	rec := do(t, newTestServer(t, nil, 0), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"AltCred AI API Running"}`, rec.Body.String())
}

func TestScore_Success(t *testing.T) {
	rec := do(t, newTestServer(t, nil, 0), http.MethodPost, "/score", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), `{"credit_score":`), rec.Body.String())

	var res models.ScoringResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	// The simulated probability for this applicant clamps to the floor.
	assert.Equal(t, 0.01, res.ProbabilityOfDefault)
	assert.Equal(t, 894, res.CreditScore)
	assert.Equal(t, models.RiskLow, res.RiskCategory)
	assert.Equal(t, models.DecisionAutoApproved, res.LoanDecision)
}

func TestScore_Idempotent(t *testing.T) {
	h := newTestServer(t, nil, 0)
	first := do(t, h, http.MethodPost, "/score", validBody)
	second := do(t, h, http.MethodPost, "/score", validBody)

	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestScore_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		maxBody    int64
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing income",
			body:       `{"age":25,"upi_txn_count":120,"bill_payment_score":85,"mobile_recharge_score":90,"ecommerce_spend":12000}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing income",
		},
		{
			name:       "empty object",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing age",
		},
		{
			name:       "string value",
			body:       strings.Replace(validBody, `"income":50000`, `"income":"50000"`, 1),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid income: expected number",
		},
		{
			name:       "malformed json",
			body:       `{"age":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body",
		},
		{
			name:       "array body",
			body:       `[1,2,3]`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body",
		},
		{
			name:       "body too large",
			body:       validBody,
			maxBody:    16,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "Request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t, nil, tt.maxBody), http.MethodPost, "/score", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec))
			assert.NotContains(t, rec.Body.String(), "credit_score")
		})
	}
}

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t, nil, 0)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = do(t, h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, scoring.ModeSimulation, body["mode"])
	assert.NotEmpty(t, body["time"])
}

func TestSamples(t *testing.T) {
	h := newTestServer(t, nil, 0)

	rec := do(t, h, http.MethodGet, "/samples", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.SampleProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 3)

	rec = do(t, h, http.MethodGet, "/samples/user-a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.SampleProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 25.0, p.Features.Age)

	rec = do(t, h, http.MethodGet, "/samples/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Sample profile not found: nobody", decodeError(t, rec))
}

type failingStore struct{}

func (failingStore) List(context.Context) ([]models.SampleProfile, error) {
	return nil, stderrors.New("redis down")
}

func (failingStore) Get(context.Context, string) (*models.SampleProfile, error) {
	return nil, stderrors.New("redis down")
}

func TestSamples_StoreFailure(t *testing.T) {
	h := newTestServer(t, failingStore{}, 0)

	rec := do(t, h, http.MethodGet, "/samples", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, h, http.MethodGet, "/samples/user-a", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Sample profiles unavailable", decodeError(t, rec))
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestMetricsAndRouting(t *testing.T) {
	h := newTestServer(t, nil, 0)
	do(t, h, http.MethodPost, "/score", validBody)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scoring_requests_total")
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = do(t, h, http.MethodGet, "/score", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReady_DependencyChecks(t *testing.T) {
	log := logger.NewTestLogger(t)
	svc := inference.NewService(scoring.NewSimulationEstimator(), log)
	brokerDown := stderrors.New("zeebe health check failed: connection refused")

	tests := []struct {
		name       string
		checks     []ReadinessCheck
		wantCode   int
		wantStatus string
		wantDeps   map[string]interface{}
	}{
		{
			name: "all dependencies reachable",
			checks: []ReadinessCheck{
				{Name: "postgres", Check: func(context.Context) error { return nil }},
				{Name: "zeebe", Check: func(context.Context) error { return nil }},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantDeps:   map[string]interface{}{"postgres": "ok", "zeebe": "ok"},
		},
		{
			name: "broker unreachable",
			checks: []ReadinessCheck{
				{Name: "postgres", Check: func(context.Context) error { return nil }},
				{Name: "zeebe", Check: func(context.Context) error { return brokerDown }},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not ready",
			wantDeps:   map[string]interface{}{"postgres": "ok", "zeebe": brokerDown.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(config.ServerConfig{}, svc, profiles.NewStaticStore(), nil, log, tt.checks...).Handler()

			rec := do(t, h, http.MethodGet, "/ready", "")
			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, tt.wantDeps, body["dependencies"])
		})
	}
}

func TestScore_ModelEstimator(t *testing.T) {
	forest := &scoring.Forest{
		Format:       scoring.ForestFormat,
		FeatureNames: models.FeatureNames(),
		Classes:      []int{0, 1},
		Trees: []scoring.Tree{
			{Nodes: []scoring.Node{
				{Feature: 1, Threshold: 100000, Left: 1, Right: 2},
				{Feature: scoring.LeafFeature, Value: []float64{0.75, 0.25}},
				{Feature: scoring.LeafFeature, Value: []float64{0.875, 0.125}},
			}},
			{Nodes: []scoring.Node{
				{Feature: scoring.LeafFeature, Value: []float64{0.5, 0.5}},
			}},
		},
	}
	path := filepath.Join(t.TempDir(), scoring.DefaultModelFile)
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, scoring.WriteForest(file, forest))
	require.NoError(t, file.Close())

	log := logger.NewTestLogger(t)
	svc := inference.NewService(scoring.LoadEstimator(path, log), log)
	h := New(config.ServerConfig{}, svc, profiles.NewStaticStore(), nil, log).Handler()

	rec := do(t, h, http.MethodPost, "/score", validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.ScoringResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	// Mean of 0.25 and 0.5; the simulation estimator would clamp this
	// applicant to 0.01.
	assert.Equal(t, 0.375, res.ProbabilityOfDefault)
	assert.Equal(t, 675, res.CreditScore)
	assert.Equal(t, models.RiskMedium, res.RiskCategory)
	assert.Equal(t, models.DecisionManualReview, res.LoanDecision)

	rec = do(t, h, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ready map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, scoring.ModeModel, ready["mode"])
}
