package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altcred/internal/models"
	"altcred/internal/profiles"
)

func TestRating(t *testing.T) {
	tests := map[int]string{
		300: "Poor",
		499: "Poor",
		500: "Fair",
		649: "Fair",
		650: "Good",
		749: "Good",
		750: "Very Good",
		849: "Very Good",
		850: "Excellent",
		900: "Excellent",
	}
	for score, want := range tests {
		assert.Equal(t, want, Rating(score), "score %d", score)
	}
}

func TestImpacts(t *testing.T) {
	fv := models.FeatureVector{Age: 1, Income: 6, UPITxnCount: 0, BillPaymentScore: 2, MobileRechargeScore: 0, EcommerceSpend: 0}

	got := Impacts(fv)
	require.Len(t, got, 6)
	assert.Equal(t, "income", got[0].Feature)
	assert.InDelta(t, 0.6, got[0].Score, 1e-12)
	assert.Equal(t, "bill_payment_score", got[1].Feature)
	assert.InDelta(t, 0.2, got[1].Score, 1e-12)
	assert.Equal(t, "age", got[2].Feature)

	// zero-valued features keep canonical order
	assert.Equal(t, []string{"upi_txn_count", "mobile_recharge_score", "ecommerce_spend"},
		[]string{got[3].Feature, got[4].Feature, got[5].Feature})
}

func TestGauge(t *testing.T) {
	out := Gauge(600, 60)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "300 ["))
	assert.True(t, strings.HasSuffix(lines[0], "] 900"))
	bar := strings.TrimSuffix(strings.TrimPrefix(lines[0], "300 ["), "] 900")
	assert.Len(t, bar, 60)
	assert.Equal(t, 4, strings.Count(bar, "|"))
	assert.True(t, strings.HasSuffix(lines[1], "^ 600"))

	full := Gauge(900, 60)
	assert.NotContains(t, strings.Split(full, "\n")[0], ".")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "API request failed: boom", ErrorMessage(fmt.Errorf("boom")))
}

func TestRender(t *testing.T) {
	fv := profiles.Defaults()[0].Features
	res := &models.ScoringResult{
		CreditScore:          840,
		RiskCategory:         models.RiskLow,
		LoanDecision:         models.DecisionAutoApproved,
		ProbabilityOfDefault: 0.1,
	}

	var buf bytes.Buffer
	Render(&buf, fv, res)
	out := buf.String()

	assert.Contains(t, out, "Credit Rating:          Very Good")
	assert.Contains(t, out, "Risk Category:          Low Risk")
	assert.Contains(t, out, "Loan Decision:          Auto Approved")
	assert.Contains(t, out, "Probability of Default: 10.00%")
	assert.Contains(t, out, "Overall AI detected Low Risk financial behavior")
	assert.Less(t, strings.Index(out, "  income"), strings.Index(out, "  ecommerce_spend"))
}

func newAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second)
}

func TestClient_Score(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/score", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 25.0, body["age"])
		assert.Len(t, body, 6)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"credit_score":840,"risk_category":"Low Risk","loan_decision":"Auto Approved","probability_of_default":0.1}`))
	})

	res, err := client.Score(context.Background(), profiles.Defaults()[0].Features)
	require.NoError(t, err)
	assert.Equal(t, 840, res.CreditScore)
	assert.Equal(t, models.RiskLow, res.RiskCategory)
}

func TestClient_ScoreAPIError(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing income"}`))
	})

	_, err := client.Score(context.Background(), models.FeatureVector{})
	require.Error(t, err)
	assert.Equal(t, "API Error: Missing income", ErrorMessage(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	_, err := client.Score(context.Background(), models.FeatureVector{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(ErrorMessage(err), "API request failed: "))
	assert.NotContains(t, ErrorMessage(err), "API Error")
}

func TestClient_Samples(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/samples":
			_ = json.NewEncoder(w).Encode(profiles.Defaults())
		case "/samples/user-c":
			_ = json.NewEncoder(w).Encode(profiles.Defaults()[2])
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Sample profile not found: x"}`))
		}
	})

	list, err := client.Samples(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)

	p, err := client.Sample(context.Background(), "user-c")
	require.NoError(t, err)
	assert.Equal(t, 15000.0, p.Features.Income)

	var buf bytes.Buffer
	RenderProfile(&buf, *p)
	assert.Contains(t, buf.String(), "User C (Risky Profile) [user-c]")

	_, err = client.Sample(context.Background(), "x")
	assert.Equal(t, "API Error: Sample profile not found: x", ErrorMessage(err))
}
