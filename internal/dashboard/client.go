// Package dashboard is the terminal presentation client for the scoring API.
package dashboard

import (
	"context"
	"net/url"
	"strings"
	"time"

	commonhttp "altcred/internal/common/http"
	"altcred/internal/models"
)

// DefaultBaseURL is where a locally started scoring-api listens.
const DefaultBaseURL = "http://127.0.0.1:9000"

// Client calls the scoring API. It never retries.
type Client struct {
	http    *commonhttp.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    commonhttp.NewClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Score posts the applicant to /score.
func (c *Client) Score(ctx context.Context, fv models.FeatureVector) (*models.ScoringResult, error) {
	var res models.ScoringResult
	if err := c.http.PostJSON(ctx, c.baseURL+"/score", fv, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Samples lists the sample profiles served by the API.
func (c *Client) Samples(ctx context.Context) ([]models.SampleProfile, error) {
	var out []models.SampleProfile
	if err := c.http.GetJSON(ctx, c.baseURL+"/samples", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sample fetches one sample profile.
func (c *Client) Sample(ctx context.Context, id string) (*models.SampleProfile, error) {
	var out models.SampleProfile
	if err := c.http.GetJSON(ctx, c.baseURL+"/samples/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
