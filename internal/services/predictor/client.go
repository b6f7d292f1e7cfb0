package predictor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ForexDash/internal/domain/models"
	"ForexDash/pkg/config"
	xhttp "ForexDash/pkg/http"
)

const (
	pathPredict    = "/api/predict"
	pathPairs      = "/api/pairs"
	pathIndicators = "/api/indicators"
)

// Client talks to the remote prediction service. Deadlines come from the
// caller's context; the client adds none of its own.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// NewClient builds a client for baseURL.
func NewClient(baseURL string, opts ...xhttp.ClientOption) *Client {
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(0)}, opts...)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(opts...),
	}
}

// NewFromConfig builds a client with the configured base URL and outbound rate limit.
func NewFromConfig(cfg *config.Config) *Client {
	return NewClient(cfg.Predictor.BaseURL,
		xhttp.WithRateLimit(cfg.Predictor.RequestsPerSec, cfg.Predictor.Burst),
	)
}

// Predict posts params to /api/predict.
func (c *Client) Predict(ctx context.Context, params models.PredictionParameters) (*models.PredictionResponse, error) {
	var resp models.PredictionResponse
	if err := c.do(ctx, xhttp.MethodPost, pathPredict, params, &resp); err != nil {
		return nil, err
	}
	resp.Normalize()
	return &resp, nil
}

// PredictSymbol requests GET /api/predict/{symbol}.
func (c *Client) PredictSymbol(ctx context.Context, symbol string) (*models.PredictionResponse, error) {
	var resp models.PredictionResponse
	if err := c.do(ctx, xhttp.MethodGet, pathPredict+"/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, err
	}
	resp.Normalize()
	return &resp, nil
}

// Pairs lists the selectable instruments.
func (c *Client) Pairs(ctx context.Context) ([]models.Pair, error) {
	var pairs []models.Pair
	if err := c.do(ctx, xhttp.MethodGet, pathPairs, nil, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// Indicators lists the indicator keys of each feature set.
func (c *Client) Indicators(ctx context.Context) (models.IndicatorSets, error) {
	sets := models.IndicatorSets{}
	if err := c.do(ctx, xhttp.MethodGet, pathIndicators, nil, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	if c.client == nil || c.baseURL == "" {
		return fmt.Errorf("predictor http client not initialized")
	}
	opts := &xhttp.RequestOptions{
		Method: method,
		URL:    c.baseURL + path,
	}
	if payload != nil {
		opts.Headers = map[string]string{"Content-Type": "application/json"}
		opts.Body = payload
	}
	if err := c.client.SendAndParse(ctx, opts, dest); err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(method), path, err)
	}
	return nil
}
