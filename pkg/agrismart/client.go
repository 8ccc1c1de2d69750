package agrismart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

// Package agrismart is a typed client for the AgriSmart prediction backend.

const (
	PathLogin      = "/api/auth/login"
	PathHealth     = "/api/health"
	PathRainfall   = "/api/predictions/rainfall"
	PathSoilType   = "/api/predictions/soil-type"
	PathPest       = "/api/predictions/pest"
	PathModels     = "/api/predictions/models"
	PathDocs       = "/docs"
	defaultTimeout = 15 * time.Second
)

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api response status %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated calls against one AgriSmart deployment.
// The base URL and token are fixed for the client's lifetime; no retries,
// no client-side auth validation.
type Client struct {
	baseURL string
	token   string
	client  *resty.Client
}

// NewClient builds a client for the given base URL and bearer token. An empty
// token is allowed; protected endpoints are still called and the server
// decides whether to reject them.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  httpclient.NewRestyHTTPClient(timeout),
	}
}

// BaseURL returns the deployment the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	var tok Token
	if err := c.call(ctx, "POST", PathLogin, false, creds, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access_token")
	}
	return &tok, nil
}

// Health probes the unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.call(ctx, "GET", PathHealth, false, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// PredictRainfall requests a rainfall prediction using either schema variant.
func (c *Client) PredictRainfall(ctx context.Context, req RainfallRequest) (*RainfallPrediction, error) {
	var pred RainfallPrediction
	if err := c.call(ctx, "POST", PathRainfall, true, req, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// PredictSoilType requests a soil type prediction for the given sample.
func (c *Client) PredictSoilType(ctx context.Context, sample SoilSample) (*SoilPrediction, error) {
	var pred SoilPrediction
	if err := c.call(ctx, "POST", PathSoilType, true, sample, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// DetectPest requests a pest identification for the reported damage.
func (c *Client) DetectPest(ctx context.Context, report PestReport) (*PestPrediction, error) {
	var pred PestPrediction
	if err := c.call(ctx, "POST", PathPest, true, report, &pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// ListModels returns the models the backend has registered.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	if err := c.call(ctx, "GET", PathModels, true, nil, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// call issues one request and decodes the response into out on success.
func (c *Client) call(ctx context.Context, method, path string, auth bool, body, out any) error {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")

	if auth && c.token != "" {
		req.SetAuthToken(c.token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Body: readBodySnippet(resp.Body())}
	}
	return nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
