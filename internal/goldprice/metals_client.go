package goldprice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultMetalsBaseURL = "https://metals-api.com"
	defaultMetalsTimeout = 10 * time.Second
)

var (
	ErrUpstreamUnavailable = errors.New("metals api unavailable")
	ErrUpstreamBadStatus   = errors.New("metals api bad status")
	ErrUpstreamMalformed   = errors.New("metals api malformed response")
	ErrUpstreamRejected    = errors.New("metals api rejected request")
	ErrRateLimited         = errors.New("metals api local rate limit")
)

type MetalsConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RatePerSecond caps outbound calls; zero means unlimited. Calls over the
	// cap fail at once with ErrRateLimited.
	RatePerSecond float64
	Burst         int
}

// LatestResponse is the body of GET /api/latest.
type LatestResponse struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Error     *APIError          `json:"error,omitempty"`
}

type APIError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// MetalsClient talks to the metals-api.com "latest" endpoint. The key travels
// as the access_key query parameter.
type MetalsClient struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	limiter *rate.Limiter
}

func NewMetalsClient(cfg MetalsConfig) *MetalsClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMetalsBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultMetalsTimeout
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &MetalsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    resty.New().SetTimeout(cfg.Timeout),
		limiter: rate.NewLimiter(limit, cfg.Burst),
	}
}

func (c *MetalsClient) KeyConfigured() bool { return c.apiKey != "" }

// Latest fetches rates of symbols against base. A response is only returned
// when the HTTP status is 2xx and the payload reports success.
func (c *MetalsClient) Latest(ctx context.Context, base, symbols string) (LatestResponse, error) {
	if !c.limiter.Allow() {
		return LatestResponse{}, fmt.Errorf("%w: %s base=%s", ErrRateLimited, symbols, base)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"access_key": c.apiKey,
			"base":       base,
			"symbols":    symbols,
		}).
		Get(c.baseURL + "/api/latest")
	if err != nil {
		return LatestResponse{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if !resp.IsSuccess() {
		return LatestResponse{}, fmt.Errorf("%w: status=%d", ErrUpstreamBadStatus, resp.StatusCode())
	}

	var out LatestResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return LatestResponse{}, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	if !out.Success {
		info := "unknown error"
		if out.Error != nil && out.Error.Info != "" {
			info = out.Error.Info
		}
		return out, fmt.Errorf("%w: %s", ErrUpstreamRejected, info)
	}
	return out, nil
}
