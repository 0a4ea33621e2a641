package goldprice

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"GoldStore/pkg/kit"
)

const defaultProbeTimeout = 8 * time.Second

// SuccessRule decides how the field at SuccessPath is read.
type SuccessRule int

const (
	// RequireTrue needs a JSON true.
	RequireTrue SuccessRule = iota
	// Truthy accepts true, a non-zero number, a non-empty string, an object
	// or an array.
	Truthy
	// NotFalse accepts anything except an explicit false.
	NotFalse
)

// ProbeTarget describes one candidate gold price provider. SuccessPath is a
// gjson path into the response body.
type ProbeTarget struct {
	Name        string
	URL         string
	KeyParam    string
	Params      map[string]string
	SuccessPath string
	Rule        SuccessRule
}

// DefaultProbeTargets lists the known providers. metalsBaseURL points the
// metals-api entry at the same host the oracle uses; empty means the public
// service.
func DefaultProbeTargets(metalsBaseURL string) []ProbeTarget {
	if metalsBaseURL == "" {
		metalsBaseURL = DefaultMetalsBaseURL
	}
	return []ProbeTarget{
		{
			Name:        "metals-api.com",
			URL:         strings.TrimRight(metalsBaseURL, "/") + "/api/latest",
			KeyParam:    "access_key",
			Params:      map[string]string{"base": "USD", "symbols": "XAU"},
			SuccessPath: "success",
			Rule:        Truthy,
		},
		{
			Name:        "metalpriceapi.com",
			URL:         "https://api.metalpriceapi.com/v1/latest",
			KeyParam:    "api_key",
			Params:      map[string]string{"base": "USD", "currencies": "XAU"},
			SuccessPath: "success",
			Rule:        NotFalse,
		},
		{
			Name:        "fcsapi.com",
			URL:         "https://fcsapi.com/api-v3/forex/latest",
			KeyParam:    "access_key",
			Params:      map[string]string{"symbol": "XAUUSD"},
			SuccessPath: "status",
		},
		{
			Name:        "currencylayer.com",
			URL:         "https://api.currencylayer.com/live",
			KeyParam:    "access_key",
			Params:      map[string]string{"currencies": "XAU", "source": "USD"},
			SuccessPath: "success",
			Rule:        NotFalse,
		},
	}
}

type ProbeResult struct {
	API     string          `json:"api"`
	Status  any             `json:"status"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   any             `json:"error"`
}

type ProbeReport struct {
	RunID          string        `json:"runId"`
	APIKey         string        `json:"apiKey"`
	Tests          []ProbeResult `json:"tests"`
	Recommendation string        `json:"recommendation"`
}

// Prober checks which providers accept the configured key.
type Prober struct {
	Targets []ProbeTarget
	APIKey  string
	Log     *zap.Logger

	http *resty.Client
}

func NewProber(apiKey string, timeout time.Duration, targets []ProbeTarget) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	if targets == nil {
		targets = DefaultProbeTargets("")
	}
	return &Prober{
		Targets: targets,
		APIKey:  apiKey,
		http:    resty.New().SetTimeout(timeout),
	}
}

// Run probes every target in order. Failures are reported, not returned.
func (p *Prober) Run(ctx context.Context) ProbeReport {
	log := kit.OrNop(p.Log)

	report := ProbeReport{
		RunID:  uuid.NewString(),
		APIKey: KeyStatus(p.APIKey),
		Tests:  make([]ProbeResult, 0, len(p.Targets)),
	}

	for _, t := range p.Targets {
		res := p.probe(ctx, t)
		log.Info("metal price probe",
			zap.String("run_id", report.RunID),
			zap.String("api", t.Name),
			zap.Any("status", res.Status),
			zap.Bool("success", res.Success),
		)
		report.Tests = append(report.Tests, res)
	}

	report.Recommendation = "None of the tested APIs work with your key. Please check your API key or try a different service."
	for _, res := range report.Tests {
		if res.Success {
			report.Recommendation = fmt.Sprintf("Use %s - it's working with your API key!", res.API)
			break
		}
	}
	return report
}

func (p *Prober) probe(ctx context.Context, t ProbeTarget) ProbeResult {
	params := make(map[string]string, len(t.Params)+1)
	for k, v := range t.Params {
		params[k] = v
	}
	if t.KeyParam != "" {
		params[t.KeyParam] = p.APIKey
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(t.URL)
	if err != nil {
		return ProbeResult{API: t.Name, Status: "error", Error: err.Error()}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return ProbeResult{API: t.Name, Status: resp.StatusCode(), Error: "response is not JSON"}
	}

	res := ProbeResult{
		API:     t.Name,
		Status:  resp.StatusCode(),
		Success: probeSucceeded(body, t),
		Data:    json.RawMessage(body),
	}
	if e := gjson.GetBytes(body, "error"); e.Exists() {
		res.Error = json.RawMessage(e.Raw)
	}
	return res
}

func probeSucceeded(body []byte, t ProbeTarget) bool {
	r := gjson.GetBytes(body, t.SuccessPath)
	switch t.Rule {
	case NotFalse:
		return !(r.Exists() && r.Type == gjson.False)
	case Truthy:
		switch r.Type {
		case gjson.True, gjson.JSON:
			return true
		case gjson.Number:
			return r.Num != 0 && !math.IsNaN(r.Num)
		case gjson.String:
			return r.Str != ""
		default:
			return false
		}
	default:
		return r.Type == gjson.True
	}
}

// KeyStatus is how a key is reported to clients; the key itself never is.
func KeyStatus(apiKey string) string {
	if apiKey == "" {
		return "missing"
	}
	return "configured"
}
