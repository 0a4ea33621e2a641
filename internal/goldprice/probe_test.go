package goldprice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeSucceeded(t *testing.T) {
	strict := ProbeTarget{SuccessPath: "success"}
	truthy := ProbeTarget{SuccessPath: "success", Rule: Truthy}
	lenient := ProbeTarget{SuccessPath: "success", Rule: NotFalse}
	status := ProbeTarget{SuccessPath: "status"}

	cases := []struct {
		name   string
		target ProbeTarget
		raw    string
		want   bool
	}{
		{"strict true", strict, `{"success":true}`, true},
		{"strict false", strict, `{"success":false}`, false},
		{"strict missing", strict, `{"rates":{}}`, false},
		{"strict number", strict, `{"success":1}`, false},
		{"truthy true", truthy, `{"success":true}`, true},
		{"truthy number", truthy, `{"success":1}`, true},
		{"truthy string", truthy, `{"success":"yes"}`, true},
		{"truthy object", truthy, `{"success":{}}`, true},
		{"truthy zero", truthy, `{"success":0}`, false},
		{"truthy empty string", truthy, `{"success":""}`, false},
		{"truthy null", truthy, `{"success":null}`, false},
		{"truthy missing", truthy, `{"rates":{}}`, false},
		{"lenient missing", lenient, `{"rates":{}}`, true},
		{"lenient false", lenient, `{"success":false}`, false},
		{"lenient true", lenient, `{"success":true}`, true},
		{"status true", status, `{"status":true,"response":[]}`, true},
		{"status string", status, `{"status":"ok"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, probeSucceeded([]byte(tc.raw), tc.target))
		})
	}
}

func TestProber_Run(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rejects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":101,"info":"invalid key"}}`))
	})
	mux.HandleFunc("/works", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "secret" || r.URL.Query().Get("base") != "USD" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"success":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"XAU":0.0005}}`))
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	p := NewProber("secret", time.Second, []ProbeTarget{
		{Name: "first", URL: ts.URL + "/rejects", KeyParam: "access_key", SuccessPath: "success"},
		{Name: "broken", URL: ts.URL + "/html", KeyParam: "access_key", SuccessPath: "success"},
		{Name: "second", URL: ts.URL + "/works", KeyParam: "api_key", Params: map[string]string{"base": "USD"}, SuccessPath: "success", Rule: NotFalse},
	})

	report := p.Run(context.Background())

	require.Len(t, report.Tests, 3)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "configured", report.APIKey)

	assert.Equal(t, http.StatusUnauthorized, report.Tests[0].Status)
	assert.False(t, report.Tests[0].Success)
	assert.JSONEq(t, `{"code":101,"info":"invalid key"}`, string(report.Tests[0].Error.(json.RawMessage)))

	assert.False(t, report.Tests[1].Success)
	assert.Equal(t, "response is not JSON", report.Tests[1].Error)

	assert.True(t, report.Tests[2].Success)
	assert.Equal(t, "Use second - it's working with your API key!", report.Recommendation)
	assert.Equal(t, http.StatusOK, report.Tests[2].Status)
}

func TestProber_TransportErrorAndNoWorkingAPI(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	p := NewProber("", time.Second, []ProbeTarget{{Name: "gone", URL: url, SuccessPath: "success"}})
	report := p.Run(context.Background())

	require.Len(t, report.Tests, 1)
	assert.Equal(t, "error", report.Tests[0].Status)
	assert.False(t, report.Tests[0].Success)
	assert.NotEmpty(t, report.Tests[0].Error)
	assert.Equal(t, "missing", report.APIKey)
	assert.Contains(t, report.Recommendation, "None of the tested APIs work")
}

func TestDefaultProbeTargets(t *testing.T) {
	targets := DefaultProbeTargets("")
	require.Len(t, targets, 4)
	assert.Equal(t, "metals-api.com", targets[0].Name)
	assert.Equal(t, DefaultMetalsBaseURL+"/api/latest", targets[0].URL)
	assert.Equal(t, Truthy, targets[0].Rule)
	assert.Equal(t, "status", targets[2].SuccessPath)
	assert.Equal(t, RequireTrue, targets[2].Rule)
}

func TestDefaultProbeTargets_FollowConfiguredMetalsHost(t *testing.T) {
	targets := DefaultProbeTargets("http://metals.internal:8081/")

	assert.Equal(t, "http://metals.internal:8081/api/latest", targets[0].URL)
	assert.Equal(t, "https://api.metalpriceapi.com/v1/latest", targets[1].URL)
}
