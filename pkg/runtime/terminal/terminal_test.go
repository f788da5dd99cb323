package terminal

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/dashboard/recent-events", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"tenant_id":1,"event_name":"search","session_id":"abcdefghij","platform":"app"}]}`))
	})
	mux.HandleFunc("/v1/dashboard/reports", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reports":[{"id":"kpi","name":"KPI Overview","endpoint":"/v1/reports/kpi","chart_type":"stat_cards","refresh_interval":60}]}`))
	})
	mux.HandleFunc("/v1/reports/kpi", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tenant_id") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"report":"kpi","tenant_id":"1","cached":true,"filters":{"start_date":"2025-01-01","end_date":"2025-01-31"},"data":{"total_orders":10,"conversion_rate":null}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cli := NewCLI(Options{Output: &out, ErrOutput: &errOut, Args: args})
	err := cli.Execute()
	return out.String(), err
}

func TestCLI_Events(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, "events", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Live Stream | Live | Updated")
	assert.Contains(t, out, "| 1      | App      | Search |")
	assert.Contains(t, out, "abcdefgh...")
}

func TestCLI_Reports(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, "reports", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "| kpi | KPI Overview | KPI Cards | 60s     |")
}

func TestCLI_Report(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, "report", "kpi", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "KPI Overview (2025-01-01 — 2025-01-31) [cached]")
	assert.Contains(t, out, "| Total Orders | 10    |")
	assert.NotContains(t, out, "Conversion Rate")
}

func TestCLI_Errors(t *testing.T) {
	srv := newBackend(t)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "unknown report", args: []string{"report", "missing", "--base-url", srv.URL}, expected: `report "missing" not found`},
		{name: "http status", args: []string{"events", "--base-url", srv.URL + "/nothing"}, expected: "HTTP 404"},
		{name: "missing argument", args: []string{"report", "--base-url", srv.URL}, expected: "accepts 1 arg(s)"},
		{name: "relative base url", args: []string{"reports", "--base-url", "localhost"}, expected: "must be absolute"},
		{name: "unknown profile", args: []string{"reports", "--profile", "nope", "--profiles-file", t.TempDir() + "/none"}, expected: "does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}
