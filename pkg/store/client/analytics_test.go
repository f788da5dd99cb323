package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veya/analytics-dashboard/pkg/models/api"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewAnalyticsClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewAnalyticsClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid", baseURL: "https://analytics.example.com"},
		{name: "trailing slash", baseURL: "https://analytics.example.com/"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewAnalyticsClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestHTTPClient_RecentEvents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, RecentEventsPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"EVENT_NAME":"search"},{"event_name":"add_to_cart"}]}`))
	})

	resp, err := c.RecentEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
}

func TestHTTPClient_ListReports(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ReportsPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"reports":[{"id":"kpi","name":"KPIs","endpoint":"/v1/reports/kpi","chart_type":"stat_cards","refresh_interval":60}]}`))
	})

	resp, err := c.ListReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []api.Report{{
		ID:              "kpi",
		Name:            "KPIs",
		Endpoint:        "/v1/reports/kpi",
		ChartType:       "stat_cards",
		RefreshInterval: 60,
	}}, resp.Reports)
}

func TestHTTPClient_GetReportData_SendsTenant(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reports/kpi", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("tenant_id"))
		assert.Equal(t, "7", r.URL.Query().Get("store_id"))
		_, _ = w.Write([]byte(`{"report":"kpi","tenant_id":1,"cached":true,"filters":{"start_date":"2025-01-01","end_date":"2025-01-31"},"data":{"total_orders":10}}`))
	})

	resp, err := c.GetReportData(context.Background(), "/v1/reports/kpi?store_id=7")
	require.NoError(t, err)
	assert.Equal(t, api.FlexString("1"), resp.TenantID)
	assert.True(t, resp.Cached)
	assert.Equal(t, "2025-01-01", resp.Filters.StartDate)
	assert.JSONEq(t, `{"total_orders":10}`, string(resp.Data))
}

func TestHTTPClient_GetReportData_StaysOnBaseHost(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{name: "absolute url", endpoint: "https://elsewhere.example.com/v1/reports/kpi?store_id=7"},
		{name: "scheme relative", endpoint: "//elsewhere.example.com/v1/reports/kpi?store_id=7"},
		{name: "no leading slash", endpoint: "v1/reports/kpi?store_id=7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				assert.Equal(t, "/v1/reports/kpi", r.URL.Path)
				assert.Equal(t, "1", r.URL.Query().Get("tenant_id"))
				assert.Equal(t, "7", r.URL.Query().Get("store_id"))
				_, _ = w.Write([]byte(`{"report":"kpi","data":{}}`))
			})

			_, err := c.GetReportData(context.Background(), tt.endpoint)
			require.NoError(t, err)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestHTTPClient_BasePathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dashboard/reports", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewAnalyticsClient(Config{BaseURL: srv.URL + "/api/"})
	require.NoError(t, err)

	resp, err := c.ListReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Reports)
}

func TestHTTPClient_NonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.RecentEvents(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "HTTP 503", Message(err, "Failed to fetch events"))
}

func TestHTTPClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	c, err := NewAnalyticsClient(Config{BaseURL: baseURL})
	require.NoError(t, err)

	_, err = c.ListReports(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, "Failed to fetch reports", Message(err, "Failed to fetch reports"))
}

func TestHTTPClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.RecentEvents(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}
