package adapters

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veya/analytics-dashboard/pkg/models/api"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
)

func TestMapAPIEventsToDomainEvents(t *testing.T) {
	resp := &api.RecentEventsResponse{Data: []json.RawMessage{
		json.RawMessage(`{"Tenant_ID":1,"EVENT_NAME":"search","session_id":"s1"}`),
		json.RawMessage(`{"tenant_id":2,"event_name":"add_to_cart","session_id":"s2"}`),
		json.RawMessage(`{"tenant_id":3,"event_name":"page_view","session_id":"s3"}`),
	}}

	events, err := MapAPIEventsToDomainEvents(resp)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, domain.EventSearch, events[0].Name())
	assert.Equal(t, "1", events[0].TenantID())
	assert.Equal(t, []string{"tenant_id", "event_name", "session_id"}, events[0].Keys())
	assert.Equal(t, "s2", events[1].SessionID())
	assert.Equal(t, "s3", events[2].SessionID())
}

func TestMapAPIEventsToDomainEvents_NestedKeyOrder(t *testing.T) {
	resp := &api.RecentEventsResponse{Data: []json.RawMessage{
		json.RawMessage(`{"Event_Name":"search","meta":{"zeta":1,"alpha":2,"Mid":3}}`),
	}}

	events, err := MapAPIEventsToDomainEvents(resp)
	require.NoError(t, err)
	require.Len(t, events, 1)

	out, err := json.Marshal(events[0].Record)
	require.NoError(t, err)
	assert.Equal(t, `{"event_name":"search","meta":{"zeta":1,"alpha":2,"Mid":3}}`, string(out))
}

func TestMapAPIEventsToDomainEvents_MissingData(t *testing.T) {
	events, err := MapAPIEventsToDomainEvents(&api.RecentEventsResponse{})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = MapAPIEventsToDomainEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMapAPIReportsToDomainReports(t *testing.T) {
	reports := MapAPIReportsToDomainReports(&api.ReportsResponse{Reports: []api.Report{{
		ID:              "funnel",
		Name:            "Checkout Funnel",
		Endpoint:        "/v1/reports/funnel",
		ChartType:       "funnel",
		RefreshInterval: 300,
	}}})

	assert.Equal(t, []domain.Report{{
		ID:              "funnel",
		Name:            "Checkout Funnel",
		Endpoint:        "/v1/reports/funnel",
		ChartType:       domain.ChartFunnel,
		RefreshInterval: 300,
	}}, reports)

	assert.Empty(t, MapAPIReportsToDomainReports(&api.ReportsResponse{}))
}

func TestMapAPIPayloadToDomainPayload(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		expectedKind    domain.PayloadKind
		expectedColumns []string
		expectedRows    int
		expectedMetrics []string
	}{
		{
			name:            "metrics object",
			raw:             `{"Total_Orders":10,"conversion_rate":null}`,
			expectedKind:    domain.PayloadMetrics,
			expectedMetrics: []string{"total_orders", "conversion_rate"},
		},
		{
			name:            "rows",
			raw:             `[{"A":1,"b":2},{"a":3,"B":4}]`,
			expectedKind:    domain.PayloadRows,
			expectedColumns: []string{"a", "b"},
			expectedRows:    2,
		},
		{
			name:            "rows with differing keys use first row",
			raw:             `[{"x":1},{"y":2,"x":3}]`,
			expectedKind:    domain.PayloadRows,
			expectedColumns: []string{"x"},
			expectedRows:    2,
		},
		{name: "empty array", raw: `[]`, expectedKind: domain.PayloadEmpty},
		{name: "null", raw: `null`, expectedKind: domain.PayloadEmpty},
		{name: "missing", raw: ``, expectedKind: domain.PayloadEmpty},
		{name: "scalar", raw: `42`, expectedKind: domain.PayloadEmpty},
		{
			name:         "array of scalars",
			raw:          `[1,2]`,
			expectedKind: domain.PayloadRows,
			expectedRows: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := MapAPIPayloadToDomainPayload(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKind, p.Kind)
			assert.Len(t, p.Rows, tt.expectedRows)
			if tt.expectedColumns != nil {
				assert.Equal(t, tt.expectedColumns, p.Columns)
			}
			if tt.expectedMetrics != nil {
				assert.Equal(t, tt.expectedMetrics, p.Metrics.Keys())
			}
		})
	}
}

func TestMapAPIReportDataToDomainReportData(t *testing.T) {
	store := "store-9"
	resp := &api.ReportDataResponse{
		Report:      "kpi",
		TenantID:    "1",
		Cached:      true,
		GeneratedAt: "2025-02-01T00:00:00Z",
		Filters: api.ReportFilters{
			StartDate: "2025-01-01",
			EndDate:   "2025-01-31",
			StoreID:   &store,
		},
		Data: json.RawMessage(`{"Revenue":100}`),
	}

	data, err := MapAPIReportDataToDomainReportData(resp)
	require.NoError(t, err)
	assert.Equal(t, "kpi", data.Report)
	assert.True(t, data.Cached)
	assert.Equal(t, "2025-01-31", data.Filters.EndDate)
	require.NotNil(t, data.Filters.StoreID)
	assert.Equal(t, "store-9", *data.Filters.StoreID)
	assert.Equal(t, domain.PayloadMetrics, data.Data.Kind)
	assert.Equal(t, []string{"revenue"}, data.Data.Metrics.Keys())

	_, err = MapAPIReportDataToDomainReportData(nil)
	assert.Error(t, err)
}
