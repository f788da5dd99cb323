package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/veya/analytics-dashboard/pkg/models/api"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListReports(ctx context.Context) (*api.ReportsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ReportsResponse), args.Error(1)
}

func (m *mockSource) GetReportData(ctx context.Context, endpoint string) (*api.ReportDataResponse, error) {
	args := m.Called(ctx, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ReportDataResponse), args.Error(1)
}

var (
	kpiReport = domain.Report{
		ID:        "kpi",
		Name:      "KPI Overview",
		Endpoint:  "/v1/reports/kpi",
		ChartType: domain.ChartStatCards,
	}
	funnelReport = domain.Report{
		ID:        "funnel",
		Name:      "Checkout Funnel",
		Endpoint:  "/v1/reports/funnel",
		ChartType: domain.ChartFunnel,
	}
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestView_Activate(t *testing.T) {
	tests := []struct {
		name            string
		setupMock       func(*mockSource)
		expectedReports []string
		expectedError   string
	}{
		{
			name: "successful response",
			setupMock: func(m *mockSource) {
				m.On("ListReports", mock.Anything).Return(&api.ReportsResponse{Reports: []api.Report{
					{ID: "kpi", Name: "KPI Overview"},
					{ID: "funnel", Name: "Checkout Funnel"},
				}}, nil).Once()
			},
			expectedReports: []string{"kpi", "funnel"},
		},
		{
			name: "missing reports",
			setupMock: func(m *mockSource) {
				m.On("ListReports", mock.Anything).Return(&api.ReportsResponse{}, nil).Once()
			},
			expectedReports: []string{},
		},
		{
			name: "http failure",
			setupMock: func(m *mockSource) {
				m.On("ListReports", mock.Anything).Return(nil, &client.HTTPError{StatusCode: 500}).Once()
			},
			expectedReports: []string{},
			expectedError:   "HTTP 500",
		},
		{
			name: "network failure",
			setupMock: func(m *mockSource) {
				m.On("ListReports", mock.Anything).Return(nil, client.ErrNetwork).Once()
			},
			expectedReports: []string{},
			expectedError:   "Failed to fetch reports",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{}
			tt.setupMock(source)

			v := NewView(source)
			assert.True(t, v.Snapshot().ListLoading)

			v.Activate(testContext(t))
			v.Activate(testContext(t))

			snap := v.Snapshot()
			assert.False(t, snap.ListLoading)
			assert.Equal(t, tt.expectedError, snap.ListError)
			ids := []string{}
			for _, r := range snap.Reports {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expectedReports, ids)
			source.AssertNumberOfCalls(t, "ListReports", 1)
		})
	}
}

func TestView_Find(t *testing.T) {
	source := &mockSource{}
	source.On("ListReports", mock.Anything).Return(&api.ReportsResponse{Reports: []api.Report{
		{ID: "kpi", Name: "KPI Overview", Endpoint: "/v1/reports/kpi", ChartType: "stat_cards"},
	}}, nil)

	v := NewView(source)
	v.Activate(testContext(t))

	r, ok := v.Find("kpi")
	require.True(t, ok)
	assert.Equal(t, kpiReport, r)

	_, ok = v.Find("missing")
	assert.False(t, ok)
}

func TestView_Load(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*mockSource)
		expectedKind  domain.PayloadKind
		expectedData  bool
		expectedError string
	}{
		{
			name: "metrics",
			setupMock: func(m *mockSource) {
				m.On("GetReportData", mock.Anything, "/v1/reports/kpi").Return(&api.ReportDataResponse{
					Report: "kpi",
					Cached: true,
					Data:   json.RawMessage(`{"Total_Revenue":1234.5,"conversion_rate":null}`),
				}, nil)
			},
			expectedKind: domain.PayloadMetrics,
			expectedData: true,
		},
		{
			name: "null data",
			setupMock: func(m *mockSource) {
				m.On("GetReportData", mock.Anything, "/v1/reports/kpi").Return(&api.ReportDataResponse{
					Data: json.RawMessage(`null`),
				}, nil)
			},
			expectedKind: domain.PayloadEmpty,
			expectedData: true,
		},
		{
			name: "not found",
			setupMock: func(m *mockSource) {
				m.On("GetReportData", mock.Anything, "/v1/reports/kpi").Return(nil, &client.HTTPError{StatusCode: 404})
			},
			expectedError: "HTTP 404",
		},
		{
			name: "network failure",
			setupMock: func(m *mockSource) {
				m.On("GetReportData", mock.Anything, "/v1/reports/kpi").Return(nil, errors.New("dial tcp: refused"))
			},
			expectedError: "Failed to fetch report data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{}
			tt.setupMock(source)

			v := NewView(source)
			v.Load(testContext(t), kpiReport)

			snap := v.Snapshot()
			require.NotNil(t, snap.Active)
			assert.Equal(t, "kpi", snap.Active.ID)
			assert.False(t, snap.DetailLoading)
			assert.Equal(t, tt.expectedError, snap.DetailError)
			if tt.expectedData {
				require.NotNil(t, snap.Data)
				assert.Equal(t, tt.expectedKind, snap.Data.Data.Kind)
			} else {
				assert.Nil(t, snap.Data)
			}
		})
	}
}

func TestView_OpenClearsPrevious(t *testing.T) {
	source := &mockSource{}
	source.On("GetReportData", mock.Anything, "/v1/reports/kpi").
		Return(&api.ReportDataResponse{Data: json.RawMessage(`{"a":1}`)}, nil)

	v := NewView(source)
	v.Load(testContext(t), kpiReport)
	require.NotNil(t, v.Snapshot().Data)

	v.Open(funnelReport)

	snap := v.Snapshot()
	assert.Equal(t, "funnel", snap.Active.ID)
	assert.Nil(t, snap.Data)
	assert.Empty(t, snap.DetailError)
	assert.True(t, snap.DetailLoading)
}

func TestView_LatestSelectionWins(t *testing.T) {
	ctx := testContext(t)
	v := NewView(&mockSource{})

	// Given A is opened and then B before either response arrives
	tokenA := v.Open(kpiReport)
	tokenB := v.Open(funnelReport)

	dataA := &domain.ReportData{Report: "kpi", Data: domain.EmptyPayload()}
	dataB := &domain.ReportData{Report: "funnel", Data: domain.EmptyPayload()}

	// When B resolves first and A resolves late
	assert.True(t, v.Resolve(ctx, tokenB, dataB, nil))
	assert.False(t, v.Resolve(ctx, tokenA, dataA, nil))

	// Then B stays on screen
	snap := v.Snapshot()
	assert.Equal(t, "funnel", snap.Active.ID)
	require.NotNil(t, snap.Data)
	assert.Equal(t, "funnel", snap.Data.Report)

	// A late failure for A does not replace it either
	assert.False(t, v.Resolve(ctx, tokenA, nil, &client.HTTPError{StatusCode: 500}))
	assert.Empty(t, v.Snapshot().DetailError)
}

func TestView_Back(t *testing.T) {
	ctx := testContext(t)
	v := NewView(&mockSource{})

	token := v.Open(kpiReport)
	v.Back()
	assert.False(t, v.Resolve(ctx, token, &domain.ReportData{Report: "kpi"}, nil))

	snap := v.Snapshot()
	assert.Nil(t, snap.Active)
	assert.Nil(t, snap.Data)
	assert.Empty(t, snap.DetailError)
	assert.False(t, snap.DetailLoading)
}

func TestView_Close(t *testing.T) {
	ctx := testContext(t)
	source := &mockSource{}
	v := NewView(source)

	token := v.Open(kpiReport)
	v.Close()
	assert.False(t, v.Resolve(ctx, token, &domain.ReportData{Report: "kpi"}, nil))

	v.Activate(ctx)
	source.AssertNotCalled(t, "ListReports", mock.Anything)
}
