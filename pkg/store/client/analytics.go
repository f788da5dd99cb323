package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/models/api"
)

const (
	RecentEventsPath = "/v1/dashboard/recent-events"
	ReportsPath      = "/v1/dashboard/reports"

	defaultTenantID = "1"
	defaultTimeout  = 15 * time.Second
)

// AnalyticsClient reads the dashboard endpoints of the analytics backend.
type AnalyticsClient interface {
	RecentEvents(ctx context.Context) (*api.RecentEventsResponse, error)
	ListReports(ctx context.Context) (*api.ReportsResponse, error)
	GetReportData(ctx context.Context, endpoint string) (*api.ReportDataResponse, error)
}

type Config struct {
	BaseURL    string
	TenantID   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type HTTPClient struct {
	baseURL  *url.URL
	tenantID string
	http     *http.Client
}

func NewAnalyticsClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid analytics base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("analytics base url %q must be absolute", cfg.BaseURL)
	}

	if cfg.TenantID == "" {
		cfg.TenantID = defaultTenantID
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL:  base,
		tenantID: cfg.TenantID,
		http:     httpClient,
	}, nil
}

func (c *HTTPClient) RecentEvents(ctx context.Context) (*api.RecentEventsResponse, error) {
	var resp api.RecentEventsResponse
	if err := c.get(ctx, RecentEventsPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListReports(ctx context.Context) (*api.ReportsResponse, error) {
	var resp api.ReportsResponse
	if err := c.get(ctx, ReportsPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetReportData fetches a report endpoint scoped to the configured tenant.
func (c *HTTPClient) GetReportData(ctx context.Context, endpoint string) (*api.ReportDataResponse, error) {
	query := url.Values{}
	query.Set("tenant_id", c.tenantID)

	var resp api.ReportDataResponse
	if err := c.get(ctx, endpoint, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) resolve(endpoint string, query url.Values) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	// Endpoints are always paths under the base URL; a scheme or host in
	// the endpoint is ignored.
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	u.Fragment = ""

	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	logger := zerolog.Ctx(ctx)

	target, err := c.resolve(endpoint, query)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("url", target).Msg("analytics request failed")
		return fmt.Errorf("%w: GET %s: %v", ErrNetwork, endpoint, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close analytics response body")
		}
	}(resp.Body)

	logger.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("analytics request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrDecode, endpoint, err)
	}
	return nil
}
