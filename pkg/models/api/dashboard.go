package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RecentEventsResponse is the body of GET /v1/dashboard/recent-events.
type RecentEventsResponse struct {
	Data []json.RawMessage `json:"data"`
}

// ReportsResponse is the body of GET /v1/dashboard/reports.
type ReportsResponse struct {
	Reports []Report `json:"reports"`
}

type Report struct {
	ID              FlexString `json:"id"`
	Name            string     `json:"name"`
	Endpoint        string     `json:"endpoint"`
	ChartType       string     `json:"chart_type"`
	RefreshInterval FlexNumber `json:"refresh_interval"`
}

type ReportFilters struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StoreID   *string `json:"store_id"`
}

// ReportDataResponse is the body of GET {report.endpoint}.
type ReportDataResponse struct {
	Report      string          `json:"report"`
	TenantID    FlexString      `json:"tenant_id"`
	Cached      bool            `json:"cached"`
	GeneratedAt string          `json:"generated_at"`
	Filters     ReportFilters   `json:"filters"`
	Data        json.RawMessage `json:"data"`
}

// FlexString accepts a JSON string, number or null.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*s = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = FlexString(n.String())
	return nil
}

// FlexNumber accepts a JSON number, a numeric string or null. Anything else
// decodes to zero so one odd field does not fail a whole list.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = 0
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(str))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*n = FlexNumber(f)
	return nil
}
