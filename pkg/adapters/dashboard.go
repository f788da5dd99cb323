package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/veya/analytics-dashboard/pkg/models/api"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/normalize"
)

// MapAPIEventsToDomainEvents decodes and normalizes the recent events feed.
// A missing data array yields no events.
func MapAPIEventsToDomainEvents(resp *api.RecentEventsResponse) ([]domain.LiveEvent, error) {
	if resp == nil {
		return []domain.LiveEvent{}, nil
	}

	events := make([]domain.LiveEvent, 0, len(resp.Data))
	for i, raw := range resp.Data {
		record, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", i, err)
		}
		events = append(events, domain.LiveEvent{Record: normalize.Keys(record)})
	}
	return events, nil
}

func MapAPIReportsToDomainReports(resp *api.ReportsResponse) []domain.Report {
	if resp == nil {
		return []domain.Report{}
	}

	reports := make([]domain.Report, 0, len(resp.Reports))
	for _, r := range resp.Reports {
		reports = append(reports, MapAPIReportToDomainReport(r))
	}
	return reports
}

func MapAPIReportToDomainReport(r api.Report) domain.Report {
	return domain.Report{
		ID:              string(r.ID),
		Name:            r.Name,
		Endpoint:        r.Endpoint,
		ChartType:       domain.ChartType(r.ChartType),
		RefreshInterval: float64(r.RefreshInterval),
	}
}

func MapAPIReportDataToDomainReportData(resp *api.ReportDataResponse) (*domain.ReportData, error) {
	if resp == nil {
		return nil, fmt.Errorf("report data response is nil")
	}

	payload, err := MapAPIPayloadToDomainPayload(resp.Data)
	if err != nil {
		return nil, err
	}

	return &domain.ReportData{
		Report:      resp.Report,
		TenantID:    string(resp.TenantID),
		Cached:      resp.Cached,
		GeneratedAt: resp.GeneratedAt,
		Filters: domain.ReportFilters{
			StartDate: resp.Filters.StartDate,
			EndDate:   resp.Filters.EndDate,
			StoreID:   resp.Filters.StoreID,
		},
		Data: payload,
	}, nil
}

// MapAPIPayloadToDomainPayload normalizes a report data root. Objects become
// metrics, arrays become rows (elements that are not objects become empty
// rows), and null, missing or scalar values carry no data.
func MapAPIPayloadToDomainPayload(raw json.RawMessage) (domain.Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return domain.EmptyPayload(), nil
	}

	switch trimmed[0] {
	case '{':
		record, err := decodeRecord(trimmed)
		if err != nil {
			return domain.Payload{}, fmt.Errorf("failed to decode report metrics: %w", err)
		}
		return domain.MetricsPayload(normalize.Keys(record)), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return domain.Payload{}, fmt.Errorf("failed to decode report rows: %w", err)
		}
		rows := make([]domain.Record, 0, len(items))
		for i, item := range items {
			record, err := decodeRecord(item)
			if err != nil {
				return domain.Payload{}, fmt.Errorf("failed to decode report row %d: %w", i, err)
			}
			rows = append(rows, record)
		}
		return domain.RowsPayload(normalize.Rows(rows)), nil
	default:
		return domain.EmptyPayload(), nil
	}
}

func decodeRecord(raw json.RawMessage) (domain.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.NewRecord(), nil
	}
	var record domain.Record
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return domain.Record{}, err
	}
	return record, nil
}
