package viewmodel

import (
	"strconv"

	"github.com/veya/analytics-dashboard/pkg/format"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/services/reports"
)

const (
	LoadingReports    = "Loading reports..."
	NoReports         = "No reports available"
	LoadingReportData = "Loading report data..."
	NoData            = "No data available"
)

var ReportColumns = []string{"Name", "Type", "Refresh"}

type ReportRow struct {
	ID        string
	Name      string
	ChartType string
	Refresh   string
}

func (r ReportRow) Cells() []string {
	return []string{r.Name, r.ChartType, r.Refresh}
}

type TableKind int

const (
	TableEmpty TableKind = iota
	TableKeyValue
	TableGrid
)

// Table is a rendered report payload: a Metric/Value table, a grid, or nothing.
type Table struct {
	Kind    TableKind
	Columns []string
	Rows    [][]string
}

type ReportDetail struct {
	Name      string
	DateRange string
	Cached    bool
	Message   string
	Error     string
	Table     Table
}

type ReportsPage struct {
	Rows    []ReportRow
	Message string
	Error   string
	Detail  *ReportDetail
}

func NewReportRow(r domain.Report) ReportRow {
	return ReportRow{
		ID:        r.ID,
		Name:      r.Name,
		ChartType: format.ChartTypeLabel(r.ChartType),
		Refresh:   strconv.FormatFloat(r.RefreshInterval, 'f', -1, 64) + "s",
	}
}

// NewTable renders a payload. Metrics skip null values; grid rows follow the
// columns of the first row and show the placeholder for missing keys.
func NewTable(p domain.Payload) Table {
	switch p.Kind {
	case domain.PayloadMetrics:
		t := Table{Kind: TableKeyValue, Columns: []string{"Metric", "Value"}}
		for _, f := range p.Metrics.Fields() {
			if f.Value == nil {
				continue
			}
			t.Rows = append(t.Rows, []string{format.Key(f.Key), format.Value(f.Key, f.Value)})
		}
		return t
	case domain.PayloadRows:
		t := Table{Kind: TableGrid}
		for _, col := range p.Columns {
			t.Columns = append(t.Columns, format.Key(col))
		}
		for _, row := range p.Rows {
			cells := make([]string, 0, len(p.Columns))
			for _, col := range p.Columns {
				v, _ := row.Get(col)
				cells = append(cells, format.Value(col, v))
			}
			t.Rows = append(t.Rows, cells)
		}
		return t
	default:
		return Table{Kind: TableEmpty}
	}
}

func NewReportsPage(snap reports.Snapshot) ReportsPage {
	page := ReportsPage{Error: snap.ListError}
	for _, r := range snap.Reports {
		page.Rows = append(page.Rows, NewReportRow(r))
	}

	switch {
	case snap.ListLoading:
		page.Message = LoadingReports
	case len(page.Rows) == 0 && snap.ListError == "":
		page.Message = NoReports
	}

	if snap.Active != nil {
		detail := newReportDetail(snap)
		page.Detail = &detail
	}
	return page
}

func newReportDetail(snap reports.Snapshot) ReportDetail {
	detail := ReportDetail{
		Name:  snap.Active.Name,
		Error: snap.DetailError,
	}

	switch {
	case snap.DetailLoading:
		detail.Message = LoadingReportData
	case snap.DetailError != "":
	case snap.Data != nil:
		detail.Table = NewTable(snap.Data.Data)
		detail.Cached = snap.Data.Cached
		if snap.Data.Filters.StartDate != "" || snap.Data.Filters.EndDate != "" {
			detail.DateRange = snap.Data.Filters.StartDate + " — " + snap.Data.Filters.EndDate
		}
		if detail.Table.Kind == TableEmpty {
			detail.Message = NoData
		}
	}
	return detail
}
