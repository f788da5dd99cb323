package domain

// ChartType is the presentation hint the backend attaches to a report.
type ChartType string

const (
	ChartStatCards ChartType = "stat_cards"
	ChartFunnel    ChartType = "funnel"
	ChartBar       ChartType = "bar_chart"
	ChartLine      ChartType = "line_chart"
	ChartPie       ChartType = "pie_chart"
	ChartTable     ChartType = "table"
	ChartEventFeed ChartType = "event_feed"
)

// Report describes a queryable report and where its data lives.
type Report struct {
	ID              string
	Name            string
	Endpoint        string
	ChartType       ChartType
	RefreshInterval float64 // in seconds
}

type ReportFilters struct {
	StartDate string
	EndDate   string
	StoreID   *string
}

// ReportData is one fetched report with its normalized payload.
type ReportData struct {
	Report      string
	TenantID    string
	Cached      bool
	GeneratedAt string
	Filters     ReportFilters
	Data        Payload
}

type PayloadKind int

const (
	PayloadEmpty PayloadKind = iota
	PayloadMetrics
	PayloadRows
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadMetrics:
		return "metrics"
	case PayloadRows:
		return "rows"
	default:
		return "empty"
	}
}

// Payload is the data of a report: a flat metrics object, a list of rows
// sharing the columns of the first row, or nothing.
type Payload struct {
	Kind    PayloadKind
	Metrics Record
	Rows    []Record
	Columns []string
}

func EmptyPayload() Payload {
	return Payload{Kind: PayloadEmpty}
}

func MetricsPayload(metrics Record) Payload {
	return Payload{Kind: PayloadMetrics, Metrics: metrics}
}

// RowsPayload takes its columns from the first row. No rows means no data.
func RowsPayload(rows []Record) Payload {
	if len(rows) == 0 {
		return EmptyPayload()
	}
	return Payload{
		Kind:    PayloadRows,
		Rows:    rows,
		Columns: rows[0].Keys(),
	}
}
