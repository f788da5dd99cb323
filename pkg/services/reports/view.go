package reports

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/adapters"
	"github.com/veya/analytics-dashboard/pkg/models/api"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

const (
	listFailedMessage   = "Failed to fetch reports"
	detailFailedMessage = "Failed to fetch report data"
)

// Source is the part of the analytics client the reports view reads.
type Source interface {
	ListReports(ctx context.Context) (*api.ReportsResponse, error)
	GetReportData(ctx context.Context, endpoint string) (*api.ReportDataResponse, error)
}

type Snapshot struct {
	Reports     []domain.Report
	ListLoading bool
	ListError   string

	Active        *domain.Report
	Data          *domain.ReportData
	DetailLoading bool
	DetailError   string
}

// View holds the report list of one activation and the report opened from it.
// Detail fetches are guarded by a sequence token, so only the most recently
// opened report can change the state.
type View struct {
	source Source

	mu         sync.Mutex
	closed     bool
	listLoaded bool
	listBusy   bool
	reports    []domain.Report
	listError  string

	seq           uint64
	active        *domain.Report
	data          *domain.ReportData
	detailLoading bool
	detailError   string
}

func NewView(source Source) *View {
	return &View{
		source:  source,
		reports: []domain.Report{},
	}
}

// Activate fetches the report list. The list is fetched once per view and
// later calls are no-ops.
func (v *View) Activate(ctx context.Context) {
	v.mu.Lock()
	if v.closed || v.listLoaded || v.listBusy {
		v.mu.Unlock()
		return
	}
	v.listBusy = true
	v.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	var reports []domain.Report
	resp, err := v.source.ListReports(ctx)
	if err == nil {
		reports = adapters.MapAPIReportsToDomainReports(resp)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.listBusy = false
	if v.closed {
		return
	}
	v.listLoaded = true
	if err != nil {
		logger.Debug().Err(err).Msg("failed to fetch reports")
		v.reports = []domain.Report{}
		v.listError = client.Message(err, listFailedMessage)
		return
	}
	v.reports = reports
	v.listError = ""
}

// Find returns the listed report with the given id.
func (v *View) Find(id string) (domain.Report, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.reports {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Report{}, false
}

// Open makes report the active one, clearing the previous data and error.
// The returned token must be passed to Resolve with the fetch result.
func (v *View) Open(report domain.Report) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	r := report
	v.active = &r
	v.data = nil
	v.detailError = ""
	v.detailLoading = !v.closed
	return v.seq
}

// Fetch reads and normalizes the data of report without touching the view state.
func (v *View) Fetch(ctx context.Context, report domain.Report) (*domain.ReportData, error) {
	resp, err := v.source.GetReportData(ctx, report.Endpoint)
	if err != nil {
		return nil, err
	}
	data, err := adapters.MapAPIReportDataToDomainReportData(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrDecode, err)
	}
	return data, nil
}

// Resolve applies a fetch result. Results for anything but the latest opened
// report are dropped and false is returned.
func (v *View) Resolve(ctx context.Context, token uint64, data *domain.ReportData, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	if v.closed || token != v.seq || v.active == nil {
		logger.Debug().Uint64("token", token).Msg("discarding stale report response")
		return false
	}

	v.detailLoading = false
	if err != nil {
		logger.Debug().Err(err).Str("report", v.active.ID).Msg("failed to fetch report data")
		v.detailError = client.Message(err, detailFailedMessage)
		v.data = nil
		return true
	}
	v.data = data
	v.detailError = ""
	return true
}

// Load opens report and fetches its data.
func (v *View) Load(ctx context.Context, report domain.Report) {
	token := v.Open(report)
	data, err := v.Fetch(ctx, report)
	v.Resolve(ctx, token, data, err)
}

// Back returns to the list. Outstanding detail fetches are dropped.
func (v *View) Back() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	v.active = nil
	v.data = nil
	v.detailError = ""
	v.detailLoading = false
}

// Close discards any response still in flight.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.seq++
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	reports := make([]domain.Report, len(v.reports))
	copy(reports, v.reports)

	snap := Snapshot{
		Reports:       reports,
		ListLoading:   !v.listLoaded,
		ListError:     v.listError,
		DetailLoading: v.detailLoading,
		DetailError:   v.detailError,
	}
	if v.active != nil {
		r := *v.active
		snap.Active = &r
	}
	if v.data != nil {
		d := *v.data
		snap.Data = &d
	}
	return snap
}
