package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/services/reports"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
	"github.com/veya/analytics-dashboard/pkg/viewmodel"
)

const (
	defaultWidth  = 120
	defaultHeight = 32
	chromeHeight  = 9
)

type streamUpdatedMsg struct {
	stream *livestream.Stream
}

type reportsListMsg struct {
	view *reports.View
}

type reportDataMsg struct {
	view *reports.View
}

func waitForUpdate(s *livestream.Stream) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-s.Updates(); !ok {
			return nil
		}
		return streamUpdatedMsg{stream: s}
	}
}

func activateReports(ctx context.Context, v *reports.View) tea.Cmd {
	return func() tea.Msg {
		v.Activate(ctx)
		return reportsListMsg{view: v}
	}
}

func loadReport(ctx context.Context, v *reports.View, token uint64, report domain.Report) tea.Cmd {
	return func() tea.Msg {
		data, err := v.Fetch(ctx, report)
		v.Resolve(ctx, token, data, err)
		return reportDataMsg{view: v}
	}
}

// Model is the bubbletea model of the dashboard. It mounts the views through
// the shell and re-reads their snapshots whenever they change.
type Model struct {
	ctx   context.Context
	shell *shell.Shell
	loc   *time.Location

	keys    keyMap
	styles  styles
	help    help.Model
	spinner spinner.Model
	list    table.Model
	drawer  viewport.Model

	width  int
	height int

	live   viewmodel.LivePage
	cursor int
	offset int

	reportsPage viewmodel.ReportsPage
}

func newModel(ctx context.Context, sh *shell.Shell, loc *time.Location) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:     ctx,
		shell:   sh,
		loc:     loc,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		list: table.New(
			table.WithColumns(reportColumns(defaultWidth)),
			table.WithFocused(true),
			table.WithHeight(defaultHeight-chromeHeight),
		),
		drawer: viewport.New(defaultWidth-4, defaultHeight-chromeHeight-3),
		width:  defaultWidth,
		height: defaultHeight,
		live:   viewmodel.LivePage{Status: "Live", Message: viewmodel.LoadingEvents},
	}
	m.applyTheme()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if s := m.shell.LiveStream(); s != nil {
		cmds = append(cmds, waitForUpdate(s))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case streamUpdatedMsg:
		if msg.stream != m.shell.LiveStream() {
			return m, nil
		}
		m.syncLive()
		return m, waitForUpdate(msg.stream)

	case reportsListMsg:
		if msg.view == m.shell.Reports() {
			m.syncReports()
		}
		return m, nil

	case reportDataMsg:
		if msg.view == m.shell.Reports() {
			m.syncReports()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shell.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		return m.switchTab(m.shell.Tab().Next())
	case key.Matches(msg, m.keys.Theme):
		m.shell.ToggleTheme()
		m.applyTheme()
		return m, nil
	}

	if m.shell.Tab() == shell.TabReports {
		return m.handleReportsKey(msg)
	}
	return m.handleLiveKey(msg)
}

func (m Model) switchTab(tab shell.Tab) (tea.Model, tea.Cmd) {
	m.shell.Switch(m.ctx, tab)
	m.cursor, m.offset = 0, 0
	m.live = viewmodel.LivePage{Status: "Live", Message: viewmodel.LoadingEvents}
	m.reportsPage = viewmodel.ReportsPage{Message: viewmodel.LoadingReports}

	switch tab {
	case shell.TabReports:
		v := m.shell.Reports()
		m.syncReports()
		return m, activateReports(m.ctx, v)
	default:
		s := m.shell.LiveStream()
		m.syncLive()
		return m, waitForUpdate(s)
	}
}

func (m Model) handleLiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	stream := m.shell.LiveStream()
	if stream == nil {
		return m, nil
	}

	if m.live.Detail != nil {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Enter):
			stream.CloseDetail()
			m.syncLive()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			stream.Refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.drawer, cmd = m.drawer.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Enter):
		if err := stream.Select(m.cursor); err != nil {
			zerolog.Ctx(m.ctx).Debug().Err(err).Msg("failed to open event detail")
			return m, nil
		}
		m.syncLive()
		m.drawer.GotoTop()
	case key.Matches(msg, m.keys.Pause):
		if m.live.Paused {
			stream.Resume()
		} else {
			stream.Pause()
		}
		m.syncLive()
	case key.Matches(msg, m.keys.Refresh):
		stream.Refresh()
	}
	return m, nil
}

func (m Model) handleReportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.shell.Reports()
	if view == nil {
		return m, nil
	}

	if m.reportsPage.Detail != nil {
		if key.Matches(msg, m.keys.Back) {
			view.Back()
			m.syncReports()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Enter) {
		i := m.list.Cursor()
		if i < 0 || i >= len(m.reportsPage.Rows) {
			return m, nil
		}
		report, ok := view.Find(m.reportsPage.Rows[i].ID)
		if !ok {
			return m, nil
		}
		token := view.Open(report)
		m.syncReports()
		return m, loadReport(m.ctx, view, token, report)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) syncLive() {
	stream := m.shell.LiveStream()
	if stream == nil {
		return
	}
	m.live = viewmodel.NewLivePage(stream.Snapshot(), m.loc)

	if m.cursor >= len(m.live.Rows) {
		m.cursor = max(len(m.live.Rows)-1, 0)
	}
	m.clampOffset()

	if m.live.Detail != nil {
		m.drawer.SetContent(m.live.Detail.JSON)
	}
}

func (m *Model) syncReports() {
	view := m.shell.Reports()
	if view == nil {
		return
	}
	m.reportsPage = viewmodel.NewReportsPage(view.Snapshot())

	rows := make([]table.Row, 0, len(m.reportsPage.Rows))
	for _, r := range m.reportsPage.Rows {
		rows = append(rows, table.Row(r.Cells()))
	}
	m.list.SetRows(rows)
	// SetCursor clamps to -1 while the table is empty.
	if len(rows) > 0 && (m.list.Cursor() < 0 || m.list.Cursor() >= len(rows)) {
		m.list.SetCursor(0)
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.live.Rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.live.Rows)-1)
	m.clampOffset()
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(m.offset, 0)
}

func (m *Model) visibleRows() int {
	// header row plus three border lines
	return max(m.height-chromeHeight-4, 3)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.list.SetColumns(reportColumns(width))
	m.list.SetHeight(max(height-chromeHeight, 3))
	m.drawer.Width = max(width-4, 10)
	m.drawer.Height = max(height-chromeHeight-3, 3)
	m.clampOffset()
}

func (m *Model) applyTheme() {
	m.styles = newStyles(m.shell.Dark())
	m.spinner.Style = lipgloss.NewStyle().Foreground(m.styles.palette.accent)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.styles.palette.border).
		BorderBottom(true).
		Bold(true).
		Foreground(m.styles.palette.fg)
	ts.Cell = ts.Cell.Foreground(m.styles.palette.fg)
	ts.Selected = ts.Selected.
		Foreground(m.styles.palette.fg).
		Background(m.styles.palette.selBg).
		Bold(false)
	m.list.SetStyles(ts)
}

func reportColumns(width int) []table.Column {
	name := max(width-40, 20)
	return []table.Column{
		{Title: viewmodel.ReportColumns[0], Width: name},
		{Title: viewmodel.ReportColumns[1], Width: 14},
		{Title: viewmodel.ReportColumns[2], Width: 10},
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.shell.Tab() == shell.TabReports {
		b.WriteString(m.renderReports())
	} else {
		b.WriteString(m.renderLive())
	}

	b.WriteString("\n")
	detailOpen := m.live.Detail != nil || m.reportsPage.Detail != nil
	b.WriteString(m.help.View(m.keys.forTab(m.shell.Tab() == shell.TabLiveStream, detailOpen)))
	return b.String()
}
