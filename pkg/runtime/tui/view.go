package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
	"github.com/veya/analytics-dashboard/pkg/viewmodel"
)

const bodyWidth = 48

// firstDataRow is the StyleFunc row index of the first data row.
const firstDataRow = lgtable.HeaderRow + 1

func (m Model) renderHeader() string {
	s := m.styles
	current := m.shell.Tab()

	tabs := make([]string, 0, len(shell.Tabs))
	for _, t := range shell.Tabs {
		style := s.tab
		if t == current {
			style = s.activeTab
		}
		tabs = append(tabs, style.Render(t.Title()))
	}

	theme := "dark"
	if !m.shell.Dark() {
		theme = "light"
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		s.title.Render(shell.Title),
		"  ",
		strings.Join(tabs, ""),
		"  ",
		s.status.Render("["+theme+"]"),
	)
	return top + "\n" + s.subtitle.Render(current.Subtitle())
}

func (m Model) renderLive() string {
	s := m.styles
	page := m.live

	status := page.Status
	if page.Updated != "" {
		status += " · " + page.Updated
	}
	lines := []string{s.status.Render(status)}
	if page.Error != "" {
		lines = append(lines, s.errorLine.Render(page.Error))
	}

	switch {
	case page.Detail != nil:
		lines = append(lines, m.renderDrawer(page.Detail))
	case page.Message != "":
		msg := page.Message
		if page.Message == viewmodel.LoadingEvents {
			msg = m.spinner.View() + " " + msg
		}
		lines = append(lines, s.message.Render(msg))
	default:
		lines = append(lines, m.renderEvents())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEvents() string {
	s := m.styles
	end := min(m.offset+m.visibleRows(), len(m.live.Rows))
	window := m.live.Rows[m.offset:end]

	rows := make([][]string, 0, len(window))
	for _, r := range window {
		cells := r.Cells()
		cells[4] = runewidth.Truncate(cells[4], bodyWidth, "…")
		rows = append(rows, cells)
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.palette.border)).
		Headers(viewmodel.EventColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return s.header
			}
			i := row - firstDataRow
			style := s.cell
			if m.offset+i == m.cursor {
				style = s.selected
			}
			if col == 2 && i >= 0 && i < len(window) {
				style = style.Foreground(s.eventColor(window[i].Color))
			}
			return style
		})

	footer := s.status.Render(fmt.Sprintf("%d of %d events", m.cursor+1, len(m.live.Rows)))
	return t.String() + "\n" + footer
}

func (m Model) renderDrawer(d *viewmodel.EventDetail) string {
	s := m.styles
	title := lipgloss.NewStyle().Bold(true).Foreground(s.eventColor(d.Color)).Render(d.Title)
	meta := s.status.Render(fmt.Sprintf("Tenant %s · %s", d.Tenant, d.Timestamp))
	body := lipgloss.JoinVertical(lipgloss.Left, title, meta, "", m.drawer.View())
	return s.drawer.Width(max(m.width-2, 20)).Render(body)
}

func (m Model) renderReports() string {
	s := m.styles
	page := m.reportsPage

	if page.Detail != nil {
		return m.renderReportDetail(page.Detail)
	}

	var lines []string
	if page.Error != "" {
		lines = append(lines, s.errorLine.Render(page.Error))
	}
	switch {
	case page.Message != "":
		msg := page.Message
		if page.Message == viewmodel.LoadingReports {
			msg = m.spinner.View() + " " + msg
		}
		lines = append(lines, s.message.Render(msg))
	case len(page.Rows) > 0:
		lines = append(lines, m.list.View())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderReportDetail(d *viewmodel.ReportDetail) string {
	s := m.styles

	header := s.title.Render(d.Name)
	if d.DateRange != "" {
		header += "  " + s.status.Render(d.DateRange)
	}
	if d.Cached {
		header += "  " + s.badge.Render("cached")
	}
	lines := []string{header}

	switch {
	case d.Error != "":
		lines = append(lines, s.errorLine.Render(d.Error))
	case d.Message != "":
		msg := d.Message
		if d.Message == viewmodel.LoadingReportData {
			msg = m.spinner.View() + " " + msg
		}
		lines = append(lines, s.message.Render(msg))
	default:
		lines = append(lines, m.renderReportTable(d.Table))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderReportTable(t viewmodel.Table) string {
	s := m.styles
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.palette.border)).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return s.header
			}
			return s.cell
		}).
		String()
}
