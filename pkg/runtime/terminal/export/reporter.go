package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
	"github.com/veya/analytics-dashboard/pkg/viewmodel"
)

type TableConfig struct {
	MaxCellWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MaxCellWidth: 60,
	}
}

// Reporter prints dashboard pages as plain text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const eventsTemplate = `{{.Title}} | {{.Page.Status}}{{if .Page.Updated}} | {{.Page.Updated}}{{end}}
{{if .Page.Error}}Error: {{.Page.Error}}
{{end}}{{if .Page.Message}}{{.Page.Message}}
{{else}}{{table .Columns (eventCells .Page.Rows)}}{{end}}`

const reportsTemplate = `{{.Title}}
{{if .Page.Error}}Error: {{.Page.Error}}
{{end}}{{if .Page.Message}}{{.Page.Message}}
{{else if .Page.Rows}}{{table .Columns (reportCells .Page.Rows)}}{{end}}`

const reportTemplate = `{{.Name}}{{if .DateRange}} ({{.DateRange}}){{end}}{{if .Cached}} [cached]{{end}}
{{if .Error}}Error: {{.Error}}
{{else if .Message}}{{.Message}}
{{else}}{{table .Table.Columns .Table.Rows}}{{end}}`

func (c *Reporter) Events(page viewmodel.LivePage) error {
	return c.render("events", eventsTemplate, map[string]any{
		"Title":   shell.TabLiveStream.Title(),
		"Columns": viewmodel.EventColumns,
		"Page":    page,
	})
}

func (c *Reporter) Reports(page viewmodel.ReportsPage) error {
	return c.render("reports", reportsTemplate, map[string]any{
		"Title":   shell.TabReports.Title(),
		"Columns": append([]string{"ID"}, viewmodel.ReportColumns...),
		"Page":    page,
	})
}

func (c *Reporter) Report(detail viewmodel.ReportDetail) error {
	return c.render("report", reportTemplate, detail)
}

func (c *Reporter) render(name, text string, data any) error {
	funcMap := template.FuncMap{
		"table": c.table,
		"eventCells": func(rows []viewmodel.EventRow) [][]string {
			cells := make([][]string, 0, len(rows))
			for _, r := range rows {
				cells = append(cells, r.Cells())
			}
			return cells
		},
		"reportCells": func(rows []viewmodel.ReportRow) [][]string {
			cells := make([][]string, 0, len(rows))
			for _, r := range rows {
				cells = append(cells, append([]string{r.ID}, r.Cells()...))
			}
			return cells
		},
	}

	t, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

// table lays out columns and rows with a separator above and below the header.
func (c *Reporter) table(columns []string, rows [][]string) string {
	widths := make([]int, len(columns))
	clip := func(s string) string {
		return runewidth.Truncate(s, c.config.MaxCellWidth, "...")
	}
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(clip(col))
	}
	for _, row := range rows {
		for i := range columns {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(clip(row[i])))
			}
		}
	}

	var b strings.Builder
	separator := func() {
		b.WriteString("+")
		for _, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			b.WriteString("+")
		}
		b.WriteString("\n")
	}
	line := func(cells []string) {
		b.WriteString("|")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = clip(cells[i])
			}
			b.WriteString(" " + runewidth.FillRight(cell, w) + " |")
		}
		b.WriteString("\n")
	}

	separator()
	line(columns)
	separator()
	for _, row := range rows {
		line(row)
	}
	separator()
	return b.String()
}
