package format

import "github.com/veya/analytics-dashboard/pkg/models/domain"

// Color is a symbolic highlight color; each front end maps it to its palette.
type Color string

const (
	ColorDefault Color = "default"
	ColorBlue    Color = "blue"
	ColorAmber   Color = "amber"
	ColorPurple  Color = "purple"
	ColorEmerald Color = "emerald"
	ColorCyan    Color = "cyan"
	ColorOrange  Color = "orange"
)

var eventColors = map[domain.EventName]Color{
	domain.EventSessionStart:     ColorBlue,
	domain.EventAddToCart:        ColorAmber,
	domain.EventCheckoutStart:    ColorPurple,
	domain.EventCheckoutComplete: ColorEmerald,
	domain.EventProductView:      ColorCyan,
	domain.EventSearch:           ColorOrange,
}

var chartTypeLabels = map[domain.ChartType]string{
	domain.ChartStatCards: "KPI Cards",
	domain.ChartFunnel:    "Funnel",
	domain.ChartBar:       "Bar Chart",
	domain.ChartLine:      "Line Chart",
	domain.ChartPie:       "Pie Chart",
	domain.ChartTable:     "Table",
	domain.ChartEventFeed: "Live Feed",
}

func EventColor(name domain.EventName) Color {
	if c, ok := eventColors[name]; ok {
		return c
	}
	return ColorDefault
}

// ChartTypeLabel falls back to the raw chart type for unknown values.
func ChartTypeLabel(ct domain.ChartType) string {
	if label, ok := chartTypeLabels[ct]; ok {
		return label
	}
	return string(ct)
}
