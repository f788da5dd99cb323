package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/veya/analytics-dashboard/pkg/format"
)

type palette struct {
	fg     lipgloss.Color
	dim    lipgloss.Color
	accent lipgloss.Color
	selBg  lipgloss.Color
	border lipgloss.Color
	err    lipgloss.Color
	events map[format.Color]lipgloss.Color
}

var (
	darkPalette = palette{
		fg:     lipgloss.Color("#e5e7eb"),
		dim:    lipgloss.Color("#9ca3af"),
		accent: lipgloss.Color("#60a5fa"),
		selBg:  lipgloss.Color("#374151"),
		border: lipgloss.Color("#4b5563"),
		err:    lipgloss.Color("#f87171"),
		events: map[format.Color]lipgloss.Color{
			format.ColorBlue:    lipgloss.Color("#60a5fa"),
			format.ColorAmber:   lipgloss.Color("#fbbf24"),
			format.ColorPurple:  lipgloss.Color("#c084fc"),
			format.ColorEmerald: lipgloss.Color("#34d399"),
			format.ColorCyan:    lipgloss.Color("#22d3ee"),
			format.ColorOrange:  lipgloss.Color("#fb923c"),
		},
	}
	lightPalette = palette{
		fg:     lipgloss.Color("#111827"),
		dim:    lipgloss.Color("#6b7280"),
		accent: lipgloss.Color("#2563eb"),
		selBg:  lipgloss.Color("#e5e7eb"),
		border: lipgloss.Color("#d1d5db"),
		err:    lipgloss.Color("#dc2626"),
		events: map[format.Color]lipgloss.Color{
			format.ColorBlue:    lipgloss.Color("#2563eb"),
			format.ColorAmber:   lipgloss.Color("#d97706"),
			format.ColorPurple:  lipgloss.Color("#9333ea"),
			format.ColorEmerald: lipgloss.Color("#059669"),
			format.ColorCyan:    lipgloss.Color("#0891b2"),
			format.ColorOrange:  lipgloss.Color("#ea580c"),
		},
	}
)

type styles struct {
	palette palette

	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	subtitle  lipgloss.Style
	status    lipgloss.Style
	errorLine lipgloss.Style
	message   lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	selected  lipgloss.Style
	drawer    lipgloss.Style
	badge     lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return styles{
		palette:   p,
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		tab:       lipgloss.NewStyle().Padding(0, 2).Foreground(p.dim),
		activeTab: lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(p.accent).Underline(true),
		subtitle:  lipgloss.NewStyle().Foreground(p.dim).Italic(true),
		status:    lipgloss.NewStyle().Foreground(p.dim),
		errorLine: lipgloss.NewStyle().Foreground(p.err).Bold(true),
		message:   lipgloss.NewStyle().Foreground(p.dim).Padding(1, 2),
		header:    lipgloss.NewStyle().Bold(true).Foreground(p.fg).Padding(0, 1),
		cell:      lipgloss.NewStyle().Foreground(p.fg).Padding(0, 1),
		selected:  lipgloss.NewStyle().Foreground(p.fg).Background(p.selBg).Padding(0, 1),
		drawer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		badge: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
	}
}

func (s styles) eventColor(c format.Color) lipgloss.Color {
	if color, ok := s.palette.events[c]; ok {
		return color
	}
	return s.palette.fg
}
