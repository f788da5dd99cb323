package shell

import (
	"context"
	"sync"

	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/services/reports"
)

const Title = "Veya Analytics Dashboard"

type Tab int

const (
	TabLiveStream Tab = iota
	TabReports
)

var Tabs = []Tab{TabLiveStream, TabReports}

func (t Tab) Title() string {
	switch t {
	case TabReports:
		return "Reports"
	default:
		return "Live Stream"
	}
}

func (t Tab) Subtitle() string {
	switch t {
	case TabReports:
		return "Browse and view analytics reports"
	default:
		return "Real-time event feed from your analytics"
	}
}

// Slug is the tab name used in URLs and on the command line.
func (t Tab) Slug() string {
	switch t {
	case TabReports:
		return "reports"
	default:
		return "live"
	}
}

func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// Factory builds the view of a tab each time it is activated.
type Factory interface {
	NewLiveStream(ctx context.Context) *livestream.Stream
	NewReports(ctx context.Context) *reports.View
}

// Shell mounts exactly one view at a time. Switching tabs tears the
// previous view down and activates the new one from scratch.
type Shell struct {
	factory Factory

	mu      sync.Mutex
	tab     Tab
	dark    bool
	live    *livestream.Stream
	reports *reports.View
}

// New starts on the Live Stream tab in dark mode.
func New(ctx context.Context, factory Factory) *Shell {
	s := &Shell{
		factory: factory,
		tab:     TabLiveStream,
		dark:    true,
	}
	s.live = factory.NewLiveStream(ctx)
	return s
}

func (s *Shell) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *Shell) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// ToggleTheme flips dark mode and returns the new value.
func (s *Shell) ToggleTheme() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = !s.dark
	return s.dark
}

// Switch activates tab. Switching to the current tab keeps its view.
func (s *Shell) Switch(ctx context.Context, tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab == s.tab && (s.live != nil || s.reports != nil) {
		return
	}

	s.teardownLocked()
	s.tab = tab
	switch tab {
	case TabReports:
		s.reports = s.factory.NewReports(ctx)
	default:
		s.live = s.factory.NewLiveStream(ctx)
	}
}

// LiveStream returns the mounted Live Stream view, or nil on another tab.
func (s *Shell) LiveStream() *livestream.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Reports returns the mounted reports view, or nil on another tab.
func (s *Shell) Reports() *reports.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports
}

func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

func (s *Shell) teardownLocked() {
	if s.live != nil {
		s.live.Close()
		s.live = nil
	}
	if s.reports != nil {
		s.reports.Close()
		s.reports = nil
	}
}
