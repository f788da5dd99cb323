package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

type Options struct {
	Client        client.AnalyticsClient
	PollInterval  time.Duration
	Location      *time.Location
	StreamOptions []livestream.Option
	Input         io.Reader
	Output        io.Writer
}

// New builds the dashboard model, starting on the Live Stream tab.
func New(ctx context.Context, opts Options) Model {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	sh := shell.New(ctx, shell.ClientFactory{
		Client:        opts.Client,
		Live:          livestream.Config{PollInterval: opts.PollInterval},
		StreamOptions: opts.StreamOptions,
	})
	return newModel(ctx, sh, loc)
}

// Run starts the full-screen dashboard and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	defer m.shell.Close()

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
