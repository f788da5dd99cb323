package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veya/analytics-dashboard/pkg/runtime/terminal/export"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/viewmodel"
)

type EventsCmd struct {
	backend  Backend
	reporter *export.Reporter
}

func NewEventsCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	ec := &EventsCmd{backend: backend, reporter: reporter}
	return &cobra.Command{
		Use:   "events",
		Short: "Print the most recent analytics events",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}
}

func (ec *EventsCmd) run(cmd *cobra.Command, _ []string) error {
	settings := ec.backend.Settings()
	ctx, cancel := context.WithTimeout(cmd.Context(), settings.Analytics.Timeout+settings.Live.PollInterval)
	defer cancel()

	stream := livestream.Start(ctx, ec.backend.Client(), livestream.Config{
		PollInterval: settings.Live.PollInterval,
	})
	defer stream.Close()

	if err := stream.WaitLoaded(ctx); err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	snap := stream.Snapshot()
	if snap.Error != "" {
		return errors.New(snap.Error)
	}
	return ec.reporter.Events(viewmodel.NewLivePage(snap, displayLocation))
}
