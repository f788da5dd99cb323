package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/veya/analytics-dashboard/pkg/runtime/tui"
)

type TuiCmd struct {
	backend Backend
}

func NewTuiCmd(backend Backend) *cobra.Command {
	tc := &TuiCmd{backend: backend}
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  tc.run,
	}
}

func (tc *TuiCmd) run(cmd *cobra.Command, _ []string) error {
	settings := tc.backend.Settings()

	// Anything logged to the terminal would tear the screen.
	ctx := cmd.Context()
	if settings.Log.File == "" {
		nop := zerolog.Nop()
		ctx = nop.WithContext(ctx)
	}

	return tui.Run(ctx, tui.Options{
		Client:       tc.backend.Client(),
		PollInterval: settings.Live.PollInterval,
		Input:        cmd.InOrStdin(),
		Output:       cmd.OutOrStdout(),
	})
}
