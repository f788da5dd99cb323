package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veya/analytics-dashboard/pkg/runtime/terminal/export"
	"github.com/veya/analytics-dashboard/pkg/services/reports"
	"github.com/veya/analytics-dashboard/pkg/viewmodel"
)

type ReportsCmd struct {
	backend  Backend
	reporter *export.Reporter
}

func NewReportsCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	rc := &ReportsCmd{backend: backend, reporter: reporter}
	return &cobra.Command{
		Use:   "reports",
		Short: "List available reports",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}
}

func (rc *ReportsCmd) run(cmd *cobra.Command, _ []string) error {
	view := reports.NewView(rc.backend.Client())
	defer view.Close()

	view.Activate(cmd.Context())
	snap := view.Snapshot()
	if snap.ListError != "" {
		return errors.New(snap.ListError)
	}
	return rc.reporter.Reports(viewmodel.NewReportsPage(snap))
}

type ReportCmd struct {
	backend  Backend
	reporter *export.Reporter
}

func NewReportCmd(backend Backend, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{backend: backend, reporter: reporter}
	return &cobra.Command{
		Use:   "report <id>",
		Short: "Print the data of one report",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	view := reports.NewView(rc.backend.Client())
	defer view.Close()

	view.Activate(ctx)
	if msg := view.Snapshot().ListError; msg != "" {
		return errors.New(msg)
	}

	report, ok := view.Find(args[0])
	if !ok {
		return fmt.Errorf("report %q not found", args[0])
	}

	view.Load(ctx, report)
	page := viewmodel.NewReportsPage(view.Snapshot())
	if page.Detail.Error != "" {
		return errors.New(page.Detail.Error)
	}
	return rc.reporter.Report(*page.Detail)
}
