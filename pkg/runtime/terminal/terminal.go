package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/veya/analytics-dashboard/pkg/logging"
	"github.com/veya/analytics-dashboard/pkg/runtime/terminal/commands"
	"github.com/veya/analytics-dashboard/pkg/runtime/terminal/export"
	"github.com/veya/analytics-dashboard/pkg/services/config"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
	logOut   io.Writer

	configPath   string
	profile      string
	profilesFile string
	baseURL      string

	settings  *config.Settings
	client    client.AnalyticsClient
	logCloser io.Closer
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	ErrOutput io.Writer
	Args      []string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		logOut:   opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	cli.rootCmd.SetErr(opts.ErrOutput)
	if opts.Args != nil {
		cli.rootCmd.SetArgs(opts.Args)
	}
	return cli
}

func (cli *CLI) Execute() error {
	defer cli.close()
	return cli.rootCmd.Execute()
}

func (cli *CLI) Settings() *config.Settings {
	return cli.settings
}

func (cli *CLI) Client() client.AnalyticsClient {
	return cli.client
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "dashboard",
		Short:             "Veya analytics dashboard",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.configPath, "config", "c", "", "Path to a dashboard config file (yaml, toml or json)")
	flags.StringVar(&cli.profile, "profile", "", "Backend profile to use from the profiles file")
	flags.StringVar(&cli.profilesFile, "profiles-file", config.DefaultProfilesPath(), "Path to the backend profiles file")
	flags.StringVar(&cli.baseURL, "base-url", "", "Analytics API base URL, overrides config and profile")

	cmd.AddCommand(commands.NewTuiCmd(cli))
	cmd.AddCommand(commands.NewEventsCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewReportsCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewReportCmd(cli, cli.reporter))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(cli.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyProfile(cmd.Context(), settings, cli.profilesFile, cli.profile); err != nil {
		return err
	}
	if cli.baseURL != "" {
		settings.Analytics.BaseURL = cli.baseURL
	}

	logger, closer, err := logging.New(settings.Log, cli.logOut)
	if err != nil {
		return err
	}
	cli.logCloser = closer

	analytics, err := client.NewAnalyticsClient(client.Config{
		BaseURL:  settings.Analytics.BaseURL,
		TenantID: settings.Analytics.TenantID,
		Timeout:  settings.Analytics.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create analytics client: %w", err)
	}

	cli.settings = settings
	cli.client = analytics
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func (cli *CLI) close() {
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
	}
}
