package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/veya/analytics-dashboard/pkg/logging"
	"github.com/veya/analytics-dashboard/pkg/server"
	"github.com/veya/analytics-dashboard/pkg/services/config"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

var (
	cfgPath      string
	profile      string
	profilesFile string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Start the web server for the Veya analytics dashboard",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a dashboard config file (yaml, toml or json)")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Backend profile to use from the profiles file")
	rootCmd.Flags().StringVar(&profilesFile, "profiles-file", config.DefaultProfilesPath(), "Path to the backend profiles file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return err
	}
	if err := config.ApplyProfile(cmd.Context(), settings, profilesFile, profile); err != nil {
		return err
	}

	logger, closer, err := logging.New(settings.Log, os.Stdout)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	analytics, err := client.NewAnalyticsClient(client.Config{
		BaseURL:  settings.Analytics.BaseURL,
		TenantID: settings.Analytics.TenantID,
		Timeout:  settings.Analytics.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create analytics client: %w", err)
	}

	logger.Info().
		Str("base_url", settings.Analytics.BaseURL).
		Str("tenant_id", settings.Analytics.TenantID).
		Msg("analytics backend configured")

	webAPI, err := server.NewWebAPI(ctx, server.Config{
		Addr:            settings.Server.Addr(),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		SessionTTL:      settings.Server.SessionTTL,
		MaxSessions:     settings.Server.MaxSessions,
		PageRefresh:     settings.Server.PageRefresh,
		Live:            livestream.Config{PollInterval: settings.Live.PollInterval},
		Location:        time.Local,
		Dependencies: server.Dependencies{
			Client: analytics,
		},
	})
	if err != nil {
		return err
	}

	return webAPI.Run(ctx)
}

