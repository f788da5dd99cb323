package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	// When
	settings, err := LoadSettings("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "https://analytics.builtonveya.com", settings.Analytics.BaseURL)
	assert.Equal(t, "1", settings.Analytics.TenantID)
	assert.Equal(t, 15*time.Second, settings.Analytics.Timeout)
	assert.Equal(t, 30*time.Second, settings.Live.PollInterval)
	assert.Equal(t, "localhost:8080", settings.Server.Addr())
	assert.Equal(t, 30*time.Minute, settings.Server.SessionTTL)
	assert.Equal(t, 256, settings.Server.MaxSessions)
	assert.Equal(t, "info", settings.Log.Level)
	assert.False(t, settings.Log.Pretty)
}

func TestLoadSettings_ValidYAML_OverridesDefaults(t *testing.T) {
	// Given
	path := writeFile(t, "dashboard.yaml", `analytics:
  base_url: "http://localhost:9000"
  tenant_id: "42"
live:
  poll_interval: "5s"
server:
  port: 9090
log:
  pretty: true`)

	// When
	settings, err := LoadSettings(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", settings.Analytics.BaseURL)
	assert.Equal(t, "42", settings.Analytics.TenantID)
	assert.Equal(t, 5*time.Second, settings.Live.PollInterval)
	assert.Equal(t, 9090, settings.Server.Port)
	assert.True(t, settings.Log.Pretty)
	assert.Equal(t, 15*time.Second, settings.Analytics.Timeout)
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	// Given
	path := writeFile(t, "dashboard.yaml", `analytics:
  tenant_id: "42"`)
	t.Setenv("DASHBOARD_ANALYTICS_TENANT_ID", "7")
	t.Setenv("DASHBOARD_LIVE_POLL_INTERVAL", "1m")

	// When
	settings, err := LoadSettings(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "7", settings.Analytics.TenantID)
	assert.Equal(t, time.Minute, settings.Live.PollInterval)
}

func TestLoadSettings_InvalidFile_ReturnsError(t *testing.T) {
	// Given
	path := writeFile(t, "bad.yaml", "analytics: base_url: bad: yaml")

	// When
	_, err := LoadSettings(path)

	// Then
	assert.Error(t, err)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

const profilesContent = `[staging]
host = https://staging.analytics.example.com
tenant_id = 3

[local]
host = http://localhost:9000

[empty]
`

func TestRegistry_Profiles(t *testing.T) {
	// Given
	path := writeFile(t, ".veyacfg", profilesContent)
	registry, err := NewRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	// When
	profiles, err := registry.GetProfiles(ctx)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"staging", "local"}, profiles)

	profile, err := registry.GetProfile(ctx, "staging")
	require.NoError(t, err)
	assert.Equal(t, &Profile{
		Name:     "staging",
		Host:     "https://staging.analytics.example.com",
		TenantID: "3",
	}, profile)

	_, err = registry.GetProfile(ctx, "missing")
	assert.Error(t, err)
	_, err = registry.GetProfile(ctx, "empty")
	assert.Error(t, err)
}

func TestApplyProfile(t *testing.T) {
	path := writeFile(t, ".veyacfg", profilesContent)
	ctx := context.Background()

	tests := []struct {
		name           string
		profile        string
		expectedURL    string
		expectedTenant string
		expectErr      bool
	}{
		{name: "no profile", profile: "", expectedURL: "https://analytics.builtonveya.com", expectedTenant: "1"},
		{name: "profile with tenant", profile: "staging", expectedURL: "https://staging.analytics.example.com", expectedTenant: "3"},
		{name: "profile keeps tenant", profile: "local", expectedURL: "http://localhost:9000", expectedTenant: "1"},
		{name: "unknown profile", profile: "prod", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := LoadSettings("")
			require.NoError(t, err)

			err = ApplyProfile(ctx, settings, path, tt.profile)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedURL, settings.Analytics.BaseURL)
			assert.Equal(t, tt.expectedTenant, settings.Analytics.TenantID)
		})
	}

	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Error(t, ApplyProfile(ctx, settings, filepath.Join(t.TempDir(), "none"), "staging"))
}
