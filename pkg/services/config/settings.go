package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "DASHBOARD"

type Settings struct {
	Analytics AnalyticsSettings `mapstructure:"analytics"`
	Live      LiveSettings      `mapstructure:"live"`
	Server    ServerSettings    `mapstructure:"server"`
	Log       LogSettings       `mapstructure:"log"`
}

type AnalyticsSettings struct {
	BaseURL  string        `mapstructure:"base_url"`
	TenantID string        `mapstructure:"tenant_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LiveSettings struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	PageRefresh     time.Duration `mapstructure:"page_refresh"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

var defaults = map[string]any{
	"analytics.base_url":      "https://analytics.builtonveya.com",
	"analytics.tenant_id":     "1",
	"analytics.timeout":       "15s",
	"live.poll_interval":      "30s",
	"server.host":             "localhost",
	"server.port":             8080,
	"server.shutdown_timeout": "10s",
	"server.session_ttl":      "30m",
	"server.max_sessions":     256,
	"server.page_refresh":     "5s",
	"log.level":               "info",
	"log.pretty":              false,
	"log.file":                "",
}

// LoadSettings reads the optional config file at path, then applies
// DASHBOARD_* environment overrides on top of the defaults.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard config: %w", err)
	}
	return &settings, nil
}
