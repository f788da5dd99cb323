package commands

import (
	"time"

	"github.com/veya/analytics-dashboard/pkg/services/config"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

// Backend is resolved once the global flags are parsed.
type Backend interface {
	Settings() *config.Settings
	Client() client.AnalyticsClient
}

var displayLocation = time.Local
