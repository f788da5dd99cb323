package shell

import (
	"context"

	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/services/reports"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

// ClientFactory builds both views on top of one analytics client.
type ClientFactory struct {
	Client        client.AnalyticsClient
	Live          livestream.Config
	StreamOptions []livestream.Option
}

func (f ClientFactory) NewLiveStream(ctx context.Context) *livestream.Stream {
	return livestream.Start(ctx, f.Client, f.Live, f.StreamOptions...)
}

func (f ClientFactory) NewReports(_ context.Context) *reports.View {
	return reports.NewView(f.Client)
}
