package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/veya/analytics-dashboard/pkg/handlers/dashboard"
	dashboardmiddleware "github.com/veya/analytics-dashboard/pkg/server/middleware"
	"github.com/veya/analytics-dashboard/pkg/server/sessions"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router   *chi.Mux
	logger   *zerolog.Logger
	server   *http.Server
	registry *sessions.Registry
	config   Config
}

type Dependencies struct {
	Client        client.AnalyticsClient
	StreamOptions []livestream.Option
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration
	MaxSessions     int
	PageRefresh     time.Duration
	Live            livestream.Config
	Location        *time.Location
	Dependencies    Dependencies
}

// NewWebAPI builds the dashboard server. Session views live until ctx is
// done or Run returns.
func NewWebAPI(ctx context.Context, config Config) (*WebAPI, error) {
	logger := zerolog.Ctx(ctx)
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}

	registry := sessions.NewRegistry(ctx, shell.ClientFactory{
		Client:        config.Dependencies.Client,
		Live:          config.Live,
		StreamOptions: config.Dependencies.StreamOptions,
	}, config.SessionTTL, sessions.WithMaxSessions(config.MaxSessions))

	handler, err := dashboard.NewHandler(dashboard.Config{
		PageRefresh: config.PageRefresh,
		Location:    config.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard handler: %w", err)
	}

	router := ConfigureRouter(logger, registry, handler)

	return &WebAPI{
		router:   router,
		logger:   logger,
		registry: registry,
		config:   config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func ConfigureRouter(logger *zerolog.Logger, registry *sessions.Registry, handler *dashboard.Handler) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(dashboardmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handler.Health)
	router.Group(func(r chi.Router) {
		r.Use(dashboardmiddleware.Session(registry))
		handler.Mount(r)
	})

	return router
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Run serves until ctx is done, then shuts the server down gracefully and
// closes every session.
func (w *WebAPI) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return w.registry.Run(gctx, w.reapInterval())
	})

	g.Go(func() error {
		<-gctx.Done()
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
		defer cancel()

		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			if err := w.server.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		return nil
	})

	return g.Wait()
}

func (w *WebAPI) reapInterval() time.Duration {
	interval := w.config.SessionTTL / 4
	if interval <= 0 {
		interval = sessions.DefaultTTL / 4
	}
	return interval
}
