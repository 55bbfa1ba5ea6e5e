package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/iposhala-portal/internal/client"
	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/company"
	"github.com/bobmcallan/iposhala-portal/internal/config"
	"github.com/bobmcallan/iposhala-portal/internal/handlers"
	"github.com/bobmcallan/iposhala-portal/internal/listings"
	"github.com/bobmcallan/iposhala-portal/internal/mcp"
)

// sessionSweepSchedule is how often idle detail view sessions are dropped.
const sessionSweepSchedule = "@every 1m"

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Client    *client.Client
	Listings  *listings.Service
	Sessions  *company.Sessions
	Scheduler *listings.Scheduler

	// HTTP handlers
	PageHandler         *handlers.PageHandler
	DetailHandler       *handlers.DetailHandler
	HealthHandler       *handlers.HealthHandler
	VersionHandler      *handlers.VersionHandler
	ServerHealthHandler *handlers.ServerHealthHandler
	MCPHandler          *mcp.Handler
}

// New initializes the application with all dependencies. Background jobs
// are not started until StartJobs.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE - do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	a.Client = client.New(cfg.API.URL, logger)

	svc, err := listings.NewService(a.Client, cfg.Cache.GetListingTTL(), cfg.API.GetTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing service: %w", err)
	}
	a.Listings = svc
	a.Sessions = company.NewSessions(a.Client, logger, cfg.Cache.GetSessionTTL(), cfg.Cache.MaxSessions)
	a.Scheduler = listings.NewScheduler(logger)

	a.initHandlers()

	logger.Info().
		Str("api_url", cfg.API.URL).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	devMode := a.Config.IsDevMode()

	a.PageHandler = handlers.NewPageHandler(a.Logger, devMode, a.Listings)
	a.DetailHandler = handlers.NewDetailHandler(a.Logger, devMode, a.Client, a.Sessions)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ServerHealthHandler = handlers.NewServerHealthHandler(a.Logger, a.Config.API.URL)

	if a.Config.MCP.Enabled {
		a.MCPHandler = mcp.NewHandler(mcp.Deps{
			Listings: a.Listings,
			Backend:  a.Client,
			Logger:   a.Logger,
		})
	}

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// StartJobs registers the listing refresh and session sweep, warms the
// listing cache in the background and starts the scheduler.
func (a *App) StartJobs() error {
	refresh := listings.JobFunc{JobName: "refresh-listings", Fn: a.Listings.Refresh}
	if err := a.Scheduler.AddJob(a.Config.Cache.RefreshSchedule, refresh); err != nil {
		return err
	}
	sweep := listings.JobFunc{JobName: "sweep-sessions", Fn: func(context.Context) error {
		a.Sessions.Sweep()
		return nil
	}}
	if err := a.Scheduler.AddJob(sessionSweepSchedule, sweep); err != nil {
		return err
	}

	go func() {
		start := time.Now()
		if err := a.Scheduler.RunNow(refresh); err != nil {
			a.Logger.Warn().Str("error", err.Error()).Msg("initial listing refresh failed")
			return
		}
		a.Logger.Info().Int64("duration_ms", time.Since(start).Milliseconds()).Msg("initial listing refresh complete")
	}()

	a.Scheduler.Start()
	return nil
}

// Close stops background jobs and releases the search index.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Listings != nil {
		return a.Listings.Close()
	}
	return nil
}
