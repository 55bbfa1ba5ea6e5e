// Command iposhala-mcp serves the portal's MCP tools without the web UI,
// over stdio for desktop clients or streamable HTTP.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/iposhala-portal/internal/client"
	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/config"
	"github.com/bobmcallan/iposhala-portal/internal/listings"
	"github.com/bobmcallan/iposhala-portal/internal/mcp"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "iposhala-mcp.toml", "Path to config file")
	port := flag.Int("port", 4252, "Streamable HTTP port")
	flag.Parse()

	config.LoadVersionFromFile()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	deps, cleanup, err := newDeps(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize")
		os.Exit(1)
	}
	defer cleanup()

	mcpServer := mcp.NewServer(deps)

	if *stdio {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info().Str("address", addr).Str("api_url", cfg.API.URL).Msg("starting MCP streamable HTTP")

	if err := httpServer.Start(addr); err != nil {
		logger.Error().Str("error", err.Error()).Msg("http server error")
		os.Exit(1)
	}
}

// loadConfig reads the portal configuration format. A missing file means defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromFiles()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromFiles()
	}
	return config.LoadFromFiles(path)
}

// newDeps wires the backend client and listing service, and keeps the
// search index fresh on the configured schedule.
func newDeps(cfg *config.Config, logger *common.Logger) (mcp.Deps, func(), error) {
	c := client.New(cfg.API.URL, logger)

	svc, err := listings.NewService(c, cfg.Cache.GetListingTTL(), cfg.API.GetTimeout(), logger)
	if err != nil {
		return mcp.Deps{}, nil, fmt.Errorf("failed to create listing service: %w", err)
	}

	sched := listings.NewScheduler(logger)
	refresh := listings.JobFunc{JobName: "refresh-listings", Fn: svc.Refresh}
	if err := sched.AddJob(cfg.Cache.RefreshSchedule, refresh); err != nil {
		svc.Close()
		return mcp.Deps{}, nil, err
	}
	go func() {
		if err := sched.RunNow(refresh); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("initial listing refresh failed")
		}
	}()
	sched.Start()

	cleanup := func() {
		sched.Stop()
		svc.Close()
	}
	return mcp.Deps{Listings: svc, Backend: c, Logger: logger}, cleanup, nil
}
