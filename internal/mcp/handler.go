package mcp

import (
	"context"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/company"
	"github.com/bobmcallan/iposhala-portal/internal/config"
	"github.com/bobmcallan/iposhala-portal/internal/listings"
	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// Listings is the cached listing layer. *listings.Service satisfies it.
type Listings interface {
	Closed(ctx context.Context, ipoType string) ([]models.IPO, error)
	Live(ctx context.Context) ([]models.IPO, error)
	Upcoming(ctx context.Context) ([]models.IPO, error)
	Stats(ctx context.Context) (*models.Stats, error)
	GMP(ctx context.Context) ([]models.GMPEntry, error)
	Search(query string, limit int) ([]listings.Hit, error)
}

// Backend is the part of the API client the IPO and company tools call.
// *client.Client satisfies it.
type Backend interface {
	company.Fetcher
	DocumentURL(symbol, docType string) (string, error)
}

// Deps are the services the tools read from.
type Deps struct {
	Listings Listings
	Backend  Backend
	Logger   *common.Logger
}

// NewServer creates an MCP server with every IPO tool registered.
func NewServer(deps Deps) *mcpserver.MCPServer {
	if deps.Logger == nil {
		deps.Logger = common.NewSilentLogger()
	}
	s := mcpserver.NewMCPServer(
		"iposhala-portal",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
	n := registerTools(s, deps)
	deps.Logger.Debug().Int("tools", n).Msg("MCP tools registered")
	return s
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates the stateless streamable HTTP endpoint.
func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = common.NewSilentLogger()
	}
	streamable := mcpserver.NewStreamableHTTPServer(NewServer(deps),
		mcpserver.WithStateLess(true),
	)

	deps.Logger.Info().Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     deps.Logger,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
