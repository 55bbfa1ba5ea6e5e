package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/iposhala-portal/internal/client"
	"github.com/bobmcallan/iposhala-portal/internal/company"
	"github.com/bobmcallan/iposhala-portal/internal/listings"
	"github.com/bobmcallan/iposhala-portal/internal/models"
	"github.com/bobmcallan/iposhala-portal/internal/normalize"
)

// Listing statuses accepted by list_ipos.
const (
	ListLive     = "live"
	ListUpcoming = "upcoming"
	ListClosed   = "closed"
)

// registerTools adds every tool to s and returns how many were added.
func registerTools(s *server.MCPServer, deps Deps) int {
	tools := []server.ServerTool{
		{Tool: VersionTool(), Handler: VersionToolHandler(deps.Listings)},
		{Tool: listIPOsTool(), Handler: listIPOsHandler(deps.Listings)},
		{Tool: getIPOTool(), Handler: getIPOHandler(deps.Backend)},
		{Tool: statsTool(), Handler: statsHandler(deps.Listings)},
		{Tool: gmpTool(), Handler: gmpHandler(deps.Listings)},
		{Tool: searchTool(), Handler: searchHandler(deps.Listings)},
		{Tool: companyTabTool(), Handler: companyTabHandler(deps)},
	}
	s.AddTools(tools...)
	return len(tools)
}

func listIPOsTool() mcp.Tool {
	return mcp.NewTool("list_ipos",
		mcp.WithDescription("List IPOs on NSE by status. Closed issues can be filtered to mainboard or SME."),
		mcp.WithString("status",
			mcp.Description("live (open for subscription), upcoming or closed. Defaults to live."),
			mcp.Enum(ListLive, ListUpcoming, ListClosed),
		),
		mcp.WithString("type",
			mcp.Description("main or sme. Omit for both."),
			mcp.Enum(models.SecurityTypeMainboard, models.SecurityTypeSME),
		),
	)
}

func listIPOsHandler(l Listings) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := strings.ToLower(r.GetString("status", ListLive))
		ipoType := strings.ToLower(r.GetString("type", ""))
		if ipoType != "" && ipoType != models.SecurityTypeMainboard && ipoType != models.SecurityTypeSME {
			return errorResult("type must be main or sme"), nil
		}

		var (
			ipos []models.IPO
			err  error
		)
		switch status {
		case ListLive:
			ipos, err = l.Live(ctx)
		case ListUpcoming:
			ipos, err = l.Upcoming(ctx)
		case ListClosed:
			ipos, err = l.Closed(ctx, ipoType)
		default:
			return errorResult(fmt.Sprintf("unknown status %q: use live, upcoming or closed", status)), nil
		}
		if err != nil {
			return errorResult(fmt.Sprintf("failed to list %s IPOs: %v", status, err)), nil
		}

		// The live and upcoming endpoints take no type filter.
		if ipoType != "" && status != ListClosed {
			ipos = filterType(ipos, ipoType)
		}
		return jsonResult(map[string]any{
			"status": status,
			"type":   ipoType,
			"count":  len(ipos),
			"ipos":   ipos,
		})
	}
}

func filterType(ipos []models.IPO, ipoType string) []models.IPO {
	out := make([]models.IPO, 0, len(ipos))
	for _, ipo := range ipos {
		if ipo.IsSME() == (ipoType == models.SecurityTypeSME) {
			out = append(out, ipo)
		}
	}
	return out
}

func getIPOTool() mcp.Tool {
	return mcp.NewTool("get_ipo",
		mcp.WithDescription("Get the details of one IPO: dates, price, issue size, description and offer document links."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("NSE symbol, e.g. TATATECH")),
	)
}

type docLink struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

func getIPOHandler(b Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := r.RequireString("symbol")
		if err != nil || client.NormalizeSymbol(symbol) == "" {
			return errorResult("symbol is required"), nil
		}
		symbol = client.NormalizeSymbol(symbol)

		detail, err := b.IPODetails(ctx, symbol)
		if err != nil {
			if client.IsNotFound(err) {
				return errorResult(fmt.Sprintf("no IPO found for %s", symbol)), nil
			}
			return errorResult(fmt.Sprintf("failed to get IPO %s: %v", symbol, err)), nil
		}

		docs := []docLink{}
		for _, d := range client.DocTypes {
			if !detail.HasDocument(d.Key) {
				continue
			}
			u, err := b.DocumentURL(symbol, d.Key)
			if err != nil {
				continue
			}
			docs = append(docs, docLink{Type: d.Key, Label: d.Label, URL: u})
		}

		return jsonResult(map[string]any{
			"ipo":         detail.IPO,
			"description": detail.Description,
			"links":       detail.IssueInformation.Links(),
			"documents":   docs,
		})
	}
}

func statsTool() mcp.Tool {
	return mcp.NewTool("get_ipo_stats",
		mcp.WithDescription("Get IPO counts: upcoming, current, listed, SME and GMP tracked."),
	)
}

func statsHandler(l Listings) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := l.Stats(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to get stats: %v", err)), nil
		}
		return jsonResult(stats)
	}
}

func gmpTool() mcp.Tool {
	return mcp.NewTool("get_gmp",
		mcp.WithDescription("Get grey market premiums with the estimated listing price and gain for each IPO."),
	)
}

type gmpRow struct {
	models.GMPEntry
	EstListing string `json:"est_listing,omitempty"`
	GainPct    string `json:"gain_pct,omitempty"`
}

func gmpHandler(l Listings) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := l.GMP(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to get GMP: %v", err)), nil
		}
		rows := make([]gmpRow, 0, len(entries))
		for _, e := range entries {
			row := gmpRow{GMPEntry: e}
			if listing, gain, ok := e.Estimate(); ok {
				row.EstListing = listing.StringFixed(2)
				row.GainPct = gain.StringFixed(2)
			}
			rows = append(rows, row)
		}
		return jsonResult(rows)
	}
}

func searchTool() mcp.Tool {
	return mcp.NewTool("search_ipos",
		mcp.WithDescription("Full-text search over current, upcoming, closed and GMP-tracked IPOs by company name or symbol."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Company name or symbol fragment")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 25)")),
	)
}

func searchHandler(l Listings) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := r.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return errorResult("query is required"), nil
		}
		hits, err := l.Search(query, r.GetInt("limit", listings.DefaultSearchLimit))
		if err != nil {
			return errorResult(fmt.Sprintf("search failed: %v", err)), nil
		}
		return jsonResult(map[string]any{
			"query":   query,
			"count":   len(hits),
			"results": hits,
		})
	}
}

func companyTabTool() mcp.Tool {
	keys := make([]string, 0, len(company.Tabs))
	for _, t := range company.Tabs {
		keys = append(keys, t.Key)
	}
	return mcp.NewTool("get_company_tab",
		mcp.WithDescription("Get one section of the company page for a listed IPO: quote, price history, announcements, filings, shareholding or financials."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("NSE symbol, e.g. TATATECH")),
		mcp.WithString("tab", mcp.Required(), mcp.Description("Section to fetch"), mcp.Enum(keys...)),
		mcp.WithNumber("offset", mcp.Description("Announcements offset, in steps of 50")),
	)
}

func companyTabHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := r.RequireString("symbol")
		if err != nil || client.NormalizeSymbol(symbol) == "" {
			return errorResult("symbol is required"), nil
		}
		tab, err := r.RequireString("tab")
		if err != nil || !company.IsTab(tab) {
			return errorResult(fmt.Sprintf("unknown tab %q", tab)), nil
		}

		ctrl := company.NewController(deps.Backend, deps.Logger)
		ctrl.SetSymbol(symbol)
		ctrl.SetOffset(r.GetInt("offset", 0))
		if err := ctrl.Select(ctx, tab); err != nil {
			return errorResult(err.Error()), nil
		}

		snap := ctrl.Snapshot()
		if snap.Error != "" {
			return errorResult(fmt.Sprintf("failed to load %s for %s: %s", tab, snap.Symbol, snap.Error)), nil
		}

		out := map[string]any{
			"symbol":    snap.Symbol,
			"tab":       tab,
			"label":     company.TabLabel(tab),
			"available": !normalize.IsUnavailable(snap.Payload) && !normalize.IsUnavailable(normalize.Unwrap(snap.Payload)),
			"data":      snap.Payload,
		}
		if tab == company.TabAnnouncements {
			out["offset"] = snap.Offset
			out["limit"] = company.AnnouncementsPageSize
		}
		return jsonResult(out)
	}
}
