package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// Default page sizes used by the backend's paginated sections.
const (
	DefaultLimit         = 50
	DefaultCalendarLimit = 100
)

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func companyPath(symbol, section string) string {
	p := "/api/company/" + url.PathEscape(NormalizeSymbol(symbol))
	if section != "" {
		p += "/" + section
	}
	return p
}

func paged(path string, limit, offset, defaultLimit int) string {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf("%s?limit=%d&offset=%d", path, limit, offset)
}

// decodeIPOList accepts a bare array or an object wrapping it under "data".
func decodeIPOList(raw json.RawMessage) ([]models.IPO, error) {
	var list []models.IPO
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Data []models.IPO `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}

func (c *Client) ipoList(ctx context.Context, path string) ([]models.IPO, error) {
	var raw json.RawMessage
	if err := c.GetInto(ctx, path, &raw); err != nil {
		return nil, err
	}
	list, err := decodeIPOList(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse IPO list from %s: %w", path, err)
	}
	return list, nil
}

// ClosedIPOs returns closed issues. ipoType filters by "sme" or "main"; empty returns all.
func (c *Client) ClosedIPOs(ctx context.Context, ipoType string) ([]models.IPO, error) {
	path := "/api/ipos/closed"
	if t := strings.ToLower(strings.TrimSpace(ipoType)); t != "" {
		path += "?type=" + url.QueryEscape(t)
	}
	return c.ipoList(ctx, path)
}

// LiveIPOs returns issues currently open for subscription.
func (c *Client) LiveIPOs(ctx context.Context) ([]models.IPO, error) {
	return c.ipoList(ctx, "/api/ipos/live")
}

// UpcomingIPOs returns announced issues that have not opened yet.
func (c *Client) UpcomingIPOs(ctx context.Context) ([]models.IPO, error) {
	return c.ipoList(ctx, "/api/ipos/upcoming")
}

// Stats returns the aggregate counters shown on the home page.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.GetInto(ctx, "/api/ipos/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GMP returns the grey market premium table.
func (c *Client) GMP(ctx context.Context) ([]models.GMPEntry, error) {
	var raw json.RawMessage
	if err := c.GetInto(ctx, "/api/gmp/", &raw); err != nil {
		return nil, err
	}
	var entries []models.GMPEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}
	var wrapped struct {
		Data []models.GMPEntry `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse GMP list: %w", err)
	}
	return wrapped.Data, nil
}

// IPODetails returns a single issue with its documents and issue links.
func (c *Client) IPODetails(ctx context.Context, symbol string) (*models.IPODetail, error) {
	var detail models.IPODetail
	if err := c.GetInto(ctx, "/api/ipos/"+url.PathEscape(NormalizeSymbol(symbol)), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Company returns the company profile.
func (c *Client) Company(ctx context.Context, symbol string) (any, error) {
	return c.Get(ctx, companyPath(symbol, ""))
}

// CompanyQuote returns the raw quote payload. Read fields with normalize.QuoteValue.
func (c *Client) CompanyQuote(ctx context.Context, symbol string) (any, error) {
	return c.Get(ctx, companyPath(symbol, "quote"))
}

// CompanyTabs returns the per-tab counts and previews.
func (c *Client) CompanyTabs(ctx context.Context, symbol string) (*models.TabsMeta, error) {
	var meta models.TabsMeta
	if err := c.GetInto(ctx, companyPath(symbol, "tabs"), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// CompanyHistorical returns the daily price history.
func (c *Client) CompanyHistorical(ctx context.Context, symbol string) (any, error) {
	return c.Get(ctx, companyPath(symbol, "historical"))
}

// Announcements returns one page of exchange announcements.
func (c *Client) Announcements(ctx context.Context, symbol string, limit, offset int) (any, error) {
	return c.Get(ctx, paged(companyPath(symbol, "announcements"), limit, offset, DefaultLimit))
}

// CorporateActions returns dividends, splits and other corporate actions.
func (c *Client) CorporateActions(ctx context.Context, symbol string, limit, offset int) (any, error) {
	return c.Get(ctx, paged(companyPath(symbol, "corporate-actions"), limit, offset, DefaultLimit))
}

// AnnualReports returns the annual report filings.
func (c *Client) AnnualReports(ctx context.Context, symbol string, limit, offset int) (any, error) {
	return c.Get(ctx, paged(companyPath(symbol, "annual-reports"), limit, offset, DefaultLimit))
}

// BRSRReports returns Business Responsibility and Sustainability Reports.
func (c *Client) BRSRReports(ctx context.Context, symbol string, limit, offset int) (any, error) {
	return c.Get(ctx, paged(companyPath(symbol, "brsr-reports"), limit, offset, DefaultLimit))
}

// BoardMeetings returns board meeting intimations.
func (c *Client) BoardMeetings(ctx context.Context, symbol string, limit, offset int) (any, error) {
	return c.Get(ctx, paged(companyPath(symbol, "board-meetings"), limit, offset, DefaultLimit))
}

// EventCalendar returns scheduled corporate events.
func (c *Client) EventCalendar(ctx context.Context, symbol string, limit, offset int) (any, error) {
	return c.Get(ctx, paged(companyPath(symbol, "event-calendar"), limit, offset, DefaultCalendarLimit))
}

// ShareholdingPattern returns the shareholding payload in whichever shape the backend stored.
func (c *Client) ShareholdingPattern(ctx context.Context, symbol string) (any, error) {
	return c.Get(ctx, companyPath(symbol, "shareholding-pattern"))
}

// FinancialResults returns the financial results payload.
func (c *Client) FinancialResults(ctx context.Context, symbol string) (any, error) {
	return c.Get(ctx, companyPath(symbol, "financial-results"))
}
