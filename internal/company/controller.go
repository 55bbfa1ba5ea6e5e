package company

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// entry is a cached tab payload. offset is only meaningful for announcements.
type entry struct {
	payload any
	offset  int
}

// Controller decides which backend call a tab selection needs and caches
// the result per tab for the current symbol.
//
// Network calls run outside the lock. A call that returns after the symbol
// changed is dropped, so one symbol's data never lands in another's cache.
type Controller struct {
	fetcher Fetcher
	logger  *common.Logger

	mu          sync.Mutex
	symbol      string
	generation  uint64
	active      string
	offset      int
	cache       map[string]entry
	loading     map[string]bool
	errs        map[string]string
	meta        *models.TabsMeta
	metaLoading bool
	detail      *models.IPODetail
	quote       any
	hasQuote    bool
}

// NewController creates a controller with the dashboard tab active.
func NewController(fetcher Fetcher, logger *common.Logger) *Controller {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		active:  TabDashboard,
		cache:   make(map[string]entry),
		loading: make(map[string]bool),
		errs:    make(map[string]string),
	}
}

// SetSymbol switches the company. A different symbol clears the cached tabs
// and errors, the metadata, the header detail and quote, and resets the
// announcements offset.
func (c *Controller) SetSymbol(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	c.mu.Lock()
	defer c.mu.Unlock()

	if symbol == c.symbol {
		return
	}
	c.symbol = symbol
	c.generation++
	c.offset = 0
	c.cache = make(map[string]entry)
	c.loading = make(map[string]bool)
	c.errs = make(map[string]string)
	c.meta = nil
	c.metaLoading = false
	c.detail = nil
	c.quote = nil
	c.hasQuote = false
}

// SetOffset records the announcements offset. Negative values become 0.
func (c *Controller) SetOffset(offset int) {
	if offset < 0 {
		offset = 0
	}
	c.mu.Lock()
	c.offset = offset
	c.mu.Unlock()
}

// Select makes tab active and fetches it unless the cache already holds it.
// Announcements cached at a different offset count as a miss. A failed fetch
// records the error for the tab and leaves the cache as it was.
func (c *Controller) Select(ctx context.Context, tab string) error {
	if !IsTab(tab) {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}

	c.mu.Lock()
	c.active = tab
	if c.symbol == "" {
		c.mu.Unlock()
		return nil
	}
	if e, ok := c.cache[tab]; ok && (tab != TabAnnouncements || e.offset == c.offset) {
		c.mu.Unlock()
		return nil
	}
	if payload, ok := c.quotePayload(tab); ok {
		c.cache[tab] = entry{payload: payload}
		delete(c.errs, tab)
		c.mu.Unlock()
		return nil
	}
	c.loading[tab] = true
	delete(c.errs, tab)
	symbol, gen, offset := c.symbol, c.generation, c.offset
	c.mu.Unlock()

	payload, err := c.fetch(ctx, symbol, tab, offset)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug().Str("symbol", symbol).Str("tab", tab).Msg("dropping response for previous symbol")
		return nil
	}
	delete(c.loading, tab)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Failed to load data"
		}
		c.errs[tab] = msg
		c.logger.Warn().Str("symbol", symbol).Str("tab", tab).Str("error", msg).Msg("tab fetch failed")
		return nil
	}
	c.cache[tab] = entry{payload: payload, offset: offset}
	switch tab {
	case TabDashboard:
		if m, ok := payload.(map[string]any); ok {
			c.quote, c.hasQuote = m["quote"], true
		}
	case TabQuote:
		c.quote, c.hasQuote = payload, true
	}
	return nil
}

// quotePayload builds the dashboard or quote tab from a quote already held
// for the symbol. Callers hold c.mu.
func (c *Controller) quotePayload(tab string) (any, bool) {
	if !c.hasQuote {
		return nil, false
	}
	switch tab {
	case TabDashboard:
		return map[string]any{"quote": c.quote}, true
	case TabQuote:
		return c.quote, true
	}
	return nil, false
}

// Quote returns the company quote for the header overview. A quote loaded by
// the dashboard or quote tab, or by an earlier call, is reused.
func (c *Controller) Quote(ctx context.Context) (any, error) {
	c.mu.Lock()
	if c.symbol == "" {
		c.mu.Unlock()
		return nil, nil
	}
	if c.hasQuote {
		q := c.quote
		c.mu.Unlock()
		return q, nil
	}
	symbol, gen := c.symbol, c.generation
	c.mu.Unlock()

	q, err := c.fetcher.CompanyQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if gen == c.generation {
		c.quote, c.hasQuote = q, true
	}
	c.mu.Unlock()
	return q, nil
}

// Detail returns the IPO record for the page header, fetching it once per
// symbol. Errors are not cached.
func (c *Controller) Detail(ctx context.Context) (*models.IPODetail, error) {
	c.mu.Lock()
	if c.symbol == "" {
		c.mu.Unlock()
		return nil, nil
	}
	if c.detail != nil {
		d := c.detail
		c.mu.Unlock()
		return d, nil
	}
	symbol, gen := c.symbol, c.generation
	c.mu.Unlock()

	d, err := c.fetcher.IPODetails(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if gen == c.generation && d != nil {
		c.detail = d
	}
	c.mu.Unlock()
	return d, nil
}

// Paginate moves the announcements offset and refetches when announcements
// is the active tab.
func (c *Controller) Paginate(ctx context.Context, offset int) error {
	c.SetOffset(offset)

	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active != TabAnnouncements {
		return nil
	}
	return c.Select(ctx, TabAnnouncements)
}

func (c *Controller) fetch(ctx context.Context, symbol, tab string, offset int) (any, error) {
	f := c.fetcher
	switch tab {
	case TabDashboard:
		q, err := f.CompanyQuote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return map[string]any{"quote": q}, nil
	case TabQuote:
		return f.CompanyQuote(ctx, symbol)
	case TabHistorical:
		return f.CompanyHistorical(ctx, symbol)
	case TabAnnouncements:
		return f.Announcements(ctx, symbol, AnnouncementsPageSize, offset)
	case TabCorporateActions:
		return f.CorporateActions(ctx, symbol, 0, 0)
	case TabAnnualReports:
		return f.AnnualReports(ctx, symbol, 0, 0)
	case TabBRSRReports:
		return f.BRSRReports(ctx, symbol, 0, 0)
	case TabShareholding:
		return f.ShareholdingPattern(ctx, symbol)
	case TabFinancialResults:
		return f.FinancialResults(ctx, symbol)
	case TabBoardMeetings:
		return f.BoardMeetings(ctx, symbol, 0, 0)
	case TabEventCalendar:
		return f.EventCalendar(ctx, symbol, 0, 0)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
}

// LoadMeta fetches the tab metadata once per symbol. Failures are logged and
// leave the metadata empty; the next call tries again.
func (c *Controller) LoadMeta(ctx context.Context) {
	c.mu.Lock()
	if c.symbol == "" || c.meta != nil || c.metaLoading {
		c.mu.Unlock()
		return
	}
	c.metaLoading = true
	symbol, gen := c.symbol, c.generation
	c.mu.Unlock()

	meta, err := c.fetcher.CompanyTabs(ctx, symbol)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.metaLoading = false
	if err != nil {
		c.logger.Warn().Str("symbol", symbol).Str("error", err.Error()).Msg("tabs meta failed")
		return
	}
	if meta == nil {
		meta = &models.TabsMeta{}
	}
	c.meta = meta
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Symbol     string
	Active     string
	Loading    bool
	Error      string
	Payload    any
	HasPayload bool
	Offset     int
	Counts     map[string]int
	Meta       *models.TabsMeta
}

// Snapshot returns the state of the active tab.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[c.active]
	return Snapshot{
		Symbol:     c.symbol,
		Active:     c.active,
		Loading:    c.loading[c.active],
		Error:      c.errs[c.active],
		Payload:    e.payload,
		HasPayload: ok,
		Offset:     c.offset,
		Counts:     c.meta.Counts(),
		Meta:       c.meta,
	}
}
