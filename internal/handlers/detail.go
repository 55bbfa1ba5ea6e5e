package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/iposhala-portal/internal/client"
	"github.com/bobmcallan/iposhala-portal/internal/common"
	"github.com/bobmcallan/iposhala-portal/internal/company"
	"github.com/bobmcallan/iposhala-portal/internal/models"
	"github.com/bobmcallan/iposhala-portal/internal/normalize"
)

// Backend resolves offer document links. Everything else the detail page
// shows goes through the visitor's controller. *client.Client satisfies it.
type Backend interface {
	DocumentURL(symbol, docType string) (string, error)
}

// DetailHandler serves the IPO detail page, its tab JSON and document links.
type DetailHandler struct {
	logger    *common.Logger
	templates *template.Template
	devMode   bool
	backend   Backend
	sessions  *company.Sessions
}

// NewDetailHandler creates a detail handler.
func NewDetailHandler(logger *common.Logger, devMode bool, backend Backend, sessions *company.Sessions) *DetailHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &DetailHandler{
		logger:    logger,
		templates: loadTemplates(),
		devMode:   devMode,
		backend:   backend,
		sessions:  sessions,
	}
}

// TabLink is one entry of the tab bar.
type TabLink struct {
	Key      string
	Label    string
	URL      string
	Count    int
	HasCount bool
	Active   bool
}

// DocLink is an offer document button.
type DocLink struct {
	Label string
	URL   string
}

// Overview is the quote strip and the four information cards.
type Overview struct {
	Error string
	Quote *QuoteStrip
	Cards []Card
}

// Card is a titled list of fields.
type Card struct {
	Title  string
	Fields []Field
}

// selectTab applies the requested offset and selects tab. A new offset on an
// already active announcements tab pages through it.
func selectTab(ctx context.Context, ctrl *company.Controller, tab string, query url.Values) error {
	if tab == company.TabAnnouncements && query.Has("offset") {
		offset, _ := strconv.Atoi(query.Get("offset"))
		if ctrl.Snapshot().Active == company.TabAnnouncements {
			return ctrl.Paginate(ctx, offset)
		}
		ctrl.SetOffset(offset)
	}
	return ctrl.Select(ctx, tab)
}

func requestedTab(query url.Values) string {
	if tab := query.Get("tab"); tab != "" {
		return tab
	}
	return company.TabDashboard
}

// ServeHTTP handles GET /ipo/{symbol}.
func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := client.NormalizeSymbol(chi.URLParam(r, "symbol"))
	query := r.URL.Query()
	tab := requestedTab(query)
	if symbol == "" || !company.IsTab(tab) {
		http.NotFound(w, r)
		return
	}

	ctrl := h.sessions.Controller(w, r)
	ctrl.SetSymbol(symbol)

	var (
		detail              *models.IPODetail
		quote               any
		detailErr, quoteErr error
		g                   errgroup.Group
		ctx                 = r.Context()
	)
	g.Go(func() error {
		detail, detailErr = ctrl.Detail(ctx)
		ctrl.LoadMeta(ctx)
		return nil
	})
	g.Go(func() error {
		// The dashboard and quote tabs load the quote the header reuses.
		err := selectTab(ctx, ctrl, tab, query)
		quote, quoteErr = ctrl.Quote(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Warn().Str("symbol", symbol).Str("tab", tab).Str("error", err.Error()).Msg("tab select failed")
	}

	snap := ctrl.Snapshot()
	status := http.StatusOK
	if client.IsNotFound(detailErr) {
		status = http.StatusNotFound
	}
	if detailErr != nil {
		h.logger.Warn().Str("symbol", symbol).Str("error", detailErr.Error()).Msg("ipo details failed")
	}

	name := symbol
	if detail != nil && detail.CompanyName != "" {
		name = detail.CompanyName
	}

	data := map[string]interface{}{
		"Page":        "detail",
		"Title":       name + " IPO - IPOshala",
		"DevMode":     h.devMode,
		"Symbol":      symbol,
		"Name":        name,
		"Detail":      detail,
		"DetailError": errText(detailErr),
		"Description": "",
		"IssueLinks":  []models.Link{},
		"Docs":        h.docLinks(symbol, detail),
		"Overview":    overview(quote, quoteErr, detail),
		"Tabs":        tabLinks(snap),
		"Tab":         BuildTabView(snap, TabParams{Period: query.Get("period"), Metric: query.Get("metric")}),
	}
	if detail != nil {
		data["Description"] = common.CleanText(detail.Description)
		data["IssueLinks"] = detail.IssueInformation.Links()
	}

	renderTemplate(w, h.logger, h.templates, status, "detail.html", data)
}

// ServeTab handles GET /api/ipo/{symbol}/tab/{tab} with the visitor's
// controller, returning the same view the page renders.
func (h *DetailHandler) ServeTab(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := client.NormalizeSymbol(chi.URLParam(r, "symbol"))
	tab := chi.URLParam(r, "tab")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if !company.IsTab(tab) {
		WriteError(w, http.StatusBadRequest, "unknown tab: "+tab)
		return
	}

	query := r.URL.Query()
	ctrl := h.sessions.Controller(w, r)
	ctrl.SetSymbol(symbol)

	var g errgroup.Group
	g.Go(func() error {
		ctrl.LoadMeta(r.Context())
		return nil
	})
	g.Go(func() error {
		return selectTab(r.Context(), ctrl, tab, query)
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, company.ErrUnknownTab) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := ctrl.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": snap.Symbol,
		"offset": snap.Offset,
		"counts": snap.Counts,
		"tab":    BuildTabView(snap, TabParams{Period: query.Get("period"), Metric: query.Get("metric")}),
	})
}

// ServeDocument handles GET /docs/{symbol}/{doc_type} by redirecting to the
// backend document.
func (h *DetailHandler) ServeDocument(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	target, err := h.backend.DocumentURL(chi.URLParam(r, "symbol"), chi.URLParam(r, "doc_type"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *DetailHandler) docLinks(symbol string, detail *models.IPODetail) []DocLink {
	links := []DocLink{}
	if detail == nil {
		return links
	}
	for _, d := range client.DocTypes {
		if !detail.HasDocument(d.Key) {
			continue
		}
		links = append(links, DocLink{
			Label: d.Label,
			URL:   "/docs/" + url.PathEscape(symbol) + "/" + d.Key,
		})
	}
	return links
}

func tabLinks(snap company.Snapshot) []TabLink {
	links := make([]TabLink, 0, len(company.Tabs))
	for _, t := range company.Tabs {
		count, ok := snap.Counts[t.Key]
		links = append(links, TabLink{
			Key:      t.Key,
			Label:    t.Label,
			URL:      TabURL(snap.Symbol, t.Key, nil),
			Count:    count,
			HasCount: ok,
			Active:   t.Key == snap.Active,
		})
	}
	return links
}

func overview(quote any, quoteErr error, detail *models.IPODetail) Overview {
	if quoteErr != nil {
		return Overview{Error: errText(quoteErr)}
	}

	q := normalize.ExtractQuote(quote)
	get := func(key string) any {
		v, _ := normalize.QuoteValue(q, key)
		return v
	}
	path := func(p string) any {
		v, _ := normalize.QuotePath(q, p)
		return v
	}
	orElse := func(a, b any) any {
		if a != nil {
			return a
		}
		return b
	}

	var ipo models.IPO
	if detail != nil {
		ipo = detail.IPO
	}

	return Overview{
		Quote: quoteStrip(q),
		Cards: []Card{
			{Title: "Issue Information", Fields: []Field{
				{"Issue Start Date", ipo.IssueStartDate.OrDash()},
				{"Issue End Date", ipo.IssueEndDate.OrDash()},
				{"Listing Date", ipo.ListingDate.OrDash()},
				{"Price / Range", ipo.Price()},
				{"Issue Size", ipo.IssueSize.OrDash()},
				{"Lot Size", ipo.LotSize.OrDash()},
			}},
			{Title: "Trade Information", Fields: []Field{
				{"Total Traded Volume", normalize.Fmt2(get("totalTradedVolume"))},
				{"Total Traded Value", normalize.Fmt2(get("totalTradedValue"))},
				{"VWAP", normalize.Fmt2(orElse(get("averagePrice"), get("vwap")))},
				{"No. of Trades", normalize.String(get("totalTrades"))},
				{"Face Value", normalize.Fmt2(get("faceValue"))},
			}},
			{Title: "Price Information", Fields: []Field{
				{"Open", normalize.Fmt2(get("open"))},
				{"Close", normalize.Fmt2(get("close"))},
				{"Day High", normalize.Fmt2(get("dayHigh"))},
				{"Day Low", normalize.Fmt2(get("dayLow"))},
				{"52W High", normalize.Fmt2(path("weekHighLow.max"))},
				{"52W Low", normalize.Fmt2(path("weekHighLow.min"))},
				{"Upper Circuit", normalize.Fmt2(get("upperCP"))},
				{"Lower Circuit", normalize.Fmt2(get("lowerCP"))},
			}},
			{Title: "Security Information", Fields: []Field{
				{"ISIN", normalize.String(get("isin"))},
				{"Trading Status", normalize.String(path("securityInfo.tradingStatus"))},
				{"Market", normalize.String(path("securityInfo.market"))},
				{"Face Value", normalize.Fmt2(orElse(path("securityInfo.faceValue"), get("faceValue")))},
				{"Series", normalize.String(path("securityInfo.series"))},
			}},
		},
	}
}
