package handlers

import (
	"net/url"
	"strconv"

	"github.com/bobmcallan/iposhala-portal/internal/chart"
	"github.com/bobmcallan/iposhala-portal/internal/company"
	"github.com/bobmcallan/iposhala-portal/internal/normalize"
	"github.com/bobmcallan/iposhala-portal/internal/shareholding"
)

// Tab view states.
const (
	TabStateLoading     = "loading"
	TabStateError       = "error"
	TabStateUnavailable = "unavailable"
	TabStateEmpty       = "empty"
	TabStateReady       = "ready"
)

// TabView is the render model of the active tab. It is also what the tab
// JSON endpoint returns.
type TabView struct {
	Key          string            `json:"key"`
	Label        string            `json:"label"`
	State        string            `json:"state"`
	Title        string            `json:"title,omitempty"`
	Error        string            `json:"error,omitempty"`
	Message      string            `json:"message,omitempty"`
	Unavailable  *Unavailable      `json:"unavailable,omitempty"`
	Quote        *QuoteStrip       `json:"quote,omitempty"`
	QuoteFields  []Field           `json:"quote_fields,omitempty"`
	Preview      *Preview          `json:"preview,omitempty"`
	Chart        *ChartView        `json:"chart,omitempty"`
	Table        *Table            `json:"table,omitempty"`
	Pager        *Pager            `json:"pager,omitempty"`
	Shareholding *ShareholdingView `json:"shareholding,omitempty"`
}

// Unavailable is shown when the backend reports a section as not published.
type Unavailable struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	SourceURL string `json:"source_url,omitempty"`
}

// QuoteStrip is the LTP, change and previous close line.
type QuoteStrip struct {
	LastPrice string `json:"last_price"`
	Change    string `json:"change"`
	PChange   string `json:"p_change"`
	PrevClose string `json:"prev_close"`
	Up        bool   `json:"up"`
}

// Field is a labelled value.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Announcement is one line of the dashboard preview.
type Announcement struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	URL   string `json:"url,omitempty"`
}

// Preview is the dashboard's announcements and shareholding summary.
type Preview struct {
	Announcements    []Announcement    `json:"announcements"`
	AnnouncementsURL string            `json:"announcements_url"`
	Shareholding     *ShareholdingView `json:"shareholding"`
	ShareholdingURL  string            `json:"shareholding_url"`
}

// Cell is a table cell. When URL is set the cell links there with Text as
// the link text.
type Cell struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// Table is a rendered section table.
type Table struct {
	Columns   []string `json:"columns"`
	Rows      [][]Cell `json:"rows"`
	EmptyText string   `json:"empty_text"`
}

// Pager links the previous and next announcement pages.
type Pager struct {
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
	PrevURL string `json:"prev_url,omitempty"`
	NextURL string `json:"next_url,omitempty"`
}

// ChartView is a chart container and its prepared series.
type ChartView struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Series  chart.Series `json:"series"`
	Metrics []MetricLink `json:"metrics,omitempty"`
}

// MetricLink switches the financial chart metric.
type MetricLink struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// ShareholdingView is a donut plus the period picker.
type ShareholdingView struct {
	Chart     shareholding.Chart `json:"chart"`
	Periods   []PeriodLink       `json:"periods,omitempty"`
	SourceURL string             `json:"source_url,omitempty"`
	Mock      bool               `json:"mock"`
}

// PeriodLink selects a shareholding period.
type PeriodLink struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// TabParams are the query parameters that shape a tab's rendering.
type TabParams struct {
	Period string
	Metric string
}

// column maps row fields onto one table column.
type column struct {
	label string
	keys  []string
	fmt2  bool
	// link, when set, makes the cell a link to the row attachment.
	link string
}

func col(label string, keys ...string) column { return column{label: label, keys: keys} }

func numCol(label string, keys ...string) column {
	return column{label: label, keys: keys, fmt2: true}
}

func linkCol(label, text string) column { return column{label: label, link: text} }

var (
	historicalColumns = []column{
		col("DATE", normalize.HistoricalDateKeys...),
		numCol("OPEN", "open", "OPEN"),
		numCol("HIGH", "high", "HIGH"),
		numCol("LOW", "low", "LOW"),
		numCol("CLOSE", "close", "CLOSE"),
		col("VOLUME", "volume", "VOLUME"),
	}
	announcementColumns = []column{
		col("Title", "desc", "title", "subject"),
		col("Date", "an_dt", "date"),
		linkCol("Link", "Open"),
	}
	corporateActionColumns = []column{
		col("Ex Date", "exDate"),
		col("Purpose", "purpose"),
		col("Description", "desc"),
		col("Record Date", "recordDate"),
		col("BC Start", "bcStartDate"),
		col("BC End", "bcEndDate"),
	}
	reportColumns = []column{
		col("Year", "m_yr"),
		col("Description", "desc"),
		linkCol("Link", "View PDF"),
	}
	boardMeetingColumns = []column{
		col("Meeting Date", "meetingDate"),
		col("Purpose", "purpose"),
		col("Description", "desc"),
		linkCol("Details", "Link"),
	}
	financialColumns = []column{
		col("From", "from_dt"),
		col("To", "to_dt"),
		col("Description", "desc"),
		linkCol("Link", "PDF"),
	}
	eventColumns = []column{
		col("Date", "date"),
		col("Purpose", "purpose"),
		col("Description", "desc"),
	}
)

func firstValue(row map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func buildTable(rows []map[string]any, cols []column, emptyText string) *Table {
	t := &Table{Rows: make([][]Cell, 0, len(rows)), EmptyText: emptyText}
	for _, c := range cols {
		t.Columns = append(t.Columns, c.label)
	}
	for _, row := range rows {
		cells := make([]Cell, 0, len(cols))
		for _, c := range cols {
			switch {
			case c.link != "":
				if u := normalize.AttachmentURL(row); u != "" {
					cells = append(cells, Cell{Text: c.link, URL: u})
				} else {
					cells = append(cells, Cell{Text: normalize.Dash})
				}
			case c.fmt2:
				cells = append(cells, Cell{Text: normalize.Fmt2(firstValue(row, c.keys))})
			default:
				cells = append(cells, Cell{Text: normalize.Text(row, c.keys...)})
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// TabURL links a tab of the detail page. Announcements always start at
// offset 0.
func TabURL(symbol, tab string, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("tab", tab)
	if tab == company.TabAnnouncements && q.Get("offset") == "" {
		q.Set("offset", "0")
	}
	return detailHref(symbol) + "?" + q.Encode()
}

// BuildTabView renders the controller snapshot of the active tab.
func BuildTabView(snap company.Snapshot, params TabParams) TabView {
	v := TabView{Key: snap.Active, Label: company.TabLabel(snap.Active), Title: company.TabLabel(snap.Active)}

	switch {
	case snap.Loading:
		v.State = TabStateLoading
		return v
	case snap.Error != "":
		v.State = TabStateError
		v.Error = snap.Error
		return v
	case !snap.HasPayload && snap.Active != company.TabDashboard:
		v.State = TabStateEmpty
		v.Message = "No data available."
		return v
	}

	v.State = TabStateReady
	p := snap.Payload

	section := p
	if snap.Active == company.TabDashboard {
		m, _ := p.(map[string]any)
		section = m["quote"]
	}
	if normalize.IsUnavailable(section) || normalize.IsUnavailable(normalize.Unwrap(section)) {
		u := unavailableCopy(snap.Active)
		v.unavailable(u.Title, u.Message, shareholding.SourceURL(section))
		return v
	}

	switch snap.Active {
	case company.TabDashboard:
		v.Title = ""
		m, _ := p.(map[string]any)
		v.Quote = quoteStrip(normalize.ExtractQuote(m["quote"]))
		v.Preview = dashboardPreview(snap)
	case company.TabQuote:
		q := normalize.ExtractQuote(p)
		v.Quote = quoteStrip(q)
		v.QuoteFields = quoteFields(q)
	case company.TabHistorical:
		rows := normalize.HistoricalRows(p)
		if len(rows) == 0 {
			v.State = TabStateEmpty
			v.Message = "No historical data found."
			return v
		}
		v.Chart = &ChartView{
			ID:     "price-chart",
			Title:  "Closing Price",
			Series: chart.Prepare(chart.FromHistorical(rows)),
		}
		v.Table = buildTable(rows, historicalColumns, "No historical data found.")
	case company.TabAnnouncements:
		rows := normalize.Rows(p)
		v.Table = buildTable(rows, announcementColumns, "No announcements.")
		v.Pager = announcementPager(snap.Symbol, snap.Offset, len(rows))
		if len(rows) == 0 {
			v.State = TabStateEmpty
		}
	case company.TabCorporateActions:
		v.tableTab(p, corporateActionColumns)
	case company.TabAnnualReports, company.TabBRSRReports:
		v.tableTab(p, reportColumns)
	case company.TabBoardMeetings:
		v.tableTab(p, boardMeetingColumns)
	case company.TabFinancialResults:
		v.financialResults(snap.Symbol, p, params.Metric)
	case company.TabShareholding:
		v.shareholding(snap.Symbol, p, params.Period)
	case company.TabEventCalendar:
		v.tableTab(p, eventColumns)
	}
	return v
}

func (v *TabView) tableTab(p any, cols []column) {
	rows := normalize.Rows(p)
	v.Table = buildTable(rows, cols, "No data found.")
	if len(rows) == 0 {
		v.State = TabStateEmpty
	}
}

// unavailableCopy is the not-published message for each tab.
func unavailableCopy(tab string) Unavailable {
	switch tab {
	case company.TabFinancialResults:
		return Unavailable{Title: "Financial Results Not Available", Message: "NSE has not yet published financial results for this security."}
	case company.TabShareholding:
		return Unavailable{Title: "Shareholding Pattern Not Available", Message: "NSE has not yet published the shareholding pattern for this security."}
	case company.TabEventCalendar:
		return Unavailable{Title: "Event Calendar Not Available", Message: "No upcoming events found on NSE for this security."}
	case company.TabAnnouncements:
		return Unavailable{Title: "Announcements Not Available", Message: "NSE has no corporate announcements for this security yet."}
	case company.TabDashboard, company.TabQuote:
		return Unavailable{Title: "Quote Not Available", Message: "NSE is not publishing a quote for this security yet."}
	}
	label := company.TabLabel(tab)
	return Unavailable{
		Title:   label + " Not Available",
		Message: "NSE has not yet published " + label + " for this security.",
	}
}

func (v *TabView) unavailable(title, message, sourceURL string) {
	v.State = TabStateUnavailable
	v.Unavailable = &Unavailable{Title: title, Message: message, SourceURL: sourceURL}
}

func (v *TabView) financialResults(symbol string, p any, metric string) {
	financials := normalize.Unwrap(p)
	rows := normalize.Rows(financials)
	if len(rows) == 0 {
		v.State = TabStateEmpty
		if m, ok := financials.(map[string]any); ok && len(m) > 0 {
			v.Message = "No specific financial records found."
		} else {
			v.Message = "No financial results available."
		}
		return
	}

	metric = chart.Metric(metric)
	v.Chart = &ChartView{
		ID:     "financial-chart",
		Title:  "Financial Performance",
		Series: chart.FinancialSeries(rows, metric),
	}
	for _, m := range []struct{ key, label string }{
		{chart.MetricRevenue, "Revenue"},
		{chart.MetricProfit, "Net Profit"},
	} {
		v.Chart.Metrics = append(v.Chart.Metrics, MetricLink{
			Key:    m.key,
			Label:  m.label,
			URL:    TabURL(symbol, company.TabFinancialResults, url.Values{"metric": {m.key}}),
			Active: m.key == metric,
		})
	}
	v.Table = buildTable(rows, financialColumns, "No specific financial records found.")
}

func (v *TabView) shareholding(symbol string, p any, period string) {
	v.Title = "Shareholding Patterns (in %)"
	v.Shareholding = shareholdingView(symbol, p, period, true)
}

func shareholdingView(symbol string, p any, period string, withPeriods bool) *ShareholdingView {
	periods := shareholding.Normalize(p)
	selected := shareholding.Select(periods, period)
	view := &ShareholdingView{
		Chart:     shareholding.Donut(selected),
		SourceURL: shareholding.SourceURL(p),
		Mock:      selected.Mock,
	}
	if withPeriods && len(periods) > 1 {
		for _, pd := range periods {
			view.Periods = append(view.Periods, PeriodLink{
				Label:  pd.Label,
				URL:    TabURL(symbol, company.TabShareholding, url.Values{"period": {pd.Label}}),
				Active: pd.Label == selected.Label,
			})
		}
	}
	return view
}

func dashboardPreview(snap company.Snapshot) *Preview {
	preview := &Preview{
		Announcements:    []Announcement{},
		AnnouncementsURL: TabURL(snap.Symbol, company.TabAnnouncements, nil),
		ShareholdingURL:  TabURL(snap.Symbol, company.TabShareholding, nil),
	}
	rows := snap.Meta.Preview(company.TabAnnouncements)
	if len(rows) > 5 {
		rows = rows[:5]
	}
	for _, r := range rows {
		preview.Announcements = append(preview.Announcements, Announcement{
			Title: normalize.Text(r, "desc", "title", "subject"),
			Date:  normalize.Text(r, "an_dt", "date"),
			URL:   normalize.AttachmentURL(r),
		})
	}
	preview.Shareholding = shareholdingView(snap.Symbol, snap.Meta.Data(company.TabShareholding), "", false)
	return preview
}

func announcementPager(symbol string, offset, rows int) *Pager {
	limit := company.AnnouncementsPageSize
	pager := &Pager{Offset: offset, Limit: limit}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		pager.PrevURL = TabURL(symbol, company.TabAnnouncements, url.Values{"offset": {strconv.Itoa(prev)}})
	}
	if rows >= limit {
		pager.NextURL = TabURL(symbol, company.TabAnnouncements, url.Values{"offset": {strconv.Itoa(offset + limit)}})
	}
	return pager
}

func quoteStrip(q map[string]any) *QuoteStrip {
	get := func(key string) any {
		v, _ := normalize.QuoteValue(q, key)
		return v
	}
	change := get("change")
	n, _ := normalize.Number(change)
	return &QuoteStrip{
		LastPrice: normalize.Fmt2(get("lastPrice")),
		Change:    normalize.Fmt2(change),
		PChange:   normalize.Fmt2(get("pChange")),
		PrevClose: normalize.Fmt2(get("previousClose")),
		Up:        n >= 0,
	}
}

func quoteFields(q map[string]any) []Field {
	get := func(key string) any {
		v, _ := normalize.QuoteValue(q, key)
		return v
	}
	path := func(p string) any {
		v, _ := normalize.QuotePath(q, p)
		return v
	}
	return []Field{
		{"Open", normalize.Fmt2(get("open"))},
		{"Day High", normalize.Fmt2(get("dayHigh"))},
		{"Day Low", normalize.Fmt2(get("dayLow"))},
		{"52W High", normalize.Fmt2(path("weekHighLow.max"))},
		{"52W Low", normalize.Fmt2(path("weekHighLow.min"))},
		{"Total Traded Volume", normalize.Fmt2(get("totalTradedVolume"))},
		{"Total Traded Value", normalize.Fmt2(get("totalTradedValue"))},
		{"ISIN", normalize.String(get("isin"))},
		{"Series", normalize.String(path("securityInfo.series"))},
		{"Market", normalize.String(path("securityInfo.market"))},
		{"Trading Status", normalize.String(path("securityInfo.tradingStatus"))},
		{"Face Value", normalize.Fmt2(get("faceValue"))},
	}
}
