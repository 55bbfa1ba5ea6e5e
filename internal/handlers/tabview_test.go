package handlers

import (
	"strings"
	"testing"

	"github.com/bobmcallan/iposhala-portal/internal/company"
)

func snapshot(tab string, payload any) company.Snapshot {
	return company.Snapshot{Symbol: "ACME", Active: tab, Payload: payload, HasPayload: payload != nil}
}

func TestBuildTabView_Loading(t *testing.T) {
	v := BuildTabView(company.Snapshot{Symbol: "ACME", Active: company.TabHistorical, Loading: true}, TabParams{})
	if v.State != TabStateLoading {
		t.Errorf("expected loading, got %s", v.State)
	}
}

func TestBuildTabView_ErrorWinsOverPayload(t *testing.T) {
	snap := snapshot(company.TabCorporateActions, []any{})
	snap.Error = "timeout"
	v := BuildTabView(snap, TabParams{})
	if v.State != TabStateError || v.Error != "timeout" {
		t.Errorf("expected error state with message, got %s %q", v.State, v.Error)
	}
}

func TestBuildTabView_NoPayload(t *testing.T) {
	v := BuildTabView(snapshot(company.TabBoardMeetings, nil), TabParams{})
	if v.State != TabStateEmpty || v.Message != "No data available." {
		t.Errorf("expected empty with message, got %s %q", v.State, v.Message)
	}
}

func TestBuildTabView_TableFormatsAndLinks(t *testing.T) {
	payload := map[string]any{"data": []any{
		map[string]any{"m_yr": "2025", "desc": "Annual Report", "attchmntFile": "https://x/ar.pdf"},
		map[string]any{"m_yr": "2024", "desc": "Annual Report"},
	}}
	v := BuildTabView(snapshot(company.TabAnnualReports, payload), TabParams{})

	if v.State != TabStateReady {
		t.Fatalf("expected ready, got %s", v.State)
	}
	if len(v.Table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(v.Table.Rows))
	}
	link := v.Table.Rows[0][2]
	if link.URL != "https://x/ar.pdf" || link.Text != "View PDF" {
		t.Errorf("unexpected link cell %+v", link)
	}
	if missing := v.Table.Rows[1][2]; missing.URL != "" || missing.Text != "-" {
		t.Errorf("expected dash without attachment, got %+v", missing)
	}
}

func TestBuildTabView_EmptyTable(t *testing.T) {
	v := BuildTabView(snapshot(company.TabCorporateActions, []any{}), TabParams{})
	if v.State != TabStateEmpty {
		t.Errorf("expected empty, got %s", v.State)
	}
	if v.Table == nil || v.Table.EmptyText != "No data found." {
		t.Errorf("expected empty table text, got %+v", v.Table)
	}
}

func TestBuildTabView_HistoricalNumbers(t *testing.T) {
	payload := []any{map[string]any{"date": "2026-03-02", "open": 10, "high": 12.5, "low": 9, "close": 11.25, "volume": 1000}}
	v := BuildTabView(snapshot(company.TabHistorical, payload), TabParams{})

	if v.Chart == nil || v.Chart.ID != "price-chart" {
		t.Fatalf("expected price chart, got %+v", v.Chart)
	}
	row := v.Table.Rows[0]
	want := []string{"2026-03-02", "10.00", "12.50", "9.00", "11.25", "1000.00"}
	for i, w := range want {
		if row[i].Text != w {
			t.Errorf("column %d: expected %q, got %q", i, w, row[i].Text)
		}
	}
}

func TestBuildTabView_HistoricalEmpty(t *testing.T) {
	v := BuildTabView(snapshot(company.TabHistorical, map[string]any{"rows": []any{}}), TabParams{})
	if v.State != TabStateEmpty || v.Message != "No historical data found." {
		t.Errorf("expected empty historical, got %s %q", v.State, v.Message)
	}
	if v.Chart != nil {
		t.Error("expected no chart without rows")
	}
}

func TestBuildTabView_AnnouncementPager(t *testing.T) {
	full := make([]any, company.AnnouncementsPageSize)
	for i := range full {
		full[i] = map[string]any{"desc": "x"}
	}

	snap := snapshot(company.TabAnnouncements, full)
	snap.Offset = 50
	v := BuildTabView(snap, TabParams{})

	if !strings.Contains(v.Pager.PrevURL, "offset=0") {
		t.Errorf("expected prev to offset 0, got %s", v.Pager.PrevURL)
	}
	if !strings.Contains(v.Pager.NextURL, "offset=100") {
		t.Errorf("expected next to offset 100, got %s", v.Pager.NextURL)
	}

	short := snapshot(company.TabAnnouncements, full[:3])
	v = BuildTabView(short, TabParams{})
	if v.Pager.PrevURL != "" || v.Pager.NextURL != "" {
		t.Errorf("expected no paging on a short first page, got %+v", v.Pager)
	}
}

func TestBuildTabView_FinancialResults(t *testing.T) {
	payload := map[string]any{"data": []any{
		map[string]any{"from_dt": "01-Jan-2026", "to_dt": "31-Mar-2026", "desc": "Q4", "periodEnding": "31-Mar-2026",
			"data": []any{map[string]any{"label": "Revenue from operations", "value": 1200}}},
	}}
	v := BuildTabView(snapshot(company.TabFinancialResults, payload), TabParams{Metric: "profit"})

	if v.State != TabStateReady {
		t.Fatalf("expected ready, got %s", v.State)
	}
	if v.Chart == nil || v.Chart.ID != "financial-chart" {
		t.Fatalf("expected financial chart, got %+v", v.Chart)
	}
	if len(v.Chart.Metrics) != 2 {
		t.Fatalf("expected 2 metric links, got %d", len(v.Chart.Metrics))
	}
	if v.Chart.Metrics[0].Active || !v.Chart.Metrics[1].Active {
		t.Errorf("expected Net Profit active, got %+v", v.Chart.Metrics)
	}
	if len(v.Table.Rows) != 1 {
		t.Errorf("expected 1 table row, got %d", len(v.Table.Rows))
	}
}

func TestBuildTabView_FinancialResultsEmptyMessages(t *testing.T) {
	v := BuildTabView(snapshot(company.TabFinancialResults, map[string]any{"data": map[string]any{"note": "pending"}}), TabParams{})
	if v.Message != "No specific financial records found." {
		t.Errorf("unexpected message %q", v.Message)
	}

	v = BuildTabView(snapshot(company.TabFinancialResults, []any{}), TabParams{})
	if v.Message != "No financial results available." {
		t.Errorf("unexpected message %q", v.Message)
	}

	v = BuildTabView(snapshot(company.TabFinancialResults, map[string]any{"__available__": false}), TabParams{})
	if v.State != TabStateUnavailable {
		t.Errorf("expected unavailable, got %s", v.State)
	}
}

func TestBuildTabView_ShareholdingPeriods(t *testing.T) {
	payload := map[string]any{
		"source_url": "https://nse/sh.json",
		"data": []any{
			map[string]any{"period": "31-Mar-2026", "data": map[string]any{"promoter": 60, "public": 40}},
			map[string]any{"period": "31-Dec-2025", "data": map[string]any{"promoter": 62, "public": 38}},
		},
	}
	v := BuildTabView(snapshot(company.TabShareholding, payload), TabParams{Period: "31-Dec-2025"})

	if v.Title != "Shareholding Patterns (in %)" {
		t.Errorf("unexpected title %q", v.Title)
	}
	sh := v.Shareholding
	if sh == nil || len(sh.Periods) != 2 {
		t.Fatalf("expected 2 period links, got %+v", sh)
	}
	if sh.Chart.Label != "31-Dec-2025" {
		t.Errorf("expected selected period, got %q", sh.Chart.Label)
	}
	if sh.SourceURL != "https://nse/sh.json" || sh.Mock {
		t.Errorf("expected live source, got %+v", sh)
	}
}

func TestBuildTabView_ShareholdingFallsBackToMock(t *testing.T) {
	v := BuildTabView(snapshot(company.TabShareholding, map[string]any{}), TabParams{})
	if v.Shareholding == nil || !v.Shareholding.Mock {
		t.Fatalf("expected mock shareholding, got %+v", v.Shareholding)
	}
	if len(v.Shareholding.Chart.Slices) == 0 {
		t.Error("expected mock slices")
	}
}

func TestBuildTabView_EventCalendarUnavailable(t *testing.T) {
	v := BuildTabView(snapshot(company.TabEventCalendar, map[string]any{"available": false}), TabParams{})
	if v.State != TabStateUnavailable || v.Unavailable.Title != "Event Calendar Not Available" {
		t.Errorf("expected unavailable calendar, got %+v", v)
	}
}

func TestTabURL(t *testing.T) {
	if got := TabURL("ACME", company.TabAnnouncements, nil); got != "/ipo/ACME?offset=0&tab=announcements" {
		t.Errorf("unexpected announcements URL %s", got)
	}
	if got := TabURL("ACME", company.TabHistorical, nil); got != "/ipo/ACME?tab=historical" {
		t.Errorf("unexpected historical URL %s", got)
	}
}

func TestBuildTabView_UnavailableOnEveryTab(t *testing.T) {
	wrappers := map[string]any{
		"__available__": map[string]any{"__available__": false, "data": nil, "source_url": "https://nse/src.json"},
		"available":     map[string]any{"available": false},
	}

	for _, tab := range company.Tabs {
		for name, payload := range wrappers {
			t.Run(tab.Key+"/"+name, func(t *testing.T) {
				p := payload
				if tab.Key == company.TabDashboard {
					p = map[string]any{"quote": payload}
				}
				v := BuildTabView(snapshot(tab.Key, p), TabParams{})

				if v.State != TabStateUnavailable {
					t.Fatalf("expected unavailable, got %s", v.State)
				}
				if !strings.HasSuffix(v.Unavailable.Title, "Not Available") {
					t.Errorf("unexpected title %q", v.Unavailable.Title)
				}
				if v.Unavailable.Message == "" {
					t.Error("expected a message")
				}
				if v.Table != nil || v.Chart != nil {
					t.Error("expected no table or chart for an unpublished section")
				}
			})
		}
	}
}

func TestBuildTabView_UnavailableTitlesPerTab(t *testing.T) {
	off := map[string]any{"__available__": false}
	cases := map[string]string{
		company.TabCorporateActions: "Corporate Actions Not Available",
		company.TabAnnouncements:    "Announcements Not Available",
		company.TabBoardMeetings:    "Board Meetings Not Available",
		company.TabAnnualReports:    "Annual Reports Not Available",
		company.TabHistorical:       "Historical Data Not Available",
		company.TabShareholding:     "Shareholding Pattern Not Available",
	}
	for tab, want := range cases {
		v := BuildTabView(snapshot(tab, off), TabParams{})
		if v.Unavailable == nil || v.Unavailable.Title != want {
			t.Errorf("%s: expected %q, got %+v", tab, want, v.Unavailable)
		}
	}
}

func TestBuildTabView_UnavailableKeepsSourceLink(t *testing.T) {
	payload := map[string]any{"__available__": false, "source_url": "https://nse/ca.json"}
	v := BuildTabView(snapshot(company.TabCorporateActions, payload), TabParams{})
	if v.Unavailable == nil || v.Unavailable.SourceURL != "https://nse/ca.json" {
		t.Errorf("expected source link, got %+v", v.Unavailable)
	}
}
