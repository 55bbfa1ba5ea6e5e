package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/iposhala-portal/internal/listings"
	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// ListingPage describes one of the IPO table pages.
type ListingPage struct {
	Key        string
	Path       string
	Title      string
	Subtitle   string
	TableTitle string
	load       func(ctx context.Context, l Listings) ([]models.IPO, error)
}

func closedOf(ipoType string) func(context.Context, Listings) ([]models.IPO, error) {
	return func(ctx context.Context, l Listings) ([]models.IPO, error) {
		return l.Closed(ctx, ipoType)
	}
}

// ListingPages are served in navigation order.
var ListingPages = []ListingPage{
	{
		Key: "mainboard", Path: "/mainboard-ipos",
		Title: "Mainboard IPOs", Subtitle: "List of all Mainboard IPOs listed on NSE & BSE",
		TableTitle: "Mainboard Issues", load: closedOf(models.SecurityTypeMainboard),
	},
	{
		Key: "sme", Path: "/sme-ipos",
		Title: "SME IPOs", Subtitle: "Small and Medium Enterprise IPOs on NSE Emerge & BSE SME",
		TableTitle: "SME Issues", load: closedOf(models.SecurityTypeSME),
	},
	{
		Key: "current", Path: "/current-ipos",
		Title: "Current IPOs", Subtitle: "Open for subscription right now",
		TableTitle: "Open Issues",
		load: func(ctx context.Context, l Listings) ([]models.IPO, error) {
			return l.Live(ctx)
		},
	},
	{
		Key: "upcoming", Path: "/upcoming-ipos",
		Title: "Upcoming IPOs", Subtitle: "Calendar of upcoming public issues in Indian markets",
		TableTitle: "Upcoming Issues",
		load: func(ctx context.Context, l Listings) ([]models.IPO, error) {
			return l.Upcoming(ctx)
		},
	},
	{
		Key: "closed", Path: "/closed-ipos",
		Title: "Closed IPOs", Subtitle: "Recently closed for subscription, awaiting listing",
		TableTitle: "Recently Closed Issues", load: closedOf(""),
	},
}

// IPORow is one table row of a listing page.
type IPORow struct {
	Symbol    string
	Href      string
	Name      string
	Type      string
	OpenDate  string
	CloseDate string
	Listing   string
	Price     string
	IssueSize string
	LotSize   string
	Status    string
	Open      bool
}

func ipoRows(list []models.IPO) []IPORow {
	rows := make([]IPORow, 0, len(list))
	for _, ipo := range list {
		row := IPORow{
			Symbol:    ipo.Key(),
			Name:      ipo.CompanyName,
			Type:      displayType(ipo.SecurityType),
			OpenDate:  ipo.IssueStartDate.OrDash(),
			CloseDate: ipo.IssueEndDate.OrDash(),
			Listing:   ipo.ListingDate.OrDash(),
			Price:     ipo.Price(),
			IssueSize: ipo.IssueSize.OrDash(),
			LotSize:   ipo.LotSize.OrDash(),
			Status:    ipo.Status,
			Open:      ipo.IsOpen(),
		}
		if row.Name == "" {
			row.Name = row.Symbol
		}
		if row.Symbol != "" {
			row.Href = detailHref(row.Symbol)
		}
		if row.Status == "" {
			row.Status = "-"
		}
		rows = append(rows, row)
	}
	return rows
}

func displayType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "":
		return "-"
	case models.SecurityTypeSME:
		return "SME"
	case models.SecurityTypeMainboard, "mainboard":
		return "Mainboard"
	}
	return t
}

// ServeListing returns the handler for one listing page.
func (h *PageHandler) ServeListing(page ListingPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}

		list, err := page.load(r.Context(), h.listings)

		data := h.baseData(page.Key, page.Title+" - IPOshala")
		data["Listing"] = page
		data["Rows"] = ipoRows(list)
		data["Error"] = errText(err)

		h.render(w, http.StatusOK, "listing.html", data)
	}
}

// GMPRow is one grey market premium row with its computed estimate.
type GMPRow struct {
	Name        string
	Href        string
	Type        string
	Price       string
	GMP         string
	EstListing  string
	Gain        string
	Positive    bool
	HasEstimate bool
	LastUpdated string
}

func gmpRows(entries []models.GMPEntry) []GMPRow {
	rows := make([]GMPRow, 0, len(entries))
	for _, e := range entries {
		row := GMPRow{
			Name:        e.Name,
			Type:        displayType(e.Type),
			Price:       e.Price.OrDash(),
			GMP:         e.GMP.OrDash(),
			EstListing:  "-",
			Gain:        "-",
			LastUpdated: e.LastUpdated.OrDash(),
		}
		if e.Symbol != "" {
			row.Href = detailHref(e.Symbol)
		}
		if listing, gain, ok := e.Estimate(); ok {
			row.HasEstimate = true
			row.Positive = !gain.IsNegative()
			row.EstListing = "₹" + listing.StringFixed(2)
			row.Gain = gain.StringFixed(2) + "%"
			if gain.IsPositive() {
				row.Gain = "+" + row.Gain
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ServeGMP renders the grey market premium table.
func (h *PageHandler) ServeGMP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entries, err := h.listings.GMP(r.Context())

	data := h.baseData("gmp", "Grey Market Premium (GMP) - IPOshala")
	data["Rows"] = gmpRows(entries)
	data["Error"] = errText(err)

	h.render(w, http.StatusOK, "gmp.html", data)
}

// SearchRow is one search hit.
type SearchRow struct {
	listings.Hit
	Href string
}

// ServeSearch renders full-text search results for ?q=.
func (h *PageHandler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	data := h.baseData("search", "Search - IPOshala")
	data["Query"] = query

	if query != "" {
		hits, err := h.listings.Search(query, limit)
		if err != nil {
			h.logger.Warn().Str("query", query).Str("error", err.Error()).Msg("search failed")
		}
		rows := make([]SearchRow, 0, len(hits))
		for _, hit := range hits {
			row := SearchRow{Hit: hit}
			if hit.Symbol != "" {
				row.Href = detailHref(hit.Symbol)
			}
			rows = append(rows, row)
		}
		data["Results"] = rows
		data["Error"] = errText(err)
	}

	h.render(w, http.StatusOK, "search.html", data)
}
