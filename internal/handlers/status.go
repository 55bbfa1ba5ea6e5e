package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// The backend publishes no subscription or listing-day figures, so these
// pages show sample rows and label them as such.
var (
	sampleSubscriptions = []models.Subscription{
		{Name: "Tech Solutions Ltd", QIB: times("5.2"), NII: times("8.4"), Retail: times("12.1"), Employee: times("1.5"), Total: times("8.6")},
		{Name: "Green Energy Corp", QIB: times("2.1"), NII: times("3.5"), Retail: times("4.8"), Employee: times("0.9"), Total: times("3.4")},
		{Name: "Creative Tech SME", NII: times("45.2"), Retail: times("85.6"), Total: times("65.4")},
	}

	sampleListings = []models.ListingResult{
		{Name: "Auto Components Pro", IssuePrice: rupees("210"), ListingPrice: rupees("315"), CurrentPrice: rupees("340")},
		{Name: "Food & Beverages Co", IssuePrice: rupees("450"), ListingPrice: rupees("460"), CurrentPrice: rupees("445")},
		{Name: "Logistics Express", IssuePrice: rupees("180"), ListingPrice: rupees("170"), CurrentPrice: rupees("165")},
		{Name: "Tech Start Ltd", IssuePrice: rupees("500"), ListingPrice: rupees("950"), CurrentPrice: rupees("1100")},
	}
)

func times(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func rupees(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SubscriptionRow is one line of the subscription table.
type SubscriptionRow struct {
	Name     string
	QIB      string
	NII      string
	Retail   string
	Employee string
	Total    string
}

func subscriptionRows(subs []models.Subscription) []SubscriptionRow {
	rows := make([]SubscriptionRow, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, SubscriptionRow{
			Name:     s.Name,
			QIB:      models.Times(s.QIB),
			NII:      models.Times(s.NII),
			Retail:   models.Times(s.Retail),
			Employee: models.Times(s.Employee),
			Total:    models.Times(s.Total),
		})
	}
	return rows
}

// ServeSubscriptionStatus renders the per-category subscription table.
func (h *PageHandler) ServeSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data := h.baseData("subscription", "Subscription Status - IPOshala")
	data["Rows"] = subscriptionRows(sampleSubscriptions)
	data["Sample"] = true

	h.render(w, http.StatusOK, "subscription.html", data)
}

// PerformanceRow is one line of the listing performance table.
type PerformanceRow struct {
	Name     string
	Issue    string
	Listing  string
	Current  string
	Gain     string
	Positive bool
}

func performanceRows(results []models.ListingResult) []PerformanceRow {
	rows := make([]PerformanceRow, 0, len(results))
	for _, l := range results {
		row := PerformanceRow{
			Name:    l.Name,
			Issue:   "₹" + l.IssuePrice.String(),
			Listing: "₹" + l.ListingPrice.String(),
			Current: "₹" + l.CurrentPrice.String(),
			Gain:    "-",
		}
		if gain, ok := l.ListingGain(); ok {
			row.Positive = !gain.IsNegative()
			row.Gain = gain.StringFixed(2) + "%"
			if gain.IsPositive() {
				row.Gain = "+" + row.Gain
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ServeListingPerformance renders listing-day gains against issue price.
func (h *PageHandler) ServeListingPerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data := h.baseData("performance", "Listing Performance - IPOshala")
	data["Rows"] = performanceRows(sampleListings)
	data["Sample"] = true

	h.render(w, http.StatusOK, "performance.html", data)
}

var (
	panPattern         = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	applicationPattern = regexp.MustCompile(`^[0-9]{6,20}$`)
)

// ValidAllotmentID reports whether id reads as a PAN or an application number.
func ValidAllotmentID(id string) bool {
	id = strings.ToUpper(strings.TrimSpace(id))
	return panPattern.MatchString(id) || applicationPattern.MatchString(id)
}

// IPOOption is one entry of the allotment IPO picker.
type IPOOption struct {
	Symbol   string
	Name     string
	Selected bool
}

// ServeAllotmentStatus renders the allotment form. The picker lists closed
// issues; a submitted form is validated and pointed at the registrar, who
// holds the allotment records. The PAN is never logged.
func (h *PageHandler) ServeAllotmentStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	symbol := strings.ToUpper(strings.TrimSpace(query.Get("ipo")))
	id := strings.ToUpper(strings.TrimSpace(query.Get("pan")))

	closed, err := h.listings.Closed(r.Context(), "")

	options := make([]IPOOption, 0, len(closed))
	selected := ""
	for _, ipo := range closed {
		opt := IPOOption{Symbol: ipo.Key(), Name: ipo.CompanyName}
		if opt.Name == "" {
			opt.Name = opt.Symbol
		}
		if opt.Symbol != "" && opt.Symbol == symbol {
			opt.Selected = true
			selected = opt.Name
		}
		options = append(options, opt)
	}

	data := h.baseData("allotment", "Allotment Status - IPOshala")
	data["Options"] = options
	data["PAN"] = id
	data["Error"] = errText(err)

	if query.Has("ipo") || query.Has("pan") {
		switch {
		case symbol == "":
			data["FormError"] = "Select an IPO."
		case selected == "":
			data["FormError"] = "That IPO is not awaiting allotment."
		case !ValidAllotmentID(id):
			data["FormError"] = "Enter a valid PAN (e.g. ABCDE1234F) or application number."
		default:
			data["Result"] = "Allotment for " + selected + " is finalised by its registrar (RTA). Use this PAN or application number on the registrar's allotment page."
		}
	}

	h.render(w, http.StatusOK, "allotment.html", data)
}
