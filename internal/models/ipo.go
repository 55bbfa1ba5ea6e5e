package models

import (
	"strings"
)

// Security types as reported by the backend.
const (
	SecurityTypeMainboard = "main"
	SecurityTypeSME       = "sme"
)

// IPO is one issue in a listing (closed, live or upcoming).
type IPO struct {
	IPOID          Value  `json:"ipo_id"`
	Symbol         string `json:"symbol"`
	CompanyName    string `json:"company_name"`
	SecurityType   string `json:"security_type"`
	IssueStartDate Value  `json:"issue_start_date"`
	IssueEndDate   Value  `json:"issue_end_date"`
	ListingDate    Value  `json:"listing_date"`
	IssuePrice     Value  `json:"issue_price"`
	PriceRange     Value  `json:"price_range"`
	IssueSize      Value  `json:"issue_size"`
	LotSize        Value  `json:"lot_size"`
	Status         string `json:"status"`
}

// Key returns the identity of the record: the upper-cased symbol.
func (i IPO) Key() string {
	return strings.ToUpper(strings.TrimSpace(i.Symbol))
}

// IsSME reports whether the issue is on the SME platform.
func (i IPO) IsSME() bool {
	return strings.Contains(strings.ToLower(i.SecurityType), "sme")
}

// Price returns the fixed issue price, falling back to the price band.
func (i IPO) Price() string {
	if i.IssuePrice.IsSet() {
		return i.IssuePrice.String()
	}
	return i.PriceRange.OrDash()
}

// IsOpen reports whether the status reads as an open issue.
func (i IPO) IsOpen() bool {
	s := strings.ToLower(i.Status)
	return strings.Contains(s, "open") || strings.Contains(s, "live") || strings.Contains(s, "active")
}

// IssueInformation carries the static SEBI/NSE links shown on a detail page.
type IssueInformation struct {
	ASBACircularPDF          string `json:"asba_circular_pdf"`
	UPIASBAVideo             string `json:"upi_asba_video"`
	AnchorAllocationZip      string `json:"anchor_allocation_zip"`
	BHIMUPIRegistrationVideo string `json:"bhim_upi_registration_video"`
}

// Links returns the populated links in display order.
func (ii IssueInformation) Links() []Link {
	candidates := []Link{
		{Key: "asba_circular_pdf", Label: "ASBA Circular (PDF)", URL: ii.ASBACircularPDF},
		{Key: "upi_asba_video", Label: "UPI ASBA Video", URL: ii.UPIASBAVideo},
		{Key: "anchor_allocation_zip", Label: "Anchor Allocation (ZIP)", URL: ii.AnchorAllocationZip},
		{Key: "bhim_upi_registration_video", Label: "BHIM UPI Registration Video", URL: ii.BHIMUPIRegistrationVideo},
	}
	links := make([]Link, 0, len(candidates))
	for _, l := range candidates {
		if strings.TrimSpace(l.URL) != "" {
			links = append(links, l)
		}
	}
	return links
}

// Link is a labelled outbound URL.
type Link struct {
	Key   string
	Label string
	URL   string
}

// IPODetail is the response of GET /api/ipos/{symbol}.
type IPODetail struct {
	IPO
	Description      string           `json:"description"`
	Documents        map[string]any   `json:"documents"`
	IssueInformation IssueInformation `json:"issue_information"`
}

// HasDocument reports whether the backend holds a document of docType.
func (d IPODetail) HasDocument(docType string) bool {
	v, ok := d.Documents[docType]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.TrimSpace(t) != ""
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

// Stats is the response of GET /api/ipos/stats.
type Stats struct {
	Upcoming int `json:"upcoming"`
	Current  int `json:"current"`
	Listed   int `json:"listed"`
	SME      int `json:"sme"`
	GMP      int `json:"gmp"`
}
