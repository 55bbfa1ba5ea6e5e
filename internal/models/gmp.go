package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// GMPEntry is one grey market premium row from GET /api/gmp/.
// The backend has used both the short (name, price, type) and the long
// (company_name, issue_price, security_type) field names.
type GMPEntry struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Price       Value  `json:"price"`
	GMP         Value  `json:"gmp"`
	Type        string `json:"type"`
	LastUpdated Value  `json:"last_updated"`
}

// UnmarshalJSON folds the long field names onto the short ones.
func (g *GMPEntry) UnmarshalJSON(data []byte) error {
	type plain GMPEntry
	var aux struct {
		plain
		CompanyName  string `json:"company_name"`
		IssuePrice   Value  `json:"issue_price"`
		GMPValue     Value  `json:"gmp_value"`
		SecurityType string `json:"security_type"`
		UpdatedAt    Value  `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*g = GMPEntry(aux.plain)
	if g.Name == "" {
		g.Name = aux.CompanyName
	}
	if !g.Price.IsSet() {
		g.Price = aux.IssuePrice
	}
	if !g.GMP.IsSet() {
		g.GMP = aux.GMPValue
	}
	if g.Type == "" {
		g.Type = aux.SecurityType
	}
	if !g.LastUpdated.IsSet() {
		g.LastUpdated = aux.UpdatedAt
	}
	return nil
}

// Estimate computes the expected listing price and gain from price and GMP.
// ok is false when either side does not parse as an amount or the price is zero.
func (g GMPEntry) Estimate() (listing, gainPct decimal.Decimal, ok bool) {
	price, err := ParseAmount(g.Price.String())
	if err != nil || price.IsZero() {
		return decimal.Zero, decimal.Zero, false
	}
	gmp, err := ParseAmount(g.GMP.String())
	if err != nil {
		return decimal.Zero, decimal.Zero, false
	}
	listing = price.Add(gmp)
	gainPct = gmp.Div(price).Mul(decimal.NewFromInt(100))
	return listing, gainPct, true
}

// ParseAmount reads an amount such as "₹1,250.50", "85" or "-12".
// For a price band ("₹450-475") the upper bound is used, which is the cut-off
// retail applicants bid at.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "INR", "", ",", "", " ", "").Replace(s)
	if i := strings.LastIndex(s, "-"); i > 0 {
		s = s[i+1:]
	}
	return decimal.NewFromString(s)
}
