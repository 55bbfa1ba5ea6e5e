package models

import (
	"github.com/shopspring/decimal"
)

// Subscription is the bid-to-offer ratio of one issue per investor category.
// A category the issue does not reserve for is left invalid.
type Subscription struct {
	Name     string
	QIB      decimal.NullDecimal
	NII      decimal.NullDecimal
	Retail   decimal.NullDecimal
	Employee decimal.NullDecimal
	Total    decimal.NullDecimal
}

// Times formats a subscription ratio as "12.1x", or "-" when not reserved.
func Times(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String() + "x"
}

// ListingResult is how a listed issue traded against its issue price.
type ListingResult struct {
	Name         string
	IssuePrice   decimal.Decimal
	ListingPrice decimal.Decimal
	CurrentPrice decimal.Decimal
}

// ListingGain returns the listing-day gain over the issue price in percent,
// rounded to two places. ok is false for a zero issue price.
func (l ListingResult) ListingGain() (decimal.Decimal, bool) {
	if l.IssuePrice.IsZero() {
		return decimal.Zero, false
	}
	return l.ListingPrice.Sub(l.IssuePrice).Div(l.IssuePrice).Mul(decimal.NewFromInt(100)).Round(2), true
}
