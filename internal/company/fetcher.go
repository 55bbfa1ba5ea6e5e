package company

import (
	"context"

	"github.com/bobmcallan/iposhala-portal/internal/models"
)

// Fetcher is the subset of the backend client the controller calls.
// *client.Client satisfies it.
//
//go:generate mockgen -package=company_test -destination=mock_fetcher_test.go -source=fetcher.go Fetcher
type Fetcher interface {
	IPODetails(ctx context.Context, symbol string) (*models.IPODetail, error)
	CompanyQuote(ctx context.Context, symbol string) (any, error)
	CompanyHistorical(ctx context.Context, symbol string) (any, error)
	CompanyTabs(ctx context.Context, symbol string) (*models.TabsMeta, error)
	Announcements(ctx context.Context, symbol string, limit, offset int) (any, error)
	CorporateActions(ctx context.Context, symbol string, limit, offset int) (any, error)
	AnnualReports(ctx context.Context, symbol string, limit, offset int) (any, error)
	BRSRReports(ctx context.Context, symbol string, limit, offset int) (any, error)
	BoardMeetings(ctx context.Context, symbol string, limit, offset int) (any, error)
	EventCalendar(ctx context.Context, symbol string, limit, offset int) (any, error)
	ShareholdingPattern(ctx context.Context, symbol string) (any, error)
	FinancialResults(ctx context.Context, symbol string) (any, error)
}
