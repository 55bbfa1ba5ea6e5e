// Package company holds the per-visitor state of a company detail view:
// which tab is active, what each tab last fetched, and the tab metadata.
package company

import "errors"

// ErrUnknownTab is returned when a tab id is not one of Tabs.
var ErrUnknownTab = errors.New("unknown tab")

// Tab ids.
const (
	TabDashboard        = "dashboard"
	TabQuote            = "quote"
	TabHistorical       = "historical"
	TabAnnouncements    = "announcements"
	TabCorporateActions = "corporate_actions"
	TabAnnualReports    = "annual_reports"
	TabBRSRReports      = "brsr_reports"
	TabShareholding     = "shareholding_pattern"
	TabFinancialResults = "financial_results"
	TabBoardMeetings    = "board_meetings"
	TabEventCalendar    = "event_calendar"
)

// AnnouncementsPageSize is the page size used when paging announcements.
const AnnouncementsPageSize = 50

// Tab is a tab id with its display label.
type Tab struct {
	Key   string
	Label string
}

// Tabs lists the detail view tabs in display order.
var Tabs = []Tab{
	{TabDashboard, "Dashboard"},
	{TabQuote, "Quote"},
	{TabHistorical, "Historical Data"},
	{TabAnnouncements, "Announcements"},
	{TabCorporateActions, "Corporate Actions"},
	{TabAnnualReports, "Annual Reports"},
	{TabBRSRReports, "BRSR Reports"},
	{TabShareholding, "Shareholding Pattern"},
	{TabFinancialResults, "Financial Results"},
	{TabBoardMeetings, "Board Meetings"},
	{TabEventCalendar, "Event Calendar"},
}

// IsTab reports whether key is a known tab id.
func IsTab(key string) bool {
	for _, t := range Tabs {
		if t.Key == key {
			return true
		}
	}
	return false
}

// TabLabel returns the display label of a tab, or the key itself.
func TabLabel(key string) string {
	for _, t := range Tabs {
		if t.Key == key {
			return t.Label
		}
	}
	return key
}
