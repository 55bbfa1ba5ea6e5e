package models

// TabsMeta is the response of GET /api/company/{symbol}/tabs. It carries the
// per-tab badge counts and small previews used by the dashboard tab.
type TabsMeta struct {
	Symbol       string             `json:"symbol"`
	CompanyName  string             `json:"company_name"`
	SecurityType string             `json:"security_type"`
	UpdatedAt    map[string]Value   `json:"updated_at"`
	Tabs         map[string]TabMeta `json:"tabs"`
}

// TabMeta is one entry of TabsMeta.Tabs. Listing sections fill Count and
// Preview; document sections (shareholding, financial results) fill Exists and Data.
type TabMeta struct {
	Count   *int             `json:"count"`
	Preview []map[string]any `json:"preview"`
	Exists  *bool            `json:"exists"`
	Data    any              `json:"data"`
}

// Counts returns the badge count for every tab that reports one.
func (m *TabsMeta) Counts() map[string]int {
	counts := make(map[string]int)
	if m == nil {
		return counts
	}
	for key, tab := range m.Tabs {
		if tab.Count != nil {
			counts[key] = *tab.Count
		}
	}
	return counts
}

// Preview returns the preview rows of a tab, or nil.
func (m *TabsMeta) Preview(tab string) []map[string]any {
	if m == nil {
		return nil
	}
	return m.Tabs[tab].Preview
}

// Data returns the inline data of a tab, or nil.
func (m *TabsMeta) Data(tab string) any {
	if m == nil {
		return nil
	}
	return m.Tabs[tab].Data
}
