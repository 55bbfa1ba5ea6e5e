// Package shareholding normalizes shareholding pattern payloads into
// reporting periods and lays them out as an SVG donut.
package shareholding

import (
	"sort"
	"strings"

	"github.com/bobmcallan/iposhala-portal/internal/normalize"
)

// Category keys in display order.
const (
	Promoter       = "promoter"
	Public         = "public"
	EmployeeTrusts = "employee_trusts"
	Institutional  = "institutional"
	Other          = "other"
)

type categoryStyle struct {
	key   string
	label string
	color string
}

var categories = []categoryStyle{
	{Promoter, "Promoter & Promoter Group", "#3b82f6"},
	{Public, "Public", "#10b981"},
	{EmployeeTrusts, "Employee Trusts", "#f59e0b"},
	{Institutional, "Institutional", "#8b5cf6"},
	{Other, "Other", "#6b7280"},
}

// Category is one holder group of a period.
type Category struct {
	Key   string
	Label string
	Color string
	Value float64
}

// Period is the composition reported for one period.
type Period struct {
	Label      string
	Categories []Category
	Mock       bool
}

// Total returns the sum of the category percentages.
func (p Period) Total() float64 {
	var total float64
	for _, c := range p.Categories {
		total += c.Value
	}
	return total
}

// MockPeriod is shown when no period carries a positive value.
func MockPeriod() Period {
	p := fromValues("", map[string]float64{
		Promoter:       74.5,
		Public:         24.1,
		EmployeeTrusts: 1.4,
	})
	p.Mock = true
	return p
}

// Normalize accepts a flat percentages object (optionally under "data"), an
// array of {period, data} objects, or an object keyed by period label. It
// returns the periods most recent first, each holding only its positive
// categories. When nothing positive is found the mock period is returned.
func Normalize(v any) []Period {
	v = normalize.Unwrap(v)

	var periods []Period
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			label := normalize.Text(m, "period", "label", "date", "quarter")
			if label == normalize.Dash {
				label = ""
			}
			data := m["data"]
			if data == nil {
				data = m
			}
			if values, ok := percentages(data); ok {
				periods = append(periods, fromValues(label, values))
			}
		}
	case map[string]any:
		if values, ok := percentages(t); ok {
			periods = append(periods, fromValues("", values))
			break
		}
		labels := make([]string, 0, len(t))
		for label := range t {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			if values, ok := percentages(t[label]); ok {
				periods = append(periods, fromValues(label, values))
			}
		}
	}

	periods = positive(periods)
	if len(periods) == 0 {
		return []Period{MockPeriod()}
	}
	sortRecentFirst(periods)
	return periods
}

// Select returns the period labelled label, or the first period.
func Select(periods []Period, label string) Period {
	for _, p := range periods {
		if p.Label == label && label != "" {
			return p
		}
	}
	if len(periods) == 0 {
		return MockPeriod()
	}
	return periods[0]
}

// SourceURL returns the source_url recorded alongside the data, if any.
func SourceURL(v any) string {
	for _, candidate := range []any{v, normalize.Unwrap(v)} {
		if m, ok := candidate.(map[string]any); ok {
			if s, ok := m["source_url"].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// percentages reads the known category keys from v. ok is false when v is
// not an object or holds none of them.
func percentages(v any) (map[string]float64, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	values := make(map[string]float64)
	for _, c := range categories {
		raw, present := m[c.key]
		if !present {
			continue
		}
		n, _ := normalize.Number(raw)
		values[c.key] = n
	}
	return values, len(values) > 0
}

func fromValues(label string, values map[string]float64) Period {
	p := Period{Label: label}
	for _, c := range categories {
		if v := values[c.key]; v > 0 {
			p.Categories = append(p.Categories, Category{Key: c.key, Label: c.label, Color: c.color, Value: v})
		}
	}
	return p
}

func positive(periods []Period) []Period {
	out := periods[:0]
	for _, p := range periods {
		if len(p.Categories) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// sortRecentFirst orders labels that parse as dates newest first, ahead of
// labels that do not; the latter keep their relative order.
func sortRecentFirst(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		ti, okI := normalize.ParseDate(periodDate(periods[i].Label))
		tj, okJ := normalize.ParseDate(periodDate(periods[j].Label))
		if okI && okJ {
			return ti.After(tj)
		}
		return okI && !okJ
	})
}

// periodDate strips quarter prefixes such as "Q3 " or "Quarter ended ".
func periodDate(label string) string {
	l := strings.TrimSpace(label)
	for _, prefix := range []string{"Quarter ended ", "Quarter Ended ", "As on ", "as on "} {
		l = strings.TrimPrefix(l, prefix)
	}
	return l
}
