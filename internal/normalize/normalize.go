// Package normalize reads the loosely shaped company payloads returned by the
// backend. NSE-sourced sections move fields between nesting levels depending
// on which upstream variant produced them, so every read goes through a
// tolerant accessor here.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/iposhala-portal/internal/common"
)

// Dash is shown wherever a value is absent.
const Dash = "-"

// IsUnavailable reports whether v is an {__available__: false} or
// {available: false} wrapper. Only a boolean false counts.
func IsUnavailable(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"__available__", "available"} {
		if b, ok := m[key].(bool); ok && !b {
			return true
		}
	}
	return false
}

// Rows returns the row collection of a section payload: data, else payload,
// else v itself. Anything that is not an array of objects yields no rows.
func Rows(v any) []map[string]any {
	if m, ok := v.(map[string]any); ok {
		if d, ok := m["data"]; ok {
			v = d
		} else if p, ok := m["payload"]; ok {
			v = p
		}
	}
	arr, ok := v.([]any)
	if !ok {
		return []map[string]any{}
	}
	rows := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Unwrap returns v.data when v is an object carrying a data field, else v.
func Unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if d, ok := m["data"]; ok && d != nil {
			return d
		}
	}
	return v
}

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && len(m) > 0
}

// ExtractQuote locates the quote object inside a quote or dashboard payload.
// It tries nse_quote, quote, data.nse_quote, data.quote, data and finally the
// payload itself; the first non-empty object wins.
func ExtractQuote(payload any) map[string]any {
	root, _ := payload.(map[string]any)
	if root == nil {
		return nil
	}
	data, _ := root["data"].(map[string]any)

	for _, candidate := range []any{
		root["nse_quote"],
		root["quote"],
		data["nse_quote"],
		data["quote"],
		root["data"],
	} {
		if m, ok := object(candidate); ok {
			return m
		}
	}
	if len(root) == 0 {
		return nil
	}
	return root
}

// QuoteValue reads key from a quote through key, priceInfo.key,
// securityInfo.key, info.key, data.key and data.priceInfo.key. The first
// non-null value wins. ok is false when the key is present nowhere.
func QuoteValue(q map[string]any, key string) (any, bool) {
	if q == nil {
		return nil, false
	}
	data, _ := q["data"].(map[string]any)
	dataPrice, _ := data["priceInfo"].(map[string]any)

	sources := []map[string]any{
		q,
		sub(q, "priceInfo"),
		sub(q, "securityInfo"),
		sub(q, "info"),
		data,
		dataPrice,
	}
	for _, src := range sources {
		if src == nil {
			continue
		}
		if v, ok := src[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// QuotePath reads a dotted path such as "weekHighLow.max" through the same
// cascade as QuoteValue, applied to the first segment.
func QuotePath(q map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	v, ok := QuoteValue(q, parts[0])
	for _, p := range parts[1:] {
		if !ok {
			return nil, false
		}
		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}
		v, ok = m[p]
		ok = ok && v != nil
	}
	return v, ok
}

func sub(m map[string]any, key string) map[string]any {
	s, _ := m[key].(map[string]any)
	return s
}

// AttachmentURL returns the download link of a filing row, reading
// attchmntFile, url, link, attachment and pdf in that order.
func AttachmentURL(row map[string]any) string {
	for _, key := range []string{"attchmntFile", "url", "link", "attachment", "pdf"} {
		if s, ok := row[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Fmt2 formats a number, or a string that parses as one, to two decimals.
// nil and the empty string render as a dash; anything else is passed through.
func Fmt2(v any) string {
	switch t := v.(type) {
	case nil:
		return Dash
	case json.Number:
		return fmtString(t.String())
	case string:
		if strings.TrimSpace(t) == "" {
			return Dash
		}
		return fmtString(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Sprint(t)
		}
		return decimal.NewFromFloat(t).StringFixed(2)
	case float32:
		return Fmt2(float64(t))
	case int:
		return decimal.NewFromInt(int64(t)).StringFixed(2)
	case int64:
		return decimal.NewFromInt(t).StringFixed(2)
	}
	return fmt.Sprint(v)
}

func fmtString(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return d.StringFixed(2)
}

// Number returns v as a float64 when it is numeric or a numeric string.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(t, ",", "")))
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	}
	return 0, false
}

// String renders a scalar for display; absent values become a dash.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return Dash
	case string:
		if s := common.CleanText(t); s != "" {
			return s
		}
		return Dash
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case map[string]any, []any:
		return Dash
	}
	return fmt.Sprint(v)
}

// Text returns the first of keys holding a non-empty value, rendered and
// sanitised. It returns a dash when none do.
func Text(row map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		if s := String(v); s != Dash {
			return s
		}
	}
	return Dash
}

// HistoricalDateKeys are the fields a price history row keeps its date in.
var HistoricalDateKeys = []string{"date", "price_date", "DATE"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"02-01-2006",
	"02 Jan 2006",
	"Jan 2006",
	"Jan-2006",
}

// ParseDate reads the date formats seen in backend payloads.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RowDate returns the first parseable date among keys.
func RowDate(row map[string]any, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		if s, ok := row[key].(string); ok {
			if t, ok := ParseDate(s); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// HistoricalRows returns the price history rows, read from rows, data or
// payload, sorted newest first by date or price_date. Rows without a
// parseable date sort last.
func HistoricalRows(v any) []map[string]any {
	if m, ok := v.(map[string]any); ok {
		if r, ok := m["rows"]; ok {
			v = r
		}
	}
	rows := Rows(v)
	sort.SliceStable(rows, func(i, j int) bool {
		ti, okI := RowDate(rows[i], HistoricalDateKeys...)
		tj, okJ := RowDate(rows[j], HistoricalDateKeys...)
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
	return rows
}
