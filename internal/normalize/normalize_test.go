package normalize

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(decode(t, `{"__available__":false}`)))
	assert.True(t, IsUnavailable(decode(t, `{"available":false,"reason":"not published"}`)))
	assert.False(t, IsUnavailable(decode(t, `{"data":[{"desc":"x"}]}`)))
	assert.False(t, IsUnavailable(decode(t, `{"available":"false"}`)), "only boolean false counts")
	assert.False(t, IsUnavailable(decode(t, `{"available":true}`)))
	assert.False(t, IsUnavailable(decode(t, `[]`)))
	assert.False(t, IsUnavailable(nil))
}

func TestRows(t *testing.T) {
	assert.Len(t, Rows(decode(t, `{"data":[{"a":1},{"a":2}]}`)), 2)
	assert.Len(t, Rows(decode(t, `{"payload":[{"a":1}]}`)), 1)
	assert.Len(t, Rows(decode(t, `[{"a":1},{"a":2},{"a":3}]`)), 3)

	assert.Empty(t, Rows(decode(t, `{"data":{"a":1}}`)), "non-array data")
	assert.Empty(t, Rows(decode(t, `{"a":1}`)))
	assert.Empty(t, Rows(decode(t, `"text"`)))
	assert.NotNil(t, Rows(nil))
}

func TestRows_DataWinsOverPayload(t *testing.T) {
	rows := Rows(decode(t, `{"data":[{"src":"data"}],"payload":[{"src":"payload"},{"src":"payload"}]}`))
	require.Len(t, rows, 1)
	assert.Equal(t, "data", rows[0]["src"])
}

func TestExtractQuote(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"nse_quote", `{"nse_quote":{"lastPrice":1},"quote":{"lastPrice":2}}`},
		{"quote", `{"nse_quote":{},"quote":{"lastPrice":1}}`},
		{"data.nse_quote", `{"data":{"nse_quote":{"lastPrice":1},"quote":{"lastPrice":2}}}`},
		{"data.quote", `{"data":{"quote":{"lastPrice":1}}}`},
		{"data", `{"data":{"lastPrice":1}}`},
		{"payload", `{"lastPrice":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ExtractQuote(decode(t, tc.raw))
			require.NotNil(t, q)
			assert.Equal(t, json.Number("1"), decodeNumbers(t, q)["lastPrice"])
		})
	}
	assert.Nil(t, ExtractQuote(nil))
	assert.Nil(t, ExtractQuote(decode(t, `{}`)))
}

// decodeNumbers round-trips m so numbers compare as json.Number.
func decodeNumbers(t *testing.T, m map[string]any) map[string]any {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestQuoteValue_PathOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want any
	}{
		{"top level", `{"lastPrice":"top","priceInfo":{"lastPrice":"nested"}}`, "top"},
		{"priceInfo", `{"priceInfo":{"lastPrice":"price"},"securityInfo":{"lastPrice":"sec"}}`, "price"},
		{"securityInfo", `{"securityInfo":{"lastPrice":"sec"},"info":{"lastPrice":"info"}}`, "sec"},
		{"info", `{"info":{"lastPrice":"info"},"data":{"lastPrice":"data"}}`, "info"},
		{"data", `{"data":{"lastPrice":"data","priceInfo":{"lastPrice":"dp"}}}`, "data"},
		{"data.priceInfo", `{"data":{"priceInfo":{"lastPrice":"dp"}}}`, "dp"},
		{"null skipped", `{"lastPrice":null,"priceInfo":{"lastPrice":"price"}}`, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := decode(t, tc.raw).(map[string]any)
			got, ok := QuoteValue(q, "lastPrice")
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuoteValue_Absent(t *testing.T) {
	q := decode(t, `{"priceInfo":{"open":1},"data":{"close":2}}`).(map[string]any)
	v, ok := QuoteValue(q, "lastPrice")
	assert.False(t, ok)
	assert.Nil(t, v)

	_, ok = QuoteValue(nil, "lastPrice")
	assert.False(t, ok)
}

func TestQuotePath(t *testing.T) {
	q := decode(t, `{"priceInfo":{"weekHighLow":{"max":120.5,"min":80}}}`).(map[string]any)

	v, ok := QuotePath(q, "weekHighLow.max")
	require.True(t, ok)
	assert.Equal(t, "120.50", Fmt2(v))

	_, ok = QuotePath(q, "weekHighLow.avg")
	assert.False(t, ok)
	_, ok = QuotePath(q, "intraDayHighLow.max")
	assert.False(t, ok)
}

func TestAttachmentURL(t *testing.T) {
	assert.Equal(t, "a", AttachmentURL(map[string]any{"attchmntFile": "a", "url": "b"}))
	assert.Equal(t, "b", AttachmentURL(map[string]any{"attchmntFile": "", "url": "b", "pdf": "c"}))
	assert.Equal(t, "c", AttachmentURL(map[string]any{"link": nil, "attachment": 5, "pdf": "c"}))
	assert.Equal(t, "", AttachmentURL(map[string]any{"desc": "no link"}))
}

func TestFmt2(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"12.5", "12.50"},
		{"abc", "abc"},
		{nil, "-"},
		{"", "-"},
		{json.Number("1234.567"), "1234.57"},
		{float64(3), "3.00"},
		{42, "42.00"},
		{" 7.1 ", "7.10"},
		{true, "true"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fmt2(tc.in), "Fmt2(%#v)", tc.in)
	}
}

func TestText(t *testing.T) {
	row := map[string]any{"desc": "  ", "title": "<b>Board</b>   meeting &amp; outcome", "subject": "ignored"}
	assert.Equal(t, "Board meeting & outcome", Text(row, "desc", "title", "subject"))
	assert.Equal(t, "-", Text(row, "missing"))
	assert.Equal(t, "12", Text(map[string]any{"n": json.Number("12")}, "n"))
}

func TestHistoricalRows_NewestFirst(t *testing.T) {
	v := decode(t, `{"rows":[
		{"date":"2026-01-01","close":1},
		{"price_date":"2026-01-03","close":3},
		{"date":"bad","close":0},
		{"date":"2026-01-02","close":2}
	]}`)

	rows := HistoricalRows(v)
	require.Len(t, rows, 4)
	assert.Equal(t, "2026-01-03", rows[0]["price_date"])
	assert.Equal(t, "2026-01-02", rows[1]["date"])
	assert.Equal(t, "2026-01-01", rows[2]["date"])
	assert.Equal(t, "bad", rows[3]["date"])
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2026-01-15", "15-Jan-2026", "2026-01-15T10:00:00", "15-Jan-2026 18:30:00", "Jan 2026"} {
		_, ok := ParseDate(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseDate("soon")
	assert.False(t, ok)
}

func TestHistoricalRows_DataFallback(t *testing.T) {
	rows := HistoricalRows(decode(t, `{"data":[{"DATE":"2026-01-01"},{"DATE":"2026-02-01"}]}`))
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-02-01", rows[0]["DATE"])
}
