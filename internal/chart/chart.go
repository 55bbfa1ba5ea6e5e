// Package chart prepares time series for the browser chart renderer.
//
// Series are sorted and converted to unix seconds here so the page script
// only has to hand them to the renderer.
package chart

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/iposhala-portal/internal/normalize"
)

// Series states.
const (
	StateLoading = "loading"
	StateEmpty   = "empty"
	StateReady   = "ready"
)

// msThreshold separates millisecond timestamps from second timestamps.
const msThreshold = 1e11

// TimeValue is a point time as received: a date string or a numeric timestamp.
type TimeValue struct {
	text  string
	num   float64
	isNum bool
}

// StringTime returns a TimeValue holding a date string.
func StringTime(s string) TimeValue { return TimeValue{text: s} }

// NumberTime returns a TimeValue holding a timestamp in seconds or milliseconds.
func NumberTime(n float64) TimeValue { return TimeValue{num: n, isNum: true} }

// String returns the time in its original form.
func (t TimeValue) String() string {
	if t.isNum {
		return strconv.FormatFloat(t.num, 'f', -1, 64)
	}
	return t.text
}

// Unix returns the time in unix seconds. Numbers above 1e11 are treated as
// milliseconds.
func (t TimeValue) Unix() (int64, bool) {
	if t.isNum {
		if t.num > msThreshold {
			return int64(t.num / 1000), true
		}
		return int64(t.num), true
	}
	if tm, ok := normalize.ParseDate(t.text); ok {
		return tm.Unix(), true
	}
	return 0, false
}

// UnmarshalJSON accepts a string or a number.
func (t *TimeValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = StringTime(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = NumberTime(n)
	return nil
}

// MarshalJSON writes the time back in its original form.
func (t TimeValue) MarshalJSON() ([]byte, error) {
	if t.isNum {
		return []byte(t.String()), nil
	}
	return json.Marshal(t.text)
}

// Point is one input sample.
type Point struct {
	Time  TimeValue `json:"time"`
	Value float64   `json:"value"`
}

// RenderPoint is a sample in the renderer's unit.
type RenderPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Series is what the page hands to the renderer.
type Series struct {
	State  string        `json:"state"`
	Kind   string        `json:"kind"`
	Color  string        `json:"color"`
	Points []RenderPoint `json:"points"`
}

// Sort returns a copy of points ordered by time ascending. Input order is
// not trusted. Points whose time does not parse go last.
func Sort(points []Point) []Point {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, okI := sorted[i].Time.Unix()
		tj, okJ := sorted[j].Time.Unix()
		if okI && okJ {
			return ti < tj
		}
		return okI && !okJ
	})
	return sorted
}

// Prepare sorts points and converts their times to unix seconds, dropping
// points whose time does not parse. A nil input has not resolved yet and
// yields the loading state.
func Prepare(points []Point) Series {
	s := Series{Kind: "area", Color: "#2196f3", Points: []RenderPoint{}}
	if points == nil {
		s.State = StateLoading
		return s
	}
	for _, p := range Sort(points) {
		ts, ok := p.Time.Unix()
		if !ok {
			continue
		}
		s.Points = append(s.Points, RenderPoint{Time: ts, Value: p.Value})
	}
	if len(s.Points) == 0 {
		s.State = StateEmpty
	} else {
		s.State = StateReady
	}
	return s
}

var closeKeys = []string{"close", "CLOSE", "close_price", "CH_CLOSING_PRICE", "ltp"}

// FromHistorical builds close price points from price history rows.
func FromHistorical(rows []map[string]any) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		var date string
		for _, key := range normalize.HistoricalDateKeys {
			if s, ok := row[key].(string); ok && strings.TrimSpace(s) != "" {
				date = s
				break
			}
		}
		if date == "" {
			continue
		}
		for _, key := range closeKeys {
			if v, ok := normalize.Number(row[key]); ok {
				points = append(points, Point{Time: StringTime(date), Value: v})
				break
			}
		}
	}
	return points
}
