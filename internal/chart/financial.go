package chart

import (
	"strings"

	"github.com/bobmcallan/iposhala-portal/internal/normalize"
)

// Financial metrics.
const (
	MetricRevenue = "revenue"
	MetricProfit  = "profit"
)

var metricColumns = map[string][]string{
	MetricRevenue: {"Income from Operations", "Total Income", "Revenue"},
	MetricProfit:  {"Net Profit", "Profit for the period", "Profit/(Loss)"},
}

// Metric returns m when it is a known metric, else revenue.
func Metric(m string) string {
	if _, ok := metricColumns[m]; ok {
		return m
	}
	return MetricRevenue
}

// FinancialSeries builds revenue or profit bars from financial result
// periods. Each period carries periodEnding and a data list of
// {columnName, amount} line items; the first line item whose columnName
// contains one of the metric's keywords supplies the value. Periods with an
// unparseable periodEnding are dropped.
func FinancialSeries(results []map[string]any, metric string) Series {
	metric = Metric(metric)
	keywords := metricColumns[metric]

	points := make([]Point, 0, len(results))
	for _, period := range results {
		s, _ := period["periodEnding"].(string)
		tm, ok := normalize.ParseDate(s)
		if !ok {
			continue
		}
		points = append(points, Point{
			Time:  StringTime(tm.Format("2006-01-02")),
			Value: lineItem(period["data"], keywords),
		})
	}

	series := Prepare(points)
	series.Kind = "histogram"
	if metric == MetricProfit {
		series.Color = "#4caf50"
	}
	return series
}

func lineItem(v any, keywords []string) float64 {
	items, _ := v.([]any)
	for _, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name, _ := item["columnName"].(string)
		name = strings.ToLower(name)
		if name == "" {
			continue
		}
		for _, k := range keywords {
			if strings.Contains(name, strings.ToLower(k)) {
				n, _ := normalize.Number(item["amount"])
				return n
			}
		}
	}
	return 0
}
