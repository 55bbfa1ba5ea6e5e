package shareholding

import (
	"fmt"
	"math"
	"strconv"
)

// Donut geometry, in SVG user units.
const (
	Size   = 200
	Radius = 80
	Stroke = 30
)

// Slice is one arc of the donut.
type Slice struct {
	Category
	Fraction float64
	Path     string
}

// Chart is a laid out donut for one period.
type Chart struct {
	Size   int
	Radius int
	Stroke int
	Total  float64
	Mock   bool
	Label  string
	Slices []Slice
}

// TotalText renders the centre label, e.g. "100.0%".
func (c Chart) TotalText() string {
	return strconv.FormatFloat(c.Total, 'f', 1, 64) + "%"
}

// Donut lays out p as arcs starting at 12 o'clock and running clockwise.
// The large-arc flag is set for slices above half the total.
func Donut(p Period) Chart {
	chart := Chart{Size: Size, Radius: Radius, Stroke: Stroke, Mock: p.Mock, Label: p.Label, Total: p.Total()}
	if chart.Total <= 0 {
		return chart
	}

	center := float64(Size) / 2
	r := float64(Radius)
	point := func(pct float64) (float64, float64) {
		angle := 2 * math.Pi * (pct - 0.25)
		return center + math.Cos(angle)*r, center + math.Sin(angle)*r
	}

	var current float64
	for _, c := range p.Categories {
		frac := c.Value / chart.Total
		start := current
		end := current + frac
		current = end

		var path string
		if frac >= 0.9999 {
			// A single arc cannot close on itself; draw two halves.
			tx, ty := point(0)
			bx, by := point(0.5)
			path = fmt.Sprintf("M %s %s A %d %d 0 1 1 %s %s A %d %d 0 1 1 %s %s",
				f(tx), f(ty), Radius, Radius, f(bx), f(by), Radius, Radius, f(tx), f(ty))
		} else {
			large := 0
			if frac > 0.5 {
				large = 1
			}
			sx, sy := point(start)
			ex, ey := point(end)
			path = fmt.Sprintf("M %s %s A %d %d 0 %d 1 %s %s",
				f(sx), f(sy), Radius, Radius, large, f(ex), f(ey))
		}
		chart.Slices = append(chart.Slices, Slice{Category: c, Fraction: frac, Path: path})
	}
	return chart
}

func f(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if s == "-0.000" {
		return "0.000"
	}
	return s
}
