package render

import (
	"math"
	"time"
)

// Line is one named time series.
type Line struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

// Rebase scales values so the first finite observation equals 100.
func Rebase(values []float64) []float64 {
	out := make([]float64, len(values))
	base := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0 {
			base = v
			break
		}
	}
	for i, v := range values {
		out[i] = v / base * 100
	}
	return out
}

// Lines draws series on one axis; rebase puts them all on a start=100 scale
// for performance comparison.
func Lines(title string, series []Line, rebase bool) *Figure {
	data := make([]Trace, 0, len(series))
	for _, s := range series {
		y := s.Values
		if rebase {
			y = Rebase(y)
		}
		data = append(data, Trace{
			"type": "scatter", "mode": "lines", "name": s.Name,
			"x": dates(s.Dates), "y": Series(y),
		})
	}
	layout := baseLayout(title)
	layout["height"] = 450
	layout["hovermode"] = "x unified"
	if rebase {
		layout["yaxis"] = Layout{"title": Layout{"text": "Start = 100"}}
	}
	return &Figure{Data: data, Layout: layout}
}
