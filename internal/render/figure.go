// Package render builds Plotly figures. Figures are plain data;
// the browser page hands them to Plotly.newPlot unchanged.
package render

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Trace is one Plotly trace.
type Trace map[string]any

// Layout is a Plotly layout object.
type Layout map[string]any

// Frame is one animation frame.
type Frame struct {
	Name   string  `json:"name"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout,omitempty"`
}

// Figure is a complete chart.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames,omitempty"`
}

// JSON encodes the figure.
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// Series is a float column whose NaN and Inf entries encode as null, which
// Plotly draws as gaps.
type Series []float64

func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
	}
	return append(buf, ']'), nil
}

// Nullable converts a single value the same way Series does.
func Nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

const dateLayout = "2006-01-02"

func dates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(dateLayout)
	}
	return out
}

// CapLabel formats a market cap such as 2.95e12 as "$2.95T".
func CapLabel(v float64) string {
	if v <= 0 || math.IsNaN(v) {
		return "n/a"
	}
	switch {
	case v >= 1e12:
		return "$" + humanize.FtoaWithDigits(v/1e12, 2) + "T"
	case v >= 1e9:
		return "$" + humanize.FtoaWithDigits(v/1e9, 2) + "B"
	case v >= 1e6:
		return "$" + humanize.FtoaWithDigits(v/1e6, 2) + "M"
	default:
		return "$" + humanize.Commaf(math.Round(v))
	}
}

func baseLayout(title string) Layout {
	return Layout{
		"title":  Layout{"text": title, "font": Layout{"family": "Arial Black", "size": 20}},
		"font":   Layout{"family": "Arial", "size": 14},
		"margin": Layout{"t": 50, "l": 10, "r": 10, "b": 10},
	}
}
