package render

import (
	"MarketLens/internal/sentiment"
)

// Gauge draws the sentiment score on a 0-100 dial split into the five bands.
func Gauge(r *sentiment.Reading) *Figure {
	steps := make([]Layout, 0, len(sentiment.Bands))
	for _, b := range sentiment.Bands {
		steps = append(steps, Layout{"range": []float64{b.Min, b.Max}, "color": b.Color})
	}
	trace := Trace{
		"type":  "indicator",
		"mode":  "gauge+number",
		"value": Nullable(r.Score),
		"title": Layout{"text": r.Band.Label},
		"number": Layout{"valueformat": ".1f"},
		"gauge": Layout{
			"axis":  Layout{"range": []float64{0, 100}},
			"bar":   Layout{"color": "#333333", "thickness": 0.25},
			"steps": steps,
		},
	}
	layout := baseLayout("Market Sentiment")
	layout["height"] = 350
	return &Figure{Data: []Trace{trace}, Layout: layout}
}
