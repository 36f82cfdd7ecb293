package render

import (
	"MarketLens/internal/model"
)

// Panel heights, top to bottom: price, volume, RSI, MACD.
var panelDomains = [4][2]float64{
	{0.50, 1.00},
	{0.35, 0.49},
	{0.20, 0.34},
	{0.00, 0.19},
}

const (
	upColor   = "#26a69a"
	downColor = "#ef5350"
)

// RSI reference levels drawn on the RSI panel.
const (
	Overbought = 70.0
	Oversold   = 30.0
)

// Technical draws four stacked panels sharing one date axis.
func Technical(f *model.IndicatorFrame) *Figure {
	n := len(f.Bars)
	x := make([]string, n)
	open := make(Series, n)
	high := make(Series, n)
	low := make(Series, n)
	closes := make(Series, n)
	volume := make(Series, n)
	volColors := make([]string, n)
	for i, b := range f.Bars {
		x[i] = b.Time.Format(dateLayout)
		open[i], high[i], low[i], closes[i], volume[i] = b.Open, b.High, b.Low, b.Close, b.Volume
		volColors[i] = downColor
		if b.Close >= b.Open {
			volColors[i] = upColor
		}
	}
	histColors := make([]string, len(f.Hist))
	for i, h := range f.Hist {
		histColors[i] = downColor
		if h >= 0 {
			histColors[i] = upColor
		}
	}

	line := func(name string, y []float64, axis, color string) Trace {
		return Trace{
			"type": "scatter", "mode": "lines", "name": name,
			"x": x, "y": Series(y), "yaxis": axis,
			"line": Layout{"color": color, "width": 1.2},
		}
	}

	bbUpper := line("BB Upper", f.BBUpper, "y", "rgba(120,120,200,0.6)")
	bbUpper["showlegend"] = false
	bbLower := line("Bollinger", f.BBLower, "y", "rgba(120,120,200,0.6)")
	bbLower["fill"] = "tonexty"
	bbLower["fillcolor"] = "rgba(120,120,200,0.12)"

	data := []Trace{
		{
			"type": "candlestick", "name": f.Symbol,
			"x": x, "open": open, "high": high, "low": low, "close": closes,
			"yaxis": "y",
		},
		bbUpper,
		bbLower,
		line("MA20", f.MA20, "y", "#ff9800"),
		line("MA50", f.MA50, "y", "#2196f3"),
		line("MA200", f.MA200, "y", "#9c27b0"),
		{
			"type": "bar", "name": "Volume", "x": x, "y": volume, "yaxis": "y2",
			"marker": Layout{"color": volColors}, "showlegend": false,
		},
		line("RSI(14)", f.RSI, "y3", "#607d8b"),
		{
			"type": "bar", "name": "Histogram", "x": x, "y": Series(f.Hist), "yaxis": "y4",
			"marker": Layout{"color": histColors},
		},
		line("MACD", f.MACD, "y4", "#2196f3"),
		line("Signal", f.Signal, "y4", "#ff9800"),
	}

	refLine := func(level float64, color string) Layout {
		return Layout{
			"type": "line", "xref": "paper", "x0": 0, "x1": 1,
			"yref": "y3", "y0": level, "y1": level,
			"line": Layout{"color": color, "width": 1, "dash": "dash"},
		}
	}

	layout := baseLayout(f.Symbol + " Technical Analysis")
	layout["height"] = 900
	layout["showlegend"] = true
	layout["xaxis"] = Layout{"anchor": "y4", "rangeslider": Layout{"visible": false}}
	layout["yaxis"] = Layout{"domain": panelDomains[0], "title": Layout{"text": "Price"}}
	layout["yaxis2"] = Layout{"domain": panelDomains[1], "title": Layout{"text": "Volume"}}
	layout["yaxis3"] = Layout{"domain": panelDomains[2], "range": []float64{0, 100}, "title": Layout{"text": "RSI"}}
	layout["yaxis4"] = Layout{"domain": panelDomains[3], "title": Layout{"text": "MACD"}}
	layout["shapes"] = []Layout{refLine(Overbought, downColor), refLine(Oversold, upColor)}
	return &Figure{Data: data, Layout: layout}
}
