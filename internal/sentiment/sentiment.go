// Package sentiment blends volatility and momentum into a 0-100 fear/greed score.
package sentiment

// Band is a labelled, colored segment of the 0-100 scale.
type Band struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Color string  `json:"color"`
}

// Bands lists the five bands in ascending order. Each is [Min, Max) except
// the last, which includes 100.
var Bands = []Band{
	{Label: "Extreme Fear", Min: 0, Max: 25, Color: "#d7191c"},
	{Label: "Fear", Min: 25, Max: 45, Color: "#fdae61"},
	{Label: "Neutral", Min: 45, Max: 55, Color: "#ffffbf"},
	{Label: "Greed", Min: 55, Max: 75, Color: "#a6d96a"},
	{Label: "Extreme Greed", Min: 75, Max: 100, Color: "#1a9641"},
}

// Reading is the evaluated sentiment.
type Reading struct {
	Factors    []FactorScore `json:"factors"`
	Score      float64       `json:"score"`
	Band       Band          `json:"band"`
	WarningMsg string        `json:"warning,omitempty"`
}

// BandFor maps a score to its band.
func BandFor(score float64) Band {
	for _, b := range Bands[:len(Bands)-1] {
		if score < b.Max {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// Score combines the VIX and index RSI factors into a Reading.
func Score(vix, rsi float64) *Reading {
	f1 := scoreVIX(vix)
	f2 := scoreRSI(rsi)

	total := f1.Weighted + f2.Weighted
	r := &Reading{
		Factors: []FactorScore{f1, f2},
		Score:   total,
		Band:    BandFor(total),
	}

	switch {
	case usable(vix) && vix >= VIXPanic:
		r.WarningMsg = "VIX at panic levels"
	case usable(rsi) && rsi > 85:
		r.WarningMsg = "RSI > 85, index overbought"
	}
	return r
}
