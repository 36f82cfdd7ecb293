package sentiment

import (
	"fmt"
	"math"
)

// Factor weights. They sum to 1.
const (
	WeightVIX = 0.6
	WeightRSI = 0.4
)

// VIX levels mapped to the ends of the 0-100 scale.
const (
	VIXCalm  = 12.0
	VIXPanic = 40.0
)

// neutral is used for a factor whose input is unavailable.
const neutral = 50.0

// FactorScore is one weighted contribution to the sentiment total.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// scoreVIX maps VIXCalm to 100 and VIXPanic to 0, linearly and clamped.
func scoreVIX(vix float64) FactorScore {
	if !usable(vix) || vix <= 0 {
		return FactorScore{Name: "VIX", RawScore: neutral, Weight: WeightVIX, Weighted: neutral * WeightVIX, Commentary: "VIX unavailable"}
	}
	score := 100 * (VIXPanic - vix) / (VIXPanic - VIXCalm)
	score = math.Max(0, math.Min(100, score))

	return FactorScore{
		Name:       "VIX",
		RawScore:   score,
		Weight:     WeightVIX,
		Weighted:   score * WeightVIX,
		Commentary: fmt.Sprintf("VIX=%.1f", vix),
	}
}

// scoreRSI uses the index RSI(14) directly.
func scoreRSI(rsi float64) FactorScore {
	if !usable(rsi) {
		return FactorScore{Name: "RSI", RawScore: neutral, Weight: WeightRSI, Weighted: neutral * WeightRSI, Commentary: "RSI unavailable"}
	}
	score := math.Max(0, math.Min(100, rsi))
	return FactorScore{
		Name:       "RSI",
		RawScore:   score,
		Weight:     WeightRSI,
		Weighted:   score * WeightRSI,
		Commentary: fmt.Sprintf("RSI=%.0f", rsi),
	}
}
