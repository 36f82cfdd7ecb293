package model

import "time"

// MetricRow is the cross-sectional row for one symbol, recomputed every cache cycle.
type MetricRow struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	Close     float64 `json:"close"`
	Change1D  float64 `json:"change_1d"`
	Change1W  float64 `json:"change_1w"`
	Change1M  float64 `json:"change_1m"`
	ChangeYTD float64 `json:"change_ytd"`
	MarketCap float64 `json:"market_cap"`
}

// Metric selects one of the percent-change columns of a MetricRow.
type Metric string

const (
	Metric1D  Metric = "1D"
	Metric1W  Metric = "1W"
	Metric1M  Metric = "1M"
	MetricYTD Metric = "YTD"
)

// Metrics lists the change columns in display order.
var Metrics = []Metric{Metric1D, Metric1W, Metric1M, MetricYTD}

// Change returns the column selected by m.
func (r *MetricRow) Change(m Metric) float64 {
	switch m {
	case Metric1W:
		return r.Change1W
	case Metric1M:
		return r.Change1M
	case MetricYTD:
		return r.ChangeYTD
	default:
		return r.Change1D
	}
}

// IndicatorFrame is a bar series extended with computed indicator columns.
// Every column has len(Bars) entries; warm-up positions hold NaN.
type IndicatorFrame struct {
	Symbol   string
	Bars     []OHLCV
	MA20     []float64
	MA50     []float64
	MA200    []float64
	RSI      []float64
	MACD     []float64
	Signal   []float64
	Hist     []float64
	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64
}

// ManualInputs holds macro figures that have no programmatic source.
// They live in memory only and reset on restart.
type ManualInputs struct {
	M2GrowthPct    float64   `json:"m2_growth_pct"`
	MarginDebt     float64   `json:"margin_debt"`
	MarginDebtPrev float64   `json:"margin_debt_prev"`
	UpdatedAt      time.Time `json:"updated_at"`
}
