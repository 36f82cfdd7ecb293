// Package aggregator turns a universe's price history into one metric row
// per symbol.
package aggregator

import (
	"sort"

	"MarketLens/internal/calculator"
	"MarketLens/internal/frame"
	"MarketLens/internal/model"
)

// MinObservations is the fewest closes a symbol needs to get a row.
const MinObservations = 2

// Build joins metadata, history and caps. Symbols without history, with
// fewer than MinObservations closes, or with a non-positive cap are dropped.
// Rows are ordered by market cap, largest first.
func Build(symbols []model.Symbol, history *frame.Table, caps map[string]float64) []model.MetricRow {
	if history.Empty() {
		return nil
	}

	rows := make([]model.MetricRow, 0, len(symbols))
	for _, s := range symbols {
		capValue := caps[s.Ticker]
		if capValue <= 0 {
			continue
		}
		closes := history.Closes(s.Ticker)
		if len(closes) < MinObservations {
			continue
		}
		rows = append(rows, Row(s, closes, capValue))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MarketCap > rows[j].MarketCap })
	return rows
}

// Row computes the change columns for one symbol's close series.
func Row(s model.Symbol, closes []float64, capValue float64) model.MetricRow {
	name := s.Name
	if name == "" {
		name = s.Ticker
	}
	return model.MetricRow{
		Ticker:    s.Ticker,
		Name:      name,
		Sector:    s.Sector,
		Industry:  s.Industry,
		Close:     closes[len(closes)-1],
		Change1D:  calculator.PctChange(closes, calculator.LagDay),
		Change1W:  calculator.PctChange(closes, calculator.LagWeek),
		Change1M:  calculator.PctChange(closes, calculator.LagMonth),
		ChangeYTD: calculator.ChangeSinceStart(closes),
		MarketCap: capValue,
	}
}

// TotalCap sums the market cap of rows.
func TotalCap(rows []model.MetricRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.MarketCap
	}
	return total
}
