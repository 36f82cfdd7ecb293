// Package frame models the tabular price data returned by market-data
// providers, whose column layout is not stable across calls.
package frame

import (
	"math"
	"sort"
	"time"

	"MarketLens/internal/model"
)

// Canonical price field names.
const (
	FieldOpen     = "Open"
	FieldHigh     = "High"
	FieldLow      = "Low"
	FieldClose    = "Close"
	FieldAdjClose = "Adj Close"
	FieldVolume   = "Volume"
)

var knownFields = map[string]bool{
	FieldOpen: true, FieldHigh: true, FieldLow: true,
	FieldClose: true, FieldAdjClose: true, FieldVolume: true,
}

// Column identifies a column. Inner is empty for single-level tables.
type Column struct {
	Outer string
	Inner string
}

// Table is a column-major table indexed by date. Missing cells are NaN.
type Table struct {
	Index   []time.Time
	Columns []Column
	Data    [][]float64
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return t == nil || len(t.Index) == 0 || len(t.Columns) == 0
}

// Col returns the column matching outer/inner, or nil.
func (t *Table) Col(outer, inner string) []float64 {
	if t == nil {
		return nil
	}
	for i, c := range t.Columns {
		if c.Outer == outer && c.Inner == inner {
			return t.Data[i]
		}
	}
	return nil
}

// Symbols lists the symbols present in a nested table, in column order.
func (t *Table) Symbols() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	switch t.Layout() {
	case LayoutSymbolMajor:
		for _, c := range t.Columns {
			add(c.Outer)
		}
	case LayoutFieldMajor:
		for _, c := range t.Columns {
			add(c.Inner)
		}
	}
	return out
}

// Closes extracts symbol's close series with missing observations dropped.
// It returns nil when the symbol or a price field cannot be found.
func (t *Table) Closes(symbol string) []float64 {
	flat, err := Normalize(t, symbol)
	if err != nil {
		return nil
	}
	col := flat.Col(FieldClose, "")
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Bars converts a flat table into bars, skipping rows without a close.
func (t *Table) Bars() []model.OHLCV {
	if t.Empty() {
		return nil
	}
	closes := t.Col(FieldClose, "")
	if closes == nil {
		return nil
	}
	get := func(field string, i int) float64 {
		col := t.Col(field, "")
		if col == nil || math.IsNaN(col[i]) {
			return closes[i]
		}
		return col[i]
	}
	bars := make([]model.OHLCV, 0, len(t.Index))
	for i, ts := range t.Index {
		if math.IsNaN(closes[i]) {
			continue
		}
		vol := 0.0
		if v := t.Col(FieldVolume, ""); v != nil && !math.IsNaN(v[i]) {
			vol = v[i]
		}
		bars = append(bars, model.OHLCV{
			Time:   ts,
			Open:   get(FieldOpen, i),
			High:   get(FieldHigh, i),
			Low:    get(FieldLow, i),
			Close:  closes[i],
			Volume: vol,
		})
	}
	return bars
}

// FromBars builds a flat table from one symbol's bars.
func FromBars(bars []model.OHLCV) *Table {
	t := &Table{Index: make([]time.Time, len(bars))}
	cols := map[string][]float64{}
	fields := []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}
	for _, f := range fields {
		cols[f] = make([]float64, len(bars))
	}
	for i, b := range bars {
		t.Index[i] = b.Time
		cols[FieldOpen][i] = b.Open
		cols[FieldHigh][i] = b.High
		cols[FieldLow][i] = b.Low
		cols[FieldClose][i] = b.Close
		cols[FieldVolume][i] = b.Volume
	}
	for _, f := range fields {
		t.Columns = append(t.Columns, Column{Outer: f})
		t.Data = append(t.Data, cols[f])
	}
	return t
}

// Nest joins several symbols' bars on the union of their dates. When
// symbolMajor is true columns are (symbol, field); otherwise (field, symbol).
func Nest(series map[string][]model.OHLCV, symbolMajor bool) *Table {
	dates := map[int64]time.Time{}
	symbols := make([]string, 0, len(series))
	for sym, bars := range series {
		symbols = append(symbols, sym)
		for _, b := range bars {
			dates[dayKey(b.Time)] = b.Time
		}
	}
	sort.Strings(symbols)

	t := &Table{}
	for _, d := range dates {
		t.Index = append(t.Index, d)
	}
	sort.Slice(t.Index, func(i, j int) bool { return t.Index[i].Before(t.Index[j]) })
	row := make(map[int64]int, len(t.Index))
	for i, d := range t.Index {
		row[dayKey(d)] = i
	}

	fields := []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}
	addCol := func(sym, field string, pick func(model.OHLCV) float64) {
		data := nanColumn(len(t.Index))
		for _, b := range series[sym] {
			data[row[dayKey(b.Time)]] = pick(b)
		}
		c := Column{Outer: field, Inner: sym}
		if symbolMajor {
			c = Column{Outer: sym, Inner: field}
		}
		t.Columns = append(t.Columns, c)
		t.Data = append(t.Data, data)
	}

	pickers := map[string]func(model.OHLCV) float64{
		FieldOpen:   func(b model.OHLCV) float64 { return b.Open },
		FieldHigh:   func(b model.OHLCV) float64 { return b.High },
		FieldLow:    func(b model.OHLCV) float64 { return b.Low },
		FieldClose:  func(b model.OHLCV) float64 { return b.Close },
		FieldVolume: func(b model.OHLCV) float64 { return b.Volume },
	}
	if symbolMajor {
		for _, sym := range symbols {
			for _, f := range fields {
				addCol(sym, f, pickers[f])
			}
		}
	} else {
		for _, f := range fields {
			for _, sym := range symbols {
				addCol(sym, f, pickers[f])
			}
		}
	}
	return t
}

func dayKey(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

func nanColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
