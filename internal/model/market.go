package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Symbol is one constituent of a market universe.
type Symbol struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// Fundamentals is the quote snapshot used for market caps and the single-symbol view.
type Fundamentals struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Currency      string  `json:"currency"`
	Price         float64 `json:"price"`
	MarketCap     float64 `json:"market_cap"`
	TrailingPE    float64 `json:"trailing_pe"`
	ForwardPE     float64 `json:"forward_pe"`
	DividendYield float64 `json:"dividend_yield"`
	High52w       float64 `json:"high_52w"`
	Low52w        float64 `json:"low_52w"`
}

// Closes extracts the close column from a bar series.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume column from a bar series.
func Volumes(bars []OHLCV) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
