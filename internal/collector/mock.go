package collector

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/frame"
	"MarketLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars        map[string][]model.OHLCV
	Quotes      map[string]*model.Fundamentals
	Layout      frame.Layout // layout returned by Download; LayoutUnknown means provider default
	FailQuotes  map[string]bool
	FailHistory bool
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailQuotes[symbol] {
		return nil, fmt.Errorf("mock: quote %s failed", symbol)
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("mock: no quote for %s", symbol)
}

func (m *MockFetcher) Download(ctx context.Context, symbols []string, _ string) (*frame.Table, error) {
	if err := ctx.Err(); err != nil {
		return &frame.Table{}, err
	}
	if m.FailHistory {
		return &frame.Table{}, fmt.Errorf("mock: download failed")
	}
	series := make(map[string][]model.OHLCV)
	for _, s := range symbols {
		if bars, ok := m.Bars[s]; ok && len(bars) > 0 {
			series[s] = bars
		}
	}
	if len(series) == 0 {
		return &frame.Table{}, fmt.Errorf("mock: no data for %v", symbols)
	}
	switch m.Layout {
	case frame.LayoutFlat:
		if len(series) == 1 {
			for _, bars := range series {
				return frame.FromBars(bars), nil
			}
		}
		return frame.Nest(series, true), nil
	case frame.LayoutFieldMajor:
		return frame.Nest(series, false), nil
	case frame.LayoutSymbolMajor:
		return frame.Nest(series, true), nil
	default:
		return frame.Nest(series, len(series) > 1), nil
	}
}

// GenerateMockBars builds count daily bars drifting by drift per bar from basePrice.
func GenerateMockBars(basePrice, drift float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i)*drift)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// NewDemoFetcher builds a MockFetcher with a year of generated bars for every
// symbol. Earlier symbols get larger caps; drifts alternate so every map has
// gainers and losers.
func NewDemoFetcher(symbols []model.Symbol, extra ...string) *MockFetcher {
	m := &MockFetcher{
		Bars:   make(map[string][]model.OHLCV, len(symbols)+len(extra)),
		Quotes: make(map[string]*model.Fundamentals, len(symbols)),
	}
	for i, s := range symbols {
		base := 40 + 15*float64(i%20)
		drift := float64(i%7-3) * 0.0006
		m.Bars[s.Ticker] = GenerateMockBars(base, drift, 260)
		m.Quotes[s.Ticker] = &model.Fundamentals{
			Symbol:    s.Ticker,
			Name:      s.Name,
			Currency:  "USD",
			Price:     base * (1 + 259*drift),
			MarketCap: float64(len(symbols)-i) * 1e11,
		}
	}
	for i, sym := range extra {
		m.Bars[sym] = GenerateMockBars(20+10*float64(i), 0.0003*float64(i%3), 260)
	}
	return m
}
