package dashboard

import (
	"context"
	"errors"
	"fmt"

	"MarketLens/internal/cache"
	"MarketLens/internal/calculator"
	"MarketLens/internal/collector"
	"MarketLens/internal/model"
	"MarketLens/internal/render"
)

// Summary is the headline block of the technical view.
type Summary struct {
	Close       float64  `json:"close"`
	Change1D    float64  `json:"change_1d"`
	RSI         *float64 `json:"rsi"`
	High52w     float64  `json:"high_52w"`
	Low52w      float64  `json:"low_52w"`
	Position52w *float64 `json:"position_52w"`
}

// TechnicalView is the single-symbol chart with fundamentals.
type TechnicalView struct {
	Ticker       string              `json:"ticker"`
	Period       string              `json:"period"`
	Summary      Summary             `json:"summary"`
	Fundamentals *model.Fundamentals `json:"fundamentals,omitempty"`
	Figure       *render.Figure      `json:"figure"`
}

func finite(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// series returns one symbol's bars through the cache.
func (s *Service) series(ctx context.Context, ticker, period string) ([]model.OHLCV, error) {
	ctx = detached(ctx)
	return cache.Load(s.cache, "series", s.cfg.PricesTTL, func() ([]model.OHLCV, error) {
		return s.collector.GetSingleSymbolSeries(ctx, ticker, period)
	}, ticker, period)
}

// Technical builds the indicator chart for user-entered ticker input.
func (s *Service) Technical(ctx context.Context, input, period string) (*TechnicalView, error) {
	ticker := NormalizeTicker(input)
	if !validTicker(ticker) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, input)
	}
	if period == "" {
		period = s.cfg.HistoryPeriod
	}
	if !collector.ValidPeriod(period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	bars, err := s.series(ctx, ticker, period)
	if err != nil {
		if errors.Is(err, collector.ErrUnavailable) {
			return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
		}
		return nil, err
	}

	f := calculator.BuildFrame(ticker, bars)
	closes := model.Closes(bars)
	summary := Summary{
		Close:    closes[len(closes)-1],
		Change1D: calculator.PctChange(closes, calculator.LagDay),
		RSI:      finite(calculator.Last(f.RSI)),
	}
	if high, low, err := calculator.CalculateRange(bars, calculator.TradingDaysPerYear); err == nil {
		summary.High52w, summary.Low52w = high, low
		if pos, err := calculator.CalculateRangePosition(summary.Close, high, low); err == nil {
			summary.Position52w = &pos
		}
	}

	lctx := detached(ctx)
	fund, err := cache.Load(s.cache, "fundamentals", s.cfg.CapsTTL, func() (*model.Fundamentals, error) {
		f, ok := s.collector.GetFundamentals(lctx, []string{ticker})[ticker]
		if !ok || f == nil {
			return nil, fmt.Errorf("%s quote: %w", ticker, collector.ErrUnavailable)
		}
		return f, nil
	}, ticker)
	if err != nil {
		s.log.Debugf("fundamentals %s: %v", ticker, err)
	}

	return &TechnicalView{
		Ticker:       ticker,
		Period:       period,
		Summary:      summary,
		Fundamentals: fund,
		Figure:       render.Technical(f),
	}, nil
}
