package dashboard

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/aggregator"
	"MarketLens/internal/cache"
	"MarketLens/internal/collector"
	"MarketLens/internal/frame"
	"MarketLens/internal/model"
	"MarketLens/internal/render"
	"MarketLens/internal/universe"
)

var metricTitles = map[model.Metric]string{
	model.Metric1D:  "1 Day",
	model.Metric1W:  "1 Week",
	model.Metric1M:  "1 Month",
	model.MetricYTD: "1 Year",
}

// TreemapPanel is one metric's market map.
type TreemapPanel struct {
	Metric model.Metric   `json:"metric"`
	Title  string         `json:"title"`
	Figure *render.Figure `json:"figure"`
}

// TreemapView holds the four market maps of a universe.
type TreemapView struct {
	Universe      string         `json:"universe"`
	Title         string         `json:"title"`
	Count         int            `json:"count"`
	TotalCapLabel string         `json:"total_cap"`
	Panels        []TreemapPanel `json:"panels"`
	LastRefresh   time.Time      `json:"last_refresh"`
}

// Symbols returns a universe's constituents. A provider's fallback list is
// served when its download fails but is never cached, so the next call
// retries the download.
func (s *Service) Symbols(ctx context.Context, name string) ([]model.Symbol, error) {
	p, ok := s.universes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUniverse, name)
	}
	ctx = detached(ctx)

	f, ok := p.(universe.Fetcher)
	if !ok {
		return cache.Load(s.cache, "constituents", s.cfg.ConstituentsTTL, func() ([]model.Symbol, error) {
			return p.Symbols(ctx), nil
		}, name)
	}
	syms, err := cache.Load(s.cache, "constituents", s.cfg.ConstituentsTTL, func() ([]model.Symbol, error) {
		return f.Fetch(ctx)
	}, name)
	if err != nil {
		fallback := f.Fallback()
		s.log.Warnf("%s constituents failed: %v, using %d fallback symbols", name, err, len(fallback))
		return fallback, nil
	}
	return syms, nil
}

// Aggregate returns the metric rows of a universe, largest cap first. An
// empty result is ErrNoData.
func (s *Service) Aggregate(ctx context.Context, universe string) ([]model.MetricRow, error) {
	symbols, err := s.Symbols(ctx, universe)
	if err != nil {
		return nil, err
	}
	period := s.cfg.HistoryPeriod
	ctx = detached(ctx)

	return cache.Load(s.cache, "aggregate", s.cfg.PricesTTL, func() ([]model.MetricRow, error) {
		if len(symbols) == 0 {
			return nil, fmt.Errorf("%s constituents: %w", universe, ErrNoData)
		}
		tickers := make([]string, len(symbols))
		for i, sym := range symbols {
			tickers[i] = sym.Ticker
		}

		caps, err := cache.Load(s.cache, "caps", s.cfg.CapsTTL, func() (map[string]float64, error) {
			caps := s.collector.GetCaps(ctx, tickers)
			for _, v := range caps {
				if v > 0 {
					return caps, nil
				}
			}
			return nil, fmt.Errorf("no market caps for %d symbols: %w", len(tickers), collector.ErrUnavailable)
		}, universe)
		if err != nil {
			s.log.Warnf("%s market caps unavailable: %v", universe, err)
			return nil, fmt.Errorf("%s market caps: %w", universe, ErrNoData)
		}

		history, err := cache.Load(s.cache, "history", s.cfg.PricesTTL, func() (*frame.Table, error) {
			return s.collector.GetPriceHistory(ctx, tickers, period)
		}, universe, period)
		if err != nil {
			s.log.Warnf("%s price history unavailable: %v", universe, err)
			return nil, fmt.Errorf("%s price history: %w", universe, ErrNoData)
		}

		rows := aggregator.Build(symbols, history, caps)
		if len(rows) == 0 {
			return nil, fmt.Errorf("%s aggregate is empty: %w", universe, ErrNoData)
		}
		s.log.Infof("%s aggregate: %d of %d symbols", universe, len(rows), len(symbols))
		if err := s.recorder.RecordMetrics(s.currentRefreshID(), universe, rows); err != nil {
			s.log.Errorf("record metrics: %v", err)
		}
		return rows, nil
	}, universe, period)
}

// Treemaps renders the 1D, 1W, 1M and YTD market maps of a universe.
func (s *Service) Treemaps(ctx context.Context, universe string) (*TreemapView, error) {
	rows, err := s.Aggregate(ctx, universe)
	if err != nil {
		return nil, err
	}

	title := UniverseTitle(universe)
	view := &TreemapView{
		Universe:      universe,
		Title:         title,
		Count:         len(rows),
		TotalCapLabel: render.CapLabel(aggregator.TotalCap(rows)),
		LastRefresh:   s.Status().LastRefresh,
	}
	for _, m := range model.Metrics {
		panelTitle := fmt.Sprintf("%s (%s)", title, metricTitles[m])
		view.Panels = append(view.Panels, TreemapPanel{
			Metric: m,
			Title:  panelTitle,
			Figure: render.Treemap(rows, m, panelTitle),
		})
	}
	return view, nil
}
