package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"MarketLens/internal/frame"
	"MarketLens/internal/logging"
	"MarketLens/internal/model"
)

// ErrUnavailable marks a fetch whose result could not be obtained. Callers
// branch on it with errors.Is and treat the value as empty.
var ErrUnavailable = errors.New("market data unavailable")

// DefaultWorkers bounds concurrent per-symbol lookups.
const DefaultWorkers = 16

// Collector fans requests out to a Fetcher and absorbs per-symbol failures.
type Collector struct {
	Fetcher Fetcher
	Workers int
	log     *logrus.Entry
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, workers int) *Collector {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Collector{
		Fetcher: fetcher,
		Workers: workers,
		log:     logging.For("collector").WithField("source", fetcher.Name()),
	}
}

// GetCaps looks up each symbol's market capitalization across the worker
// pool. A failed lookup yields 0 for that symbol; the batch never aborts.
func (c *Collector) GetCaps(ctx context.Context, symbols []string) map[string]float64 {
	caps := make(map[string]float64, len(symbols))
	var (
		mu     sync.Mutex
		done   int32
		failed int32
	)

	g := new(errgroup.Group)
	g.SetLimit(c.Workers)
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			capValue := 0.0
			if q, err := c.Fetcher.FetchQuote(ctx, sym); err != nil {
				atomic.AddInt32(&failed, 1)
				c.log.Debugf("market cap %s failed: %v, using 0", sym, err)
			} else {
				capValue = q.MarketCap
			}
			mu.Lock()
			caps[sym] = capValue
			mu.Unlock()
			if n := atomic.AddInt32(&done, 1); n%50 == 0 {
				c.log.Debugf("market caps: %d/%d", n, len(symbols))
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 {
		c.log.Warnf("market caps: %d of %d lookups failed, using 0", failed, len(symbols))
	}
	return caps
}

// GetFundamentals fetches quote snapshots across the worker pool. Failed
// symbols are omitted from the result.
func (c *Collector) GetFundamentals(ctx context.Context, symbols []string) map[string]*model.Fundamentals {
	out := make(map[string]*model.Fundamentals, len(symbols))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(c.Workers)
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			q, err := c.Fetcher.FetchQuote(ctx, sym)
			if err != nil {
				c.log.Warnf("fundamentals %s failed: %v", sym, err)
				return nil
			}
			mu.Lock()
			out[sym] = q
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// GetPriceHistory downloads daily history for all symbols in one batch. On
// failure it returns an empty table and an error wrapping ErrUnavailable.
func (c *Collector) GetPriceHistory(ctx context.Context, symbols []string, period string) (*frame.Table, error) {
	if len(symbols) == 0 {
		return &frame.Table{}, fmt.Errorf("price history: no symbols: %w", ErrUnavailable)
	}
	t, err := c.Fetcher.Download(ctx, symbols, period)
	if err != nil {
		c.log.Errorf("price history download failed: %v", err)
		return &frame.Table{}, fmt.Errorf("price history: %w: %w", ErrUnavailable, err)
	}
	if t.Empty() {
		return &frame.Table{}, fmt.Errorf("price history: empty result: %w", ErrUnavailable)
	}
	return t, nil
}

// GetSingleSymbolSeries fetches one symbol's full OHLCV history and flattens
// whatever column layout the provider returned.
func (c *Collector) GetSingleSymbolSeries(ctx context.Context, symbol, period string) ([]model.OHLCV, error) {
	t, err := c.Fetcher.Download(ctx, []string{symbol}, period)
	if err != nil {
		c.log.Warnf("series %s download failed: %v", symbol, err)
		return nil, fmt.Errorf("series %s: %w: %w", symbol, ErrUnavailable, err)
	}
	flat, err := frame.Normalize(t, symbol)
	if err != nil {
		c.log.Warnf("series %s: %v (layout %s)", symbol, err, t.Layout())
		return nil, fmt.Errorf("series %s: %w: %w", symbol, ErrUnavailable, err)
	}
	bars := flat.Bars()
	if len(bars) == 0 {
		return nil, fmt.Errorf("series %s: no bars: %w", symbol, ErrUnavailable)
	}
	return bars, nil
}
