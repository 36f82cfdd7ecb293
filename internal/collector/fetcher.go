package collector

import (
	"context"

	"MarketLens/internal/frame"
	"MarketLens/internal/model"
)

// Fetcher defines the interface for fetching market data from a provider.
type Fetcher interface {
	// FetchQuote returns the quote snapshot (market cap, valuation) for one symbol.
	FetchQuote(ctx context.Context, symbol string) (*model.Fundamentals, error)
	// Download returns daily OHLCV history for the symbols over period
	// ("1mo", "6mo", "1y", ...). The column layout of the returned table is
	// provider-dependent; symbols that fail individually are left out.
	Download(ctx context.Context, symbols []string, period string) (*frame.Table, error)
	Name() string
}

// Periods accepted by Download.
var Periods = []string{"1mo", "3mo", "6mo", "1y", "2y", "5y", "ytd", "max"}

// ValidPeriod reports whether p is one of Periods.
func ValidPeriod(p string) bool {
	for _, v := range Periods {
		if v == p {
			return true
		}
	}
	return false
}
