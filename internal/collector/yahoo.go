package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"MarketLens/internal/frame"
	"MarketLens/internal/logging"
	"MarketLens/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooConfig tunes the Yahoo Finance client.
type YahooConfig struct {
	BaseURL           string
	Proxy             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Retries           int
	Workers           int
}

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client    *resty.Client
	Limiter   *rate.Limiter
	Retries   int
	Workers   int
	SymbolMap map[string]string // maps internal aliases to Yahoo tickers
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(cfg YahooConfig) *YahooFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = yahooBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Accept", "application/json")
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
	}

	return &YahooFetcher{
		Client:  client,
		Limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Workers),
		Retries: cfg.Retries,
		Workers: cfg.Workers,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"VIX":    "^VIX",
			"TNX":    "^TNX",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// yahooQuote is the response structure from the Yahoo Finance quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                      string  `json:"symbol"`
			ShortName                   string  `json:"shortName"`
			LongName                    string  `json:"longName"`
			Currency                    string  `json:"currency"`
			RegularMarketPrice          float64 `json:"regularMarketPrice"`
			MarketCap                   float64 `json:"marketCap"`
			TrailingPE                  float64 `json:"trailingPE"`
			ForwardPE                   float64 `json:"forwardPE"`
			TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield"`
			FiftyTwoWeekHigh            float64 `json:"fiftyTwoWeekHigh"`
			FiftyTwoWeekLow             float64 `json:"fiftyTwoWeekLow"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteResponse"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// get performs a rate-limited GET with exponential backoff. Client errors
// other than 429 are not retried.
func (f *YahooFetcher) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	op := func() error {
		if err := f.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.Client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(out).
			ForceContentType("application/json").
			Get(path)
		if err != nil {
			return fmt.Errorf("yahoo fetch: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			err := fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 200))
			if resp.StatusCode() >= 400 && resp.StatusCode() < 500 && resp.StatusCode() != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	var b backoff.BackOff = backoff.NewExponentialBackOff()
	b = backoff.WithMaxRetries(b, uint64(f.Retries))
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

// FetchChart returns daily bars for one symbol over period.
func (f *YahooFetcher) FetchChart(ctx context.Context, symbol, period string) ([]model.OHLCV, error) {
	var chart yahooChart
	path := "/v8/finance/chart/" + url.PathEscape(f.yahooSymbol(symbol))
	if err := f.get(ctx, path, map[string]string{"interval": "1d", "range": period}, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote block for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	at := func(col []interface{}, i int) float64 {
		if i < len(col) {
			return toFloat(col[i])
		}
		return 0
	}

	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// Download fetches every symbol's chart concurrently. A single symbol comes
// back field-major, several come back grouped by symbol.
func (f *YahooFetcher) Download(ctx context.Context, symbols []string, period string) (*frame.Table, error) {
	if len(symbols) == 0 {
		return &frame.Table{}, nil
	}
	log := logging.For("yahoo")

	var (
		mu      sync.Mutex
		series  = make(map[string][]model.OHLCV, len(symbols))
		lastErr error
	)
	g := new(errgroup.Group)
	g.SetLimit(f.Workers)
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			bars, err := f.FetchChart(ctx, sym, period)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Debugf("chart %s failed: %v", sym, err)
				lastErr = err
				return nil
			}
			if len(bars) > 0 {
				series[sym] = bars
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(series) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("yahoo: no data returned")
		}
		return &frame.Table{}, lastErr
	}
	if failed := len(symbols) - len(series); failed > 0 {
		log.Warnf("download %s: %d of %d symbols failed", period, failed, len(symbols))
	}
	return frame.Nest(series, len(symbols) > 1), nil
}

// FetchQuote returns the quote snapshot for one symbol.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	var quote yahooQuote
	if err := f.get(ctx, "/v7/finance/quote", map[string]string{"symbols": f.yahooSymbol(symbol)}, &quote); err != nil {
		return nil, err
	}
	if quote.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", quote.QuoteResponse.Error.Description)
	}
	if len(quote.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no quote for %s", symbol)
	}
	q := quote.QuoteResponse.Result[0]
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	return &model.Fundamentals{
		Symbol:        symbol,
		Name:          name,
		Currency:      q.Currency,
		Price:         q.RegularMarketPrice,
		MarketCap:     q.MarketCap,
		TrailingPE:    q.TrailingPE,
		ForwardPE:     q.ForwardPE,
		DividendYield: q.TrailingAnnualDividendYield,
		High52w:       q.FiftyTwoWeekHigh,
		Low52w:        q.FiftyTwoWeekLow,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
