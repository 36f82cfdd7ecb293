package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketLens/internal/frame"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1704153600,1704240000,1704326400],
"indicators":{"quote":[{"open":[10,null,12],"high":[11,null,13],"low":[9,null,11],"close":[10.5,null,12.5],"volume":[100,null,300]}]}}],"error":null}}`

const quoteBody = `{"quoteResponse":{"result":[{"symbol":"AAPL","shortName":"Apple","longName":"Apple Inc.","currency":"USD",
"regularMarketPrice":190.5,"marketCap":2950000000000,"trailingPE":30.1,"fiftyTwoWeekHigh":199.6,"fiftyTwoWeekLow":164.1}],"error":null}}`

func newTestYahoo(url string) *YahooFetcher {
	return NewYahooFetcher(YahooConfig{
		BaseURL:           url,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Workers:           4,
	})
}

func TestYahooFetchChartSkipsNullBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("range") != "1y" || r.URL.Query().Get("interval") != "1d" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	bars, err := newTestYahoo(srv.URL).FetchChart(context.Background(), "AAPL", "1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	if bars[1].Close != 12.5 || bars[1].Volume != 300 {
		t.Errorf("unexpected last bar %+v", bars[1])
	}
}

func TestYahooSymbolAlias(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	if _, err := newTestYahoo(srv.URL).FetchChart(context.Background(), "vix", "1mo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := path.Load().(string); got != "/v8/finance/chart/^VIX" {
		t.Errorf("path = %q, want ^VIX", got)
	}
}

func TestYahooDownloadLayouts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/BAD") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()
	f := newTestYahoo(srv.URL)

	single, err := f.Download(context.Background(), []string{"AAPL"}, "1y")
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if single.Layout() != frame.LayoutFieldMajor {
		t.Errorf("single layout = %s", single.Layout())
	}

	multi, err := f.Download(context.Background(), []string{"AAPL", "MSFT", "BAD"}, "1y")
	if err != nil {
		t.Fatalf("multi: %v", err)
	}
	if multi.Layout() != frame.LayoutSymbolMajor {
		t.Errorf("multi layout = %s", multi.Layout())
	}
	if syms := multi.Symbols(); len(syms) != 2 {
		t.Errorf("symbols = %v, want AAPL and MSFT", syms)
	}

	if _, err := f.Download(context.Background(), []string{"BAD"}, "1y"); err == nil {
		t.Error("expected error when every symbol fails")
	}
}

func TestYahooFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbols") != "AAPL" {
			t.Errorf("symbols = %q", r.URL.Query().Get("symbols"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, quoteBody)
	}))
	defer srv.Close()

	q, err := newTestYahoo(srv.URL).FetchQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name != "Apple Inc." || q.MarketCap != 2.95e12 || q.High52w != 199.6 {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestYahooRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, quoteBody)
	}))
	defer srv.Close()

	f := newTestYahoo(srv.URL)
	f.Retries = 2
	if _, err := f.FetchQuote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestYahooClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestYahoo(srv.URL)
	f.Retries = 3
	if _, err := f.FetchQuote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
