// Package universe supplies the index constituent lists the dashboard
// aggregates over.
package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketLens/internal/logging"
	"MarketLens/internal/model"
)

// DefaultSP500URL is the community-maintained constituents CSV.
const DefaultSP500URL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies/master/data/constituents.csv"

// Provider returns the symbols of one universe. Implementations never fail;
// they degrade to a built-in list instead.
type Provider interface {
	Name() string
	Symbols(ctx context.Context) []model.Symbol
}

// Fetcher is a Provider whose list comes from a download that can fail.
// Callers that cache the list use Fetch and fall back to Fallback themselves.
type Fetcher interface {
	Provider
	Fetch(ctx context.Context) ([]model.Symbol, error)
	Fallback() []model.Symbol
}

// SP500Provider downloads the S&P 500 constituents.
type SP500Provider struct {
	URL    string
	client *resty.Client
}

// NewSP500Provider creates a provider for the CSV at url (DefaultSP500URL when empty).
func NewSP500Provider(url string, timeout time.Duration) *SP500Provider {
	if url == "" {
		url = DefaultSP500URL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SP500Provider{
		URL:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

func (p *SP500Provider) Name() string { return "sp500" }

// Symbols returns the downloaded constituents, or the fallback list when the
// download or parse fails or yields nothing.
func (p *SP500Provider) Symbols(ctx context.Context) []model.Symbol {
	syms, err := p.Fetch(ctx)
	if err != nil {
		logging.For("universe").Warnf("sp500 constituents failed: %v, using %d fallback symbols", err, len(fallbackSP500))
		return Fallback()
	}
	return syms
}

// Fallback returns the built-in mega-cap list.
func (p *SP500Provider) Fallback() []model.Symbol { return Fallback() }

// Fetch downloads and parses the constituents CSV.
func (p *SP500Provider) Fetch(ctx context.Context) ([]model.Symbol, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.URL)
	if err != nil {
		return nil, fmt.Errorf("download constituents: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("download constituents: status %d", resp.StatusCode())
	}
	syms, err := ParseCSV(strings.NewReader(resp.String()))
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return nil, fmt.Errorf("constituents csv has no rows")
	}
	return syms, nil
}

// ParseCSV reads a constituents table. Symbol and GICS Sector are required;
// the name comes from Security or Name and the industry from GICS
// Sub-Industry, falling back to the sector. Dots in tickers become dashes.
func ParseCSV(r io.Reader) ([]model.Symbol, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	tickerIdx, ok := col["Symbol"]
	if !ok {
		return nil, fmt.Errorf("csv missing Symbol column")
	}
	sectorIdx, ok := col["GICS Sector"]
	if !ok {
		return nil, fmt.Errorf("csv missing GICS Sector column")
	}
	nameIdx, hasName := col["Security"]
	if !hasName {
		nameIdx, hasName = col["Name"]
	}
	industryIdx, hasIndustry := col["GICS Sub-Industry"]

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var out []model.Symbol
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		ticker := strings.ReplaceAll(field(rec, tickerIdx), ".", "-")
		if ticker == "" {
			continue
		}
		s := model.Symbol{
			Ticker: ticker,
			Name:   ticker,
			Sector: field(rec, sectorIdx),
		}
		if hasName {
			if n := field(rec, nameIdx); n != "" {
				s.Name = n
			}
		}
		s.Industry = s.Sector
		if hasIndustry {
			if ind := field(rec, industryIdx); ind != "" {
				s.Industry = ind
			}
		}
		out = append(out, s)
	}
	return out, nil
}

var fallbackSP500 = []model.Symbol{
	{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Information Technology", Industry: "Technology Hardware, Storage & Peripherals"},
	{Ticker: "MSFT", Name: "Microsoft", Sector: "Information Technology", Industry: "Systems Software"},
	{Ticker: "NVDA", Name: "Nvidia", Sector: "Information Technology", Industry: "Semiconductors"},
	{Ticker: "AVGO", Name: "Broadcom", Sector: "Information Technology", Industry: "Semiconductors"},
	{Ticker: "AMZN", Name: "Amazon", Sector: "Consumer Discretionary", Industry: "Broadline Retail"},
	{Ticker: "TSLA", Name: "Tesla, Inc.", Sector: "Consumer Discretionary", Industry: "Automobile Manufacturers"},
	{Ticker: "GOOGL", Name: "Alphabet Inc. (Class A)", Sector: "Communication Services", Industry: "Interactive Media & Services"},
	{Ticker: "META", Name: "Meta Platforms", Sector: "Communication Services", Industry: "Interactive Media & Services"},
	{Ticker: "BRK-B", Name: "Berkshire Hathaway", Sector: "Financials", Industry: "Multi-Sector Holdings"},
	{Ticker: "JPM", Name: "JPMorgan Chase", Sector: "Financials", Industry: "Diversified Banks"},
	{Ticker: "V", Name: "Visa Inc.", Sector: "Financials", Industry: "Transaction & Payment Processing Services"},
	{Ticker: "LLY", Name: "Eli Lilly and Company", Sector: "Health Care", Industry: "Pharmaceuticals"},
	{Ticker: "UNH", Name: "UnitedHealth Group", Sector: "Health Care", Industry: "Managed Health Care"},
	{Ticker: "XOM", Name: "ExxonMobil", Sector: "Energy", Industry: "Integrated Oil & Gas"},
}

// Fallback returns a copy of the built-in mega-cap list.
func Fallback() []model.Symbol {
	return append([]model.Symbol(nil), fallbackSP500...)
}

// StaticProvider serves a fixed list, used for offline runs.
type StaticProvider struct {
	Label string
	List  []model.Symbol
}

func (p StaticProvider) Name() string { return p.Label }

func (p StaticProvider) Symbols(context.Context) []model.Symbol {
	return append([]model.Symbol(nil), p.List...)
}
