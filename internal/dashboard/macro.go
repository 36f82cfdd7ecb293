package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"MarketLens/internal/cache"
	"MarketLens/internal/calculator"
	"MarketLens/internal/economic"
	"MarketLens/internal/frame"
	"MarketLens/internal/model"
	"MarketLens/internal/render"
	"MarketLens/internal/sentiment"
)

// Upstream symbols used by the macro, commodity and liquidity views.
const (
	SymbolVIX     = "^VIX"
	SymbolSP500   = "^GSPC"
	SymbolTenYear = "^TNX"
	SymbolHYG     = "HYG"
	SymbolIEF     = "IEF"
)

// Instrument is a named upstream symbol.
type Instrument struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Commodities are the futures proxies of the commodity view.
var Commodities = []Instrument{
	{"GC=F", "Gold"},
	{"SI=F", "Silver"},
	{"CL=F", "Crude Oil"},
	{"HG=F", "Copper"},
}

// MacroView is the risk overview.
type MacroView struct {
	VIX       *float64           `json:"vix"`
	RSI       *float64           `json:"rsi"`
	Sentiment *sentiment.Reading `json:"sentiment"`
	Gauge     *render.Figure     `json:"gauge"`
	OBV       *render.Figure     `json:"obv,omitempty"`
	Messages  []string           `json:"messages,omitempty"`
}

// Macro scores market sentiment from the VIX and the S&P 500 RSI and charts
// the index on-balance volume.
func (s *Service) Macro(ctx context.Context) (*MacroView, error) {
	view := &MacroView{}

	vixBars, vixErr := s.series(ctx, SymbolVIX, "6mo")
	if vixErr != nil {
		view.Messages = append(view.Messages, "VIX unavailable")
	} else {
		view.VIX = finite(calculator.Last(model.Closes(vixBars)))
	}

	spxBars, spxErr := s.series(ctx, SymbolSP500, "1y")
	if spxErr != nil {
		view.Messages = append(view.Messages, "S&P 500 history unavailable")
	} else {
		closes := model.Closes(spxBars)
		view.RSI = finite(calculator.Last(calculator.RSI(closes, calculator.RSIPeriod)))
		view.OBV = render.Lines("S&P 500 On-Balance Volume", []render.Line{{
			Name:   "OBV",
			Dates:  barDates(spxBars),
			Values: calculator.OBV(closes, model.Volumes(spxBars)),
		}}, false)
	}

	if vixErr != nil && spxErr != nil {
		return nil, fmt.Errorf("macro: %w", ErrNoData)
	}

	vix, rsi := nanIfNil(view.VIX), nanIfNil(view.RSI)
	view.Sentiment = sentiment.Score(vix, rsi)
	view.Gauge = render.Gauge(view.Sentiment)
	return view, nil
}

// CommodityQuote is the latest reading of one commodity.
type CommodityQuote struct {
	Instrument
	Close    float64 `json:"close"`
	Change1M float64 `json:"change_1m"`
	ChangeYr float64 `json:"change_period"`
}

// CommodityView compares commodity performance.
type CommodityView struct {
	Quotes      []CommodityQuote `json:"quotes"`
	Performance *render.Figure   `json:"performance"`
	CopperGold  *render.Figure   `json:"copper_gold,omitempty"`
	Messages    []string         `json:"messages,omitempty"`
}

// Commodity charts rebased commodity performance and the copper/gold ratio.
func (s *Service) Commodity(ctx context.Context) (*CommodityView, error) {
	tickers := make([]string, len(Commodities))
	for i, c := range Commodities {
		tickers[i] = c.Ticker
	}
	series, err := s.batch(ctx, "commodity", tickers)
	if err != nil {
		return nil, fmt.Errorf("commodity: %w", ErrNoData)
	}

	view := &CommodityView{}
	var lines []render.Line
	for _, c := range Commodities {
		bars, ok := series[c.Ticker]
		if !ok {
			view.Messages = append(view.Messages, c.Name+" unavailable")
			continue
		}
		closes := model.Closes(bars)
		view.Quotes = append(view.Quotes, CommodityQuote{
			Instrument: c,
			Close:      closes[len(closes)-1],
			Change1M:   calculator.PctChange(closes, calculator.LagMonth),
			ChangeYr:   calculator.ChangeSinceStart(closes),
		})
		lines = append(lines, render.Line{Name: c.Name, Dates: barDates(bars), Values: closes})
	}
	view.Performance = render.Lines("Commodity performance", lines, true)

	if copper, gold := series["HG=F"], series["GC=F"]; len(copper) > 0 && len(gold) > 0 {
		dates, ratio := ratioSeries(copper, gold)
		view.CopperGold = render.Lines("Copper / Gold ratio", []render.Line{{Name: "Copper/Gold", Dates: dates, Values: ratio}}, false)
	}
	return view, nil
}

// LiquidityView combines manual macro figures with rates and credit.
type LiquidityView struct {
	Inputs              model.ManualInputs `json:"inputs"`
	MarginDebtChangePct *float64           `json:"margin_debt_change_pct"`
	TenYearYield        *float64           `json:"ten_year_yield"`
	CreditRatio         *render.Figure     `json:"credit_ratio,omitempty"`
	FederalDebt         *economic.Debt     `json:"federal_debt,omitempty"`
	FederalDebtLabel    string             `json:"federal_debt_label,omitempty"`
	Messages            []string           `json:"messages,omitempty"`
}

// Liquidity never fails: each missing source becomes a message.
func (s *Service) Liquidity(ctx context.Context) (*LiquidityView, error) {
	view := &LiquidityView{Inputs: s.ManualInputs()}
	if in := view.Inputs; in.MarginDebtPrev > 0 {
		chg := (in.MarginDebt/in.MarginDebtPrev - 1) * 100
		view.MarginDebtChangePct = &chg
	}

	if bars, err := s.series(ctx, SymbolTenYear, "6mo"); err != nil {
		view.Messages = append(view.Messages, "10Y yield unavailable")
	} else {
		view.TenYearYield = finite(calculator.Last(model.Closes(bars)))
	}

	series, err := s.batch(ctx, "credit", []string{SymbolHYG, SymbolIEF})
	if hyg, ief := series[SymbolHYG], series[SymbolIEF]; err == nil && len(hyg) > 0 && len(ief) > 0 {
		dates, ratio := ratioSeries(hyg, ief)
		view.CreditRatio = render.Lines("Credit risk appetite (HYG / IEF)", []render.Line{{Name: "HYG/IEF", Dates: dates, Values: ratio}}, false)
	} else {
		view.Messages = append(view.Messages, "HYG/IEF credit ratio unavailable")
	}

	if s.debt != nil {
		lctx := detached(ctx)
		debt, err := cache.Load(s.cache, "debt", s.cfg.ConstituentsTTL, func() (*economic.Debt, error) {
			return s.debt.Latest(lctx)
		})
		if err != nil {
			s.log.Warnf("federal debt unavailable: %v", err)
			view.Messages = append(view.Messages, "Federal debt unavailable")
		} else {
			view.FederalDebt = debt
			view.FederalDebtLabel = render.CapLabel(debt.Amount)
		}
	}
	return view, nil
}

// batch downloads several symbols in one call and splits the table into
// per-symbol bars. Symbols that failed are absent from the map.
func (s *Service) batch(ctx context.Context, name string, tickers []string) (map[string][]model.OHLCV, error) {
	period := s.cfg.HistoryPeriod
	ctx = detached(ctx)
	t, err := cache.Load(s.cache, "history", s.cfg.PricesTTL, func() (*frame.Table, error) {
		return s.collector.GetPriceHistory(ctx, tickers, period)
	}, name, period)
	if err != nil {
		s.log.Warnf("%s history unavailable: %v", name, err)
		return nil, err
	}

	out := make(map[string][]model.OHLCV, len(tickers))
	for _, tk := range tickers {
		flat, err := frame.Normalize(t, tk)
		if err != nil {
			continue
		}
		if bars := flat.Bars(); len(bars) > 0 {
			out[tk] = bars
		}
	}
	return out, nil
}

func barDates(bars []model.OHLCV) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}
	return out
}

// ratioSeries divides num by den on the dates both have.
func ratioSeries(num, den []model.OHLCV) ([]time.Time, []float64) {
	byDay := make(map[string]float64, len(den))
	for _, b := range den {
		byDay[b.Time.Format("2006-01-02")] = b.Close
	}
	var dates []time.Time
	var values []float64
	for _, b := range num {
		d, ok := byDay[b.Time.Format("2006-01-02")]
		if !ok || d == 0 {
			continue
		}
		dates = append(dates, b.Time)
		values = append(values, b.Close/d)
	}
	return dates, values
}

func nanIfNil(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
