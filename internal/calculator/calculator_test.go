package calculator

import (
	"math"
	"testing"
	"time"

	"MarketLens/internal/model"
)

const eps = 1e-9

func wave(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i)*0.1
	}
	return x
}

func ramp(n int, start, step float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = start + float64(i)*step
	}
	return x
}

func flat(n int, v float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = v
	}
	return x
}

func TestPctChange_Lags(t *testing.T) {
	p := wave(30)
	last := len(p) - 1
	tests := []struct {
		name string
		lag  int
		want float64
	}{
		{"1 day", LagDay, 100 * (p[last]/p[last-1] - 1)},
		{"1 week", LagWeek, 100 * (p[last]/p[last-5] - 1)},
		{"1 month", LagMonth, 100 * (p[last]/p[last-21] - 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PctChange(p, tt.lag); math.Abs(got-tt.want) > eps {
				t.Errorf("PctChange lag %d = %f, want %f", tt.lag, got, tt.want)
			}
		})
	}
}

func TestPctChange_ShortSeriesIsZero(t *testing.T) {
	p := ramp(5, 100, 1)
	if got := PctChange(p, LagWeek); got != 0 {
		t.Errorf("expected 0 for series of length 5 with lag 5, got %f", got)
	}
	if got := PctChange(p, LagMonth); got != 0 {
		t.Errorf("expected 0 for series shorter than 21, got %f", got)
	}
	if got := PctChange(nil, LagDay); got != 0 {
		t.Errorf("expected 0 for empty series, got %f", got)
	}
}

func TestChangeSinceStart(t *testing.T) {
	if got := ChangeSinceStart([]float64{50, 60, 75}); math.Abs(got-50) > eps {
		t.Errorf("expected 50%%, got %f", got)
	}
	if got := ChangeSinceStart([]float64{50}); got != 0 {
		t.Errorf("expected 0 for single observation, got %f", got)
	}
}

func TestSMA_WarmupAndValues(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	got := SMA(x, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("index %d: expected NaN warm-up, got %f", i, got[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > eps {
			t.Errorf("index %d: expected %f, got %f", i+2, w, got[i+2])
		}
	}
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	x := []float64{10, 20}
	got := EMA(x, 3) // alpha = 0.5
	if got[0] != 10 {
		t.Errorf("expected seed 10, got %f", got[0])
	}
	if math.Abs(got[1]-15) > eps {
		t.Errorf("expected 15, got %f", got[1])
	}
}

func TestRSI_Bounded(t *testing.T) {
	rsi := RSI(wave(300), RSIPeriod)
	valid := 0
	for i, v := range rsi {
		if math.IsNaN(v) {
			if i >= RSIPeriod {
				t.Fatalf("unexpected NaN at index %d", i)
			}
			continue
		}
		valid++
		if v < 0 || v > 100 {
			t.Errorf("index %d: RSI %f out of [0,100]", i, v)
		}
	}
	if valid != 300-RSIPeriod {
		t.Errorf("expected %d valid values, got %d", 300-RSIPeriod, valid)
	}
}

func TestRSI_Extremes(t *testing.T) {
	up := RSI(ramp(40, 100, 1), RSIPeriod)
	if v, _ := Last(up); v != 100 {
		t.Errorf("all-gain window: expected 100, got %f", v)
	}
	down := RSI(ramp(40, 100, -1), RSIPeriod)
	if v, _ := Last(down); v != 0 {
		t.Errorf("all-loss window: expected 0, got %f", v)
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	for i, v := range RSI(ramp(10, 1, 1), RSIPeriod) {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN for short series, got %f", i, v)
		}
	}
}

func TestMACD_HistogramIsLineMinusSignal(t *testing.T) {
	line, signal, hist := MACD(wave(120))
	for i := range hist {
		if hist[i] != line[i]-signal[i] {
			t.Fatalf("index %d: hist %v != line-signal %v", i, hist[i], line[i]-signal[i])
		}
	}
	ownSignal := EMA(line, 9)
	for i := range signal {
		if signal[i] != ownSignal[i] {
			t.Fatalf("index %d: signal is not EMA(9) of the MACD line", i)
		}
	}
}

func TestBollinger_Symmetric(t *testing.T) {
	upper, middle, lower := Bollinger(wave(100), BollingerPeriod, BollingerK)
	for i := range middle {
		if i < BollingerPeriod-1 {
			if !math.IsNaN(middle[i]) {
				t.Errorf("index %d: expected NaN warm-up", i)
			}
			continue
		}
		if math.Abs((upper[i]-middle[i])-(middle[i]-lower[i])) > eps {
			t.Errorf("index %d: bands not symmetric: %f / %f", i, upper[i]-middle[i], middle[i]-lower[i])
		}
		if upper[i] < lower[i] {
			t.Errorf("index %d: upper %f below lower %f", i, upper[i], lower[i])
		}
	}
}

func TestFlatSeries(t *testing.T) {
	x := flat(60, 123.45)

	for i, v := range RSI(x, RSIPeriod) {
		if i >= RSIPeriod && v != 100 {
			t.Errorf("index %d: flat series RSI should saturate at 100, got %f", i, v)
		}
	}

	line, signal, hist := MACD(x)
	for i := range line {
		if math.Abs(line[i]) > eps || math.Abs(signal[i]) > eps || math.Abs(hist[i]) > eps {
			t.Fatalf("index %d: expected zero MACD, got %f/%f/%f", i, line[i], signal[i], hist[i])
		}
	}

	upper, middle, lower := Bollinger(x, BollingerPeriod, BollingerK)
	for i := BollingerPeriod - 1; i < len(x); i++ {
		if math.Abs(upper[i]-middle[i]) > eps || math.Abs(middle[i]-lower[i]) > eps {
			t.Errorf("index %d: expected zero-width bands, got %f..%f around %f", i, lower[i], upper[i], middle[i])
		}
	}
}

func TestOBV(t *testing.T) {
	closes := []float64{10, 11, 11, 9, 12}
	vols := []float64{100, 200, 300, 400, 500}
	want := []float64{100, 300, 600, 200, 700}
	got := OBV(closes, vols)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestCalculateRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 10, Low: 5},
		{High: 30, Low: 1},
		{High: 12, Low: 8},
		{High: 15, Low: 9},
	}
	h, l, err := CalculateRange(bars, 2)
	if err != nil {
		t.Fatal(err)
	}
	if h != 15 || l != 8 {
		t.Errorf("expected 15/8, got %f/%f", h, l)
	}
	h, l, _ = CalculateRange(bars, TradingDaysPerYear)
	if h != 30 || l != 1 {
		t.Errorf("expected 30/1 over full lookback, got %f/%f", h, l)
	}
	if _, _, err := CalculateRange(nil, 10); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestCalculateRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{15, 20, 10, 0.5},
		{25, 20, 10, 1},
		{5, 20, 10, 0},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculateRangePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > eps {
			t.Errorf("position(%v,%v,%v) = %v, want %v", tt.current, tt.high, tt.low, got, tt.want)
		}
	}
	if _, err := CalculateRangePosition(1, 5, 10); err == nil {
		t.Error("expected error when high < low")
	}
}

func TestBuildFrame_ColumnsAligned(t *testing.T) {
	closes := wave(250)
	bars := make([]model.OHLCV, len(closes))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	f := BuildFrame("TEST", bars)
	cols := map[string][]float64{
		"MA20": f.MA20, "MA50": f.MA50, "MA200": f.MA200, "RSI": f.RSI,
		"MACD": f.MACD, "Signal": f.Signal, "Hist": f.Hist,
		"BBUpper": f.BBUpper, "BBMiddle": f.BBMiddle, "BBLower": f.BBLower,
	}
	for name, col := range cols {
		if len(col) != len(bars) {
			t.Errorf("%s: expected %d entries, got %d", name, len(bars), len(col))
		}
	}
	if v, ok := Last(f.MA200); !ok || math.IsNaN(v) {
		t.Error("expected MA200 to be available for 250 bars")
	}
}
