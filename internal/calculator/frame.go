package calculator

import "MarketLens/internal/model"

// Standard indicator parameters for the technical view.
const (
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerK      = 2.0
)

// BuildFrame computes every indicator column for one symbol's bars.
func BuildFrame(symbol string, bars []model.OHLCV) *model.IndicatorFrame {
	closes := model.Closes(bars)

	f := &model.IndicatorFrame{
		Symbol: symbol,
		Bars:   bars,
		MA20:   SMA(closes, 20),
		MA50:   SMA(closes, 50),
		MA200:  SMA(closes, 200),
		RSI:    RSI(closes, RSIPeriod),
	}
	f.MACD, f.Signal, f.Hist = MACD(closes)
	f.BBUpper, f.BBMiddle, f.BBLower = Bollinger(closes, BollingerPeriod, BollingerK)
	return f
}
