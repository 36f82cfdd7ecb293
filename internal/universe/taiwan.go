package universe

import (
	"context"

	"MarketLens/internal/model"
)

var taiwanLargeCaps = []model.Symbol{
	{Ticker: "2330.TW", Name: "TSMC", Sector: "Technology", Industry: "Semiconductors"},
	{Ticker: "2303.TW", Name: "United Microelectronics", Sector: "Technology", Industry: "Semiconductors"},
	{Ticker: "2454.TW", Name: "MediaTek", Sector: "Technology", Industry: "Semiconductors"},
	{Ticker: "3711.TW", Name: "ASE Technology", Sector: "Technology", Industry: "Semiconductor Packaging"},
	{Ticker: "2317.TW", Name: "Hon Hai Precision", Sector: "Technology", Industry: "Electronic Manufacturing"},
	{Ticker: "2382.TW", Name: "Quanta Computer", Sector: "Technology", Industry: "Computer Hardware"},
	{Ticker: "2357.TW", Name: "Asustek Computer", Sector: "Technology", Industry: "Computer Hardware"},
	{Ticker: "2308.TW", Name: "Delta Electronics", Sector: "Technology", Industry: "Electronic Components"},
	{Ticker: "3008.TW", Name: "Largan Precision", Sector: "Technology", Industry: "Electronic Components"},
	{Ticker: "2412.TW", Name: "Chunghwa Telecom", Sector: "Communication Services", Industry: "Telecom Services"},
	{Ticker: "2881.TW", Name: "Fubon Financial", Sector: "Financials", Industry: "Financial Holding"},
	{Ticker: "2882.TW", Name: "Cathay Financial", Sector: "Financials", Industry: "Financial Holding"},
	{Ticker: "2891.TW", Name: "CTBC Financial", Sector: "Financials", Industry: "Financial Holding"},
	{Ticker: "2886.TW", Name: "Mega Financial", Sector: "Financials", Industry: "Financial Holding"},
	{Ticker: "1301.TW", Name: "Formosa Plastics", Sector: "Materials", Industry: "Plastics"},
	{Ticker: "1303.TW", Name: "Nan Ya Plastics", Sector: "Materials", Industry: "Plastics"},
	{Ticker: "2002.TW", Name: "China Steel", Sector: "Materials", Industry: "Steel"},
	{Ticker: "2603.TW", Name: "Evergreen Marine", Sector: "Industrials", Industry: "Shipping"},
	{Ticker: "1216.TW", Name: "Uni-President", Sector: "Consumer Staples", Industry: "Food Products"},
	{Ticker: "2912.TW", Name: "President Chain Store", Sector: "Consumer Staples", Industry: "Retail"},
}

// TaiwanProvider serves a fixed list of Taiwan large caps.
type TaiwanProvider struct{}

func (TaiwanProvider) Name() string { return "taiwan" }

func (TaiwanProvider) Symbols(context.Context) []model.Symbol {
	return append([]model.Symbol(nil), taiwanLargeCaps...)
}
