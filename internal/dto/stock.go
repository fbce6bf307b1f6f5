package dto

import "github.com/shopspring/decimal"

type Quote struct {
	Current       decimal.Decimal `json:"current"`
	Change        decimal.Decimal `json:"change"`
	PercentChange decimal.Decimal `json:"percentChange"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Open          decimal.Decimal `json:"open"`
	PrevClose     decimal.Decimal `json:"prevClose"`
	Timestamp     int64           `json:"timestamp"`
}

type CompanyProfile struct {
	Name      string          `json:"name"`
	Ticker    string          `json:"ticker"`
	Exchange  string          `json:"exchange"`
	Industry  string          `json:"industry"`
	Country   string          `json:"country"`
	Currency  string          `json:"currency"`
	Logo      string          `json:"logo"`
	WebURL    string          `json:"weburl"`
	IPO       string          `json:"ipo"`
	MarketCap decimal.Decimal `json:"marketCap"` // millions, as Finnhub reports it
}

type StockSnapshot struct {
	Symbol  string          `json:"symbol"`
	Quote   Quote           `json:"quote"`
	Profile *CompanyProfile `json:"profile"`
}
