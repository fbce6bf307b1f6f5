package models

import "time"

const (
	TrendMacro     = "macro"
	TrendSector    = "sector"
	TrendCompany   = "company"
	TrendSynthesis = "synthesis"
)

type TrendCard struct {
	Kind      string `firestore:"kind" json:"kind"`
	Title     string `firestore:"title" json:"title"`
	Body      string `firestore:"body" json:"body"`
	Sentiment string `firestore:"sentiment" json:"sentiment"`
}

// TrendSet is stored in trend_cards/{ticker} and only served while ExpiresAt is in the future.
type TrendSet struct {
	BrandID     string      `firestore:"brandId" json:"brandId"`
	Ticker      string      `firestore:"ticker" json:"ticker"`
	Cards       []TrendCard `firestore:"cards" json:"cards"`
	Fallback    bool        `firestore:"fallback" json:"fallback"`
	GeneratedAt time.Time   `firestore:"generatedAt" json:"generatedAt"`
	ExpiresAt   time.Time   `firestore:"expiresAt" json:"expiresAt"`
}
