package models

import (
	"time"
)

type User struct {
	UID         string          `firestore:"uid" json:"uid"`
	Email       string          `firestore:"email" json:"email"`
	DisplayName string          `firestore:"displayName" json:"displayName"`
	Preferences map[string]any  `firestore:"preferences" json:"preferences"`
	Onboarding  map[string]bool `firestore:"onboarding" json:"onboarding"`
	Stak        []string        `firestore:"stak" json:"stak"`
	Passed      []PassedBrand   `firestore:"passed" json:"passed"`
	IntelState  IntelState      `firestore:"intelState" json:"intelState"`
	CreatedAt   time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

// PassedBrand records a left swipe so the deck can skip the brand.
type PassedBrand struct {
	BrandID  string    `firestore:"brandId" json:"brandId"`
	PassedAt time.Time `firestore:"passedAt" json:"passedAt"`
}

type IntelState struct {
	LastShownDate string   `firestore:"lastShownDate" json:"lastShownDate"` // YYYY-MM-DD
	Queue         []string `firestore:"queue" json:"queue"`
	ReadIDs       []string `firestore:"readIds" json:"readIds"`
}
