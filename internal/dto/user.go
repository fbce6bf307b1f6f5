package dto

import "github.com/GregMSThompson/stak-backend/internal/models"

type UpdateProfileRequest struct {
	DisplayName *string         `json:"displayName"`
	Preferences map[string]any  `json:"preferences"`
	Onboarding  map[string]bool `json:"onboarding"`
}

type StakRequest struct {
	Stak []string `json:"stak"`
}

type StakResponse struct {
	Stak []string `json:"stak"`
}

type PassedRequest struct {
	Passed []models.PassedBrand `json:"passed"`
}

type PassedResponse struct {
	Passed []models.PassedBrand `json:"passed"`
}

type SwipeRequest struct {
	BrandID   string `json:"brandId"`
	Direction string `json:"direction"`
}
