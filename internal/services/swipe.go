package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

const (
	DefaultSwipeLimit = 50
	MaxSwipeLimit     = 200
	maxBrandIDLen     = 100
)

type swipeSSStore interface {
	Create(ctx context.Context, swipe *models.Swipe) error
	ListByUser(ctx context.Context, uid string, limit int) ([]models.Swipe, error)
}

type swipeUserStore interface {
	AppendStak(ctx context.Context, uid, brandID string) error
	AppendPassed(ctx context.Context, uid string, passed models.PassedBrand) error
}

type swipeService struct {
	swipes swipeSSStore
	users  swipeUserStore
	now    func() time.Time
}

func NewSwipeService(swipes swipeSSStore, users swipeUserStore) *swipeService {
	return &swipeService{swipes: swipes, users: users, now: time.Now}
}

// Record stores the swipe event and mirrors it onto the profile: right swipes
// join the stak, left swipes are remembered as passed.
func (s *swipeService) Record(ctx context.Context, uid string, req dto.SwipeRequest) (*models.Swipe, error) {
	brandID := strings.TrimSpace(req.BrandID)
	if brandID == "" {
		return nil, errs.NewValidationError("brandId is required")
	}
	if len(brandID) > maxBrandIDLen {
		return nil, errs.NewValidationError("brandId is too long")
	}
	direction := strings.ToLower(strings.TrimSpace(req.Direction))
	if direction != models.SwipeLeft && direction != models.SwipeRight {
		return nil, errs.NewValidationError("direction must be left or right")
	}

	now := s.now().UTC()
	swipe := &models.Swipe{
		ID:        uuid.NewString(),
		UID:       uid,
		BrandID:   brandID,
		Direction: direction,
		Timestamp: now.Format(time.RFC3339),
	}

	log := logger.FromContext(ctx)
	if err := s.swipes.Create(ctx, swipe); err != nil {
		log.Error("failed to save swipe", "error", err)
		return nil, err
	}

	var err error
	if direction == models.SwipeRight {
		err = s.users.AppendStak(ctx, uid, brandID)
	} else {
		err = s.users.AppendPassed(ctx, uid, models.PassedBrand{BrandID: brandID, PassedAt: now})
	}
	if err != nil {
		log.Error("failed to apply swipe to profile", "swipe_id", swipe.ID, "error", err)
		return nil, err
	}

	log.Info("swipe recorded", "brand_id", brandID, "direction", direction)
	return swipe, nil
}

// List returns the caller's swipes, newest first. limit is clamped to MaxSwipeLimit.
func (s *swipeService) List(ctx context.Context, uid string, limit int) ([]models.Swipe, error) {
	if limit <= 0 {
		limit = DefaultSwipeLimit
	}
	if limit > MaxSwipeLimit {
		limit = MaxSwipeLimit
	}
	return s.swipes.ListByUser(ctx, uid, limit)
}
