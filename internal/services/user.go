package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/pkg/helpers"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

const (
	maxListEntries     = 500
	maxDisplayNameLen  = 50
	intelStateDateForm = "2006-01-02"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	MergeUser(ctx context.Context, uid string, fields map[string]any) error
}

type userService struct {
	Store userUSStore
	now   func() time.Time
}

func NewUserService(store userUSStore) *userService {
	return &userService{
		Store: store,
		now:   time.Now,
	}
}

// GetProfile returns the caller's profile, creating a default one on first use.
func (s *userService) GetProfile(ctx context.Context, uid, email string) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, uid)
	var notFound *errs.NotFoundError
	if err == nil || !errors.As(err, &notFound) {
		return user, err
	}

	log := logger.FromContext(ctx)
	now := s.now().UTC()
	user = &models.User{
		UID:         uid,
		Email:       email,
		Preferences: map[string]any{},
		Onboarding:  map[string]bool{},
		Stak:        []string{},
		Passed:      []models.PassedBrand{},
		IntelState:  models.IntelState{Queue: []string{}, ReadIDs: []string{}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.CreateUser(ctx, user)
	var exists *errs.AlreadyExistsError
	if errors.As(err, &exists) {
		// another request created it first
		return s.Store.GetUser(ctx, uid)
	}
	if err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user profile created")
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, uid, email string, req dto.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]any{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(helpers.Value(req.DisplayName))
		if utf8.RuneCountInString(name) > maxDisplayNameLen {
			return nil, errs.NewValidationError("displayName must be at most 50 characters")
		}
		fields["displayName"] = name
	}
	if req.Preferences != nil {
		fields["preferences"] = req.Preferences
	}
	if req.Onboarding != nil {
		fields["onboarding"] = req.Onboarding
	}
	if len(fields) == 0 {
		return nil, errs.NewValidationError("no profile fields to update")
	}

	return s.merge(ctx, uid, email, fields)
}

func (s *userService) GetStak(ctx context.Context, uid, email string) ([]string, error) {
	user, err := s.GetProfile(ctx, uid, email)
	if err != nil {
		return nil, err
	}
	return nonNil(user.Stak), nil
}

// SetStak replaces the stak with ids in first-seen order.
func (s *userService) SetStak(ctx context.Context, uid, email string, stak []string) ([]string, error) {
	if stak == nil {
		return nil, errs.NewValidationError("stak is required")
	}
	ids := make([]string, 0, len(stak))
	for _, id := range stak {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, errs.NewValidationError("stak entries must be non-empty brand ids")
		}
		ids = append(ids, id)
	}
	ids = helpers.Unique(ids)
	if len(ids) > maxListEntries {
		return nil, errs.NewValidationError("stak may hold at most 500 brands")
	}

	user, err := s.merge(ctx, uid, email, map[string]any{"stak": ids})
	if err != nil {
		return nil, err
	}
	return nonNil(user.Stak), nil
}

func (s *userService) GetPassed(ctx context.Context, uid, email string) ([]models.PassedBrand, error) {
	user, err := s.GetProfile(ctx, uid, email)
	if err != nil {
		return nil, err
	}
	return nonNil(user.Passed), nil
}

// SetPassed replaces the passed list. Entries without a time are stamped now and
// repeated brands keep their first entry.
func (s *userService) SetPassed(ctx context.Context, uid, email string, passed []models.PassedBrand) ([]models.PassedBrand, error) {
	if passed == nil {
		return nil, errs.NewValidationError("passed is required")
	}
	now := s.now().UTC()
	seen := make(map[string]struct{}, len(passed))
	out := make([]models.PassedBrand, 0, len(passed))
	for _, p := range passed {
		p.BrandID = strings.TrimSpace(p.BrandID)
		if p.BrandID == "" {
			return nil, errs.NewValidationError("passed entries need a brandId")
		}
		if _, dup := seen[p.BrandID]; dup {
			continue
		}
		seen[p.BrandID] = struct{}{}
		if p.PassedAt.IsZero() {
			p.PassedAt = now
		}
		out = append(out, p)
	}
	if len(out) > maxListEntries {
		return nil, errs.NewValidationError("passed may hold at most 500 brands")
	}

	user, err := s.merge(ctx, uid, email, map[string]any{"passed": out})
	if err != nil {
		return nil, err
	}
	return nonNil(user.Passed), nil
}

func (s *userService) GetIntelState(ctx context.Context, uid, email string) (models.IntelState, error) {
	user, err := s.GetProfile(ctx, uid, email)
	if err != nil {
		return models.IntelState{}, err
	}
	return normalizeIntelState(user.IntelState), nil
}

func (s *userService) SetIntelState(ctx context.Context, uid, email string, state models.IntelState) (models.IntelState, error) {
	if state.LastShownDate != "" {
		if _, err := time.Parse(intelStateDateForm, state.LastShownDate); err != nil {
			return models.IntelState{}, errs.NewValidationError("lastShownDate must be YYYY-MM-DD")
		}
	}
	state = normalizeIntelState(state)

	user, err := s.merge(ctx, uid, email, map[string]any{
		"intelState": map[string]any{
			"lastShownDate": state.LastShownDate,
			"queue":         state.Queue,
			"readIds":       state.ReadIDs,
		},
	})
	if err != nil {
		return models.IntelState{}, err
	}
	return normalizeIntelState(user.IntelState), nil
}

// merge makes sure the profile exists, writes fields and returns the fresh document.
func (s *userService) merge(ctx context.Context, uid, email string, fields map[string]any) (*models.User, error) {
	if _, err := s.GetProfile(ctx, uid, email); err != nil {
		return nil, err
	}
	if err := s.Store.MergeUser(ctx, uid, fields); err != nil {
		logger.FromContext(ctx).Error("failed to update user", "error", err)
		return nil, err
	}
	return s.Store.GetUser(ctx, uid)
}

func normalizeIntelState(st models.IntelState) models.IntelState {
	st.Queue = helpers.Unique(nonNil(st.Queue))
	st.ReadIDs = helpers.Unique(nonNil(st.ReadIDs))
	return st
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
