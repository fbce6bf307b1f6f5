package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/pkg/helpers"
)

type stubSwipeStore struct {
	created   []*models.Swipe
	createErr error
	listUID   string
	listLimit int
}

func (s *stubSwipeStore) Create(_ context.Context, swipe *models.Swipe) error {
	s.created = append(s.created, swipe)
	return s.createErr
}

func (s *stubSwipeStore) ListByUser(_ context.Context, uid string, limit int) ([]models.Swipe, error) {
	s.listUID, s.listLimit = uid, limit
	return []models.Swipe{}, nil
}

type stubSwipeUserStore struct {
	stak      []string
	passed    []models.PassedBrand
	appendErr error
}

func (s *stubSwipeUserStore) AppendStak(_ context.Context, _ string, brandID string) error {
	s.stak = append(s.stak, brandID)
	return s.appendErr
}

func (s *stubSwipeUserStore) AppendPassed(_ context.Context, _ string, p models.PassedBrand) error {
	s.passed = append(s.passed, p)
	return s.appendErr
}

func TestSwipeRecordRight(t *testing.T) {
	swipes := &stubSwipeStore{}
	users := &stubSwipeUserStore{}
	svc := NewSwipeService(swipes, users)
	svc.now = func() time.Time { return time.Date(2024, 5, 8, 9, 30, 0, 0, time.FixedZone("x", 3600)) }

	sw, err := svc.Record(helpers.TestCtx(), "uid-1", dto.SwipeRequest{BrandID: " nike ", Direction: "RIGHT"})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if sw.ID == "" || sw.UID != "uid-1" || sw.BrandID != "nike" || sw.Direction != models.SwipeRight {
		t.Fatalf("unexpected swipe: %+v", sw)
	}
	if sw.Timestamp != "2024-05-08T08:30:00Z" {
		t.Fatalf("timestamp should be RFC3339 UTC, got %q", sw.Timestamp)
	}
	if len(swipes.created) != 1 || len(users.stak) != 1 || len(users.passed) != 0 {
		t.Fatalf("unexpected writes: swipes=%d stak=%v passed=%v", len(swipes.created), users.stak, users.passed)
	}
}

func TestSwipeRecordLeftAddsPassed(t *testing.T) {
	users := &stubSwipeUserStore{}
	svc := NewSwipeService(&stubSwipeStore{}, users)

	if _, err := svc.Record(helpers.TestCtx(), "uid-1", dto.SwipeRequest{BrandID: "lulu", Direction: "left"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(users.passed) != 1 || users.passed[0].BrandID != "lulu" || users.passed[0].PassedAt.IsZero() {
		t.Fatalf("unexpected passed: %+v", users.passed)
	}
	if len(users.stak) != 0 {
		t.Fatalf("left swipe must not touch stak")
	}
}

func TestSwipeRecordValidation(t *testing.T) {
	svc := NewSwipeService(&stubSwipeStore{}, &stubSwipeUserStore{})
	var ve *errs.ValidationError

	for _, req := range []dto.SwipeRequest{
		{BrandID: "", Direction: "left"},
		{BrandID: "nike", Direction: "up"},
	} {
		if _, err := svc.Record(helpers.TestCtx(), "uid", req); !errors.As(err, &ve) {
			t.Fatalf("Record(%+v): expected ValidationError, got %v", req, err)
		}
	}
}

func TestSwipeRecordStoreError(t *testing.T) {
	users := &stubSwipeUserStore{}
	svc := NewSwipeService(&stubSwipeStore{createErr: errors.New("boom")}, users)

	if _, err := svc.Record(helpers.TestCtx(), "uid", dto.SwipeRequest{BrandID: "nike", Direction: "right"}); err == nil {
		t.Fatalf("expected error")
	}
	if len(users.stak) != 0 {
		t.Fatalf("profile must not change when the swipe was not saved")
	}
}

func TestSwipeListClampsLimit(t *testing.T) {
	cases := map[int]int{0: DefaultSwipeLimit, -3: DefaultSwipeLimit, 10: 10, 1000: MaxSwipeLimit}
	for in, want := range cases {
		store := &stubSwipeStore{}
		svc := NewSwipeService(store, &stubSwipeUserStore{})
		if _, err := svc.List(helpers.TestCtx(), "uid", in); err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if store.listLimit != want || store.listUID != "uid" {
			t.Fatalf("List(%d) used limit %d, want %d", in, store.listLimit, want)
		}
	}
}
