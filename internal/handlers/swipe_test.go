package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
)

type stubSwipeService struct {
	recordCalled bool
	uid          string
	req          dto.SwipeRequest
	limit        int
	swipes       []models.Swipe
	err          error
}

func (s *stubSwipeService) Record(ctx context.Context, uid string, req dto.SwipeRequest) (*models.Swipe, error) {
	s.recordCalled = true
	s.uid = uid
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Swipe{ID: "s-1", UID: uid, BrandID: req.BrandID, Direction: req.Direction}, nil
}

func (s *stubSwipeService) List(ctx context.Context, uid string, limit int) ([]models.Swipe, error) {
	s.uid = uid
	s.limit = limit
	return s.swipes, s.err
}

func TestRecordSwipeCreated(t *testing.T) {
	svc := &stubSwipeService{}
	resp := &stubResponseHandler{}
	h := NewSwipeHandlers(&Deps{ResponseHandler: resp, SwipeSvc: svc})

	body := `{"brandId":"nike","direction":"right"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/swipe", strings.NewReader(body)), "uid-123", "")
	rr := httptest.NewRecorder()

	h.RecordSwipe(rr, req)

	if svc.uid != "uid-123" || svc.req.BrandID != "nike" || svc.req.Direction != "right" {
		t.Fatalf("unexpected forward: %q %#v", svc.uid, svc.req)
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.writeSuccessStatus)
	}
}

func TestRecordSwipeInvalidJSON(t *testing.T) {
	svc := &stubSwipeService{}
	resp := &stubResponseHandler{}
	h := NewSwipeHandlers(&Deps{ResponseHandler: resp, SwipeSvc: svc})

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/swipe", strings.NewReader(`[`)), "uid-123", "")
	rr := httptest.NewRecorder()

	h.RecordSwipe(rr, req)

	if svc.recordCalled {
		t.Fatalf("service should not be called")
	}
	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestListSwipesLimit(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantLimit int
		wantErr   bool
	}{
		{name: "default", query: "", wantLimit: 0},
		{name: "explicit", query: "?limit=25", wantLimit: 25},
		{name: "not a number", query: "?limit=lots", wantErr: true},
		{name: "zero", query: "?limit=0", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubSwipeService{}
			resp := &stubResponseHandler{}
			h := NewSwipeHandlers(&Deps{ResponseHandler: resp, SwipeSvc: svc})

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/swipe"+tc.query, nil), "uid-123", "")
			rr := httptest.NewRecorder()

			h.ListSwipes(rr, req)

			if tc.wantErr {
				var ve *errs.ValidationError
				if !errors.As(resp.handleError, &ve) {
					t.Fatalf("expected validation error, got %v", resp.handleError)
				}
				return
			}
			if svc.limit != tc.wantLimit {
				t.Fatalf("limit = %d, want %d", svc.limit, tc.wantLimit)
			}
			if !resp.writeSuccessCalled {
				t.Fatalf("expected success")
			}
		})
	}
}
