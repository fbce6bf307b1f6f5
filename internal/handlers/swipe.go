package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/middleware"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/internal/response"
)

type swipeService interface {
	Record(ctx context.Context, uid string, req dto.SwipeRequest) (*models.Swipe, error)
	List(ctx context.Context, uid string, limit int) ([]models.Swipe, error)
}

type swipeHandlers struct {
	ResponseHandler response.ResponseHandler
	SwipeSvc        swipeService
}

func NewSwipeHandlers(deps *Deps) *swipeHandlers {
	return &swipeHandlers{
		ResponseHandler: deps.ResponseHandler,
		SwipeSvc:        deps.SwipeSvc,
	}
}

func (h *swipeHandlers) SwipeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.RecordSwipe)
	r.Get("/", h.ListSwipes)
	return r
}

func (h *swipeHandlers) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	var req dto.SwipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	swipe, err := h.SwipeSvc.Record(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, swipe)
}

func (h *swipeHandlers) ListSwipes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	uid := middleware.UID(r.Context())
	swipes, err := h.SwipeSvc.List(r.Context(), uid, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, swipes)
}
