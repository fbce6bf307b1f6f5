package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/internal/response"
)

type trendService interface {
	GetTrends(ctx context.Context, brandID, ticker string) (*models.TrendSet, error)
}

type intelService interface {
	GetCards(ctx context.Context) ([]dto.IntelCard, error)
}

type stockService interface {
	Snapshot(ctx context.Context, symbol string) (*dto.StockSnapshot, error)
}

// marketHandlers serves the public, generated or proxied market content.
type marketHandlers struct {
	ResponseHandler response.ResponseHandler
	TrendSvc        trendService
	IntelSvc        intelService
	StockSvc        stockService
}

func NewMarketHandlers(deps *Deps) *marketHandlers {
	return &marketHandlers{
		ResponseHandler: deps.ResponseHandler,
		TrendSvc:        deps.TrendSvc,
		IntelSvc:        deps.IntelSvc,
		StockSvc:        deps.StockSvc,
	}
}

func (h *marketHandlers) GetTrends(w http.ResponseWriter, r *http.Request) {
	set, err := h.TrendSvc.GetTrends(r.Context(), chi.URLParam(r, "brandId"), r.URL.Query().Get("ticker"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, set)
}

func (h *marketHandlers) GetIntelCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.IntelSvc.GetCards(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, cards)
}

func (h *marketHandlers) GetStock(w http.ResponseWriter, r *http.Request) {
	snap, err := h.StockSvc.Snapshot(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, snap)
}
