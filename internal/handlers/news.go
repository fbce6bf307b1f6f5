package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/response"
)

type newsService interface {
	Market(ctx context.Context) ([]dto.SimplifiedArticle, error)
	Company(ctx context.Context, symbol string) ([]dto.SimplifiedArticle, error)
	Search(ctx context.Context, query string) ([]dto.SimplifiedArticle, error)
}

type newsHandlers struct {
	ResponseHandler response.ResponseHandler
	NewsSvc         newsService
}

func NewNewsHandlers(deps *Deps) *newsHandlers {
	return &newsHandlers{
		ResponseHandler: deps.ResponseHandler,
		NewsSvc:         deps.NewsSvc,
	}
}

func (h *newsHandlers) NewsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/market", h.Market)
	r.Get("/company/{symbol}", h.Company)
	r.Get("/search", h.Search)
	return r
}

func (h *newsHandlers) Market(w http.ResponseWriter, r *http.Request) {
	articles, err := h.NewsSvc.Market(r.Context())
	h.write(w, r, articles, err)
}

func (h *newsHandlers) Company(w http.ResponseWriter, r *http.Request) {
	articles, err := h.NewsSvc.Company(r.Context(), chi.URLParam(r, "symbol"))
	h.write(w, r, articles, err)
}

func (h *newsHandlers) Search(w http.ResponseWriter, r *http.Request) {
	articles, err := h.NewsSvc.Search(r.Context(), r.URL.Query().Get("q"))
	h.write(w, r, articles, err)
}

func (h *newsHandlers) write(w http.ResponseWriter, r *http.Request, articles []dto.SimplifiedArticle, err error) {
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, articles)
}
