package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
)

type stubTrendService struct {
	brandID, ticker string
	err             error
}

func (s *stubTrendService) GetTrends(ctx context.Context, brandID, ticker string) (*models.TrendSet, error) {
	s.brandID, s.ticker = brandID, ticker
	if s.err != nil {
		return nil, s.err
	}
	return &models.TrendSet{BrandID: brandID, Ticker: ticker}, nil
}

type stubIntelService struct {
	cards []dto.IntelCard
}

func (s *stubIntelService) GetCards(ctx context.Context) ([]dto.IntelCard, error) {
	return s.cards, nil
}

type stubStockService struct {
	symbol string
	err    error
}

func (s *stubStockService) Snapshot(ctx context.Context, symbol string) (*dto.StockSnapshot, error) {
	s.symbol = symbol
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StockSnapshot{Symbol: symbol}, nil
}

func TestGetTrendsReadsParams(t *testing.T) {
	trends := &stubTrendService{}
	resp := &stubResponseHandler{}
	h := NewMarketHandlers(&Deps{ResponseHandler: resp, TrendSvc: trends})

	r := chi.NewRouter()
	r.Get("/trends/{brandId}", h.GetTrends)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trends/nike?ticker=NKE", nil))

	if trends.brandID != "nike" || trends.ticker != "NKE" {
		t.Fatalf("forwarded %q %q", trends.brandID, trends.ticker)
	}
	if set, ok := resp.writeSuccessData.(*models.TrendSet); !ok || set.Ticker != "NKE" {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetIntelCards(t *testing.T) {
	intel := &stubIntelService{cards: []dto.IntelCard{{ID: "intel-1", Concept: "P/E ratio"}}}
	resp := &stubResponseHandler{}
	h := NewMarketHandlers(&Deps{ResponseHandler: resp, IntelSvc: intel})

	rr := httptest.NewRecorder()
	h.GetIntelCards(rr, httptest.NewRequest(http.MethodGet, "/intel", nil))

	if cards, ok := resp.writeSuccessData.([]dto.IntelCard); !ok || len(cards) != 1 {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetStockNotFound(t *testing.T) {
	stocks := &stubStockService{err: errs.NewNotFoundError("no quote for ZZZZ")}
	resp := &stubResponseHandler{}
	h := NewMarketHandlers(&Deps{ResponseHandler: resp, StockSvc: stocks})

	r := chi.NewRouter()
	r.Get("/stock/{symbol}", h.GetStock)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stock/zzzz", nil))

	if stocks.symbol != "zzzz" {
		t.Fatalf("symbol = %q", stocks.symbol)
	}
	if !resp.handleErrorCalled || resp.handleError != stocks.err {
		t.Fatalf("expected not found to be handled, got %v", resp.handleError)
	}
}
