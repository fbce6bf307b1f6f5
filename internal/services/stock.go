package services

import (
	"context"
	"errors"
	"time"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
	"github.com/GregMSThompson/stak-backend/pkg/ttlcache"
)

type quoteSource interface {
	Quote(ctx context.Context, symbol string) (dto.Quote, error)
	Profile(ctx context.Context, symbol string) (*dto.CompanyProfile, error)
}

type stockService struct {
	source quoteSource
	cache  ttlcache.Cache[*dto.StockSnapshot]
	ttl    time.Duration
}

func NewStockService(source quoteSource, cache ttlcache.Cache[*dto.StockSnapshot], ttl time.Duration) *stockService {
	return &stockService{source: source, cache: cache, ttl: ttl}
}

// Snapshot returns the latest quote and, when available, the company profile.
func (s *stockService) Snapshot(ctx context.Context, symbol string) (*dto.StockSnapshot, error) {
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	log, ctx := logger.With(ctx, "symbol", sym)
	key := "stock:" + sym
	if snap, ok := s.cache.Get(ctx, key); ok {
		return snap, nil
	}

	quote, err := s.source.Quote(ctx, sym)
	if err != nil {
		var ext *errs.ExternalServiceError
		if errors.As(err, &ext) {
			return nil, err
		}
		return nil, errs.NewExternalServiceError("finnhub", "quote failed", false, err)
	}
	// Finnhub answers unknown symbols with an all-zero quote.
	if quote.Current.IsZero() && quote.Timestamp == 0 {
		return nil, errs.NewNotFoundError("unknown symbol")
	}

	profile, err := s.source.Profile(ctx, sym)
	if err != nil {
		log.Warn("company profile unavailable", "error", err)
		profile = nil
	}

	snap := &dto.StockSnapshot{Symbol: sym, Quote: quote, Profile: profile}
	s.cache.Set(ctx, key, snap, s.ttl)
	return snap, nil
}
