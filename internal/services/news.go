package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/news"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
	"github.com/GregMSThompson/stak-backend/pkg/ttlcache"
)

const (
	maxArticles       = 20
	maxSearchQueryLen = 100
	companyNewsWindow = 7 * 24 * time.Hour
)

type newsFeed interface {
	MarketNews(ctx context.Context) ([]news.Article, error)
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]news.Article, error)
}

type newsSearcher interface {
	Search(ctx context.Context, query string) ([]news.Article, error)
}

type articleSimplifier interface {
	Simplify(ctx context.Context, articles []news.Classified) ([]dto.SimplifiedArticle, bool)
}

type newsService struct {
	feed       newsFeed
	search     newsSearcher
	simplifier articleSimplifier
	cache      ttlcache.Cache[[]dto.SimplifiedArticle]
	ttl        time.Duration
	now        func() time.Time
}

func NewNewsService(feed newsFeed, search newsSearcher, simplifier articleSimplifier, cache ttlcache.Cache[[]dto.SimplifiedArticle], ttl time.Duration) *newsService {
	return &newsService{
		feed:       feed,
		search:     search,
		simplifier: simplifier,
		cache:      cache,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Market returns simplified general market news. Upstream failures yield an empty list.
func (s *newsService) Market(ctx context.Context) ([]dto.SimplifiedArticle, error) {
	articles, err := s.feed.MarketNews(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("market news unavailable", "error", err)
		return []dto.SimplifiedArticle{}, nil
	}
	return s.simplify(ctx, news.Filter(articles, "")), nil
}

func (s *newsService) Company(ctx context.Context, symbol string) ([]dto.SimplifiedArticle, error) {
	ticker, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	to := s.now().UTC()
	articles, err := s.feed.CompanyNews(ctx, ticker, to.Add(-companyNewsWindow), to)
	if err != nil {
		logger.FromContext(ctx).Warn("company news unavailable", "symbol", ticker, "error", err)
		return []dto.SimplifiedArticle{}, nil
	}
	return s.simplify(ctx, news.Filter(articles, ticker)), nil
}

func (s *newsService) Search(ctx context.Context, query string) ([]dto.SimplifiedArticle, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errs.NewValidationError("q is required")
	}
	if utf8.RuneCountInString(q) > maxSearchQueryLen {
		return nil, errs.NewValidationError("q must be at most 100 characters")
	}

	articles, err := s.search.Search(ctx, q)
	if err != nil {
		logger.FromContext(ctx).Warn("news search unavailable", "query", q, "error", err)
		return []dto.SimplifiedArticle{}, nil
	}
	return s.simplify(ctx, news.Filter(articles, "")), nil
}

// simplify caps the list and serves repeat article sets from the cache.
func (s *newsService) simplify(ctx context.Context, articles []news.Classified) []dto.SimplifiedArticle {
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}
	if len(articles) == 0 {
		return []dto.SimplifiedArticle{}
	}

	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	key := "news:" + strings.Join(ids, ",")

	if cached, ok := s.cache.Get(ctx, key); ok {
		logger.FromContext(ctx).Debug("news cache hit", "articles", len(cached))
		return cached
	}

	out, complete := s.simplifier.Simplify(ctx, articles)
	switch {
	case ctx.Err() != nil:
		// a dropped request must not decide what other callers see
	case complete:
		s.cache.Set(ctx, key, out, s.ttl)
	default:
		s.cache.Set(ctx, key, out, min(s.ttl, fallbackTTL))
	}
	return out
}
