package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/models"
	"github.com/GregMSThompson/stak-backend/internal/news"
	"github.com/GregMSThompson/stak-backend/pkg/helpers"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
	"github.com/GregMSThompson/stak-backend/pkg/ttlcache"
)

const (
	headlinesPerType = 3
	fallbackTTL      = 30 * time.Minute
)

const trendSystemPrompt = `You write short market narratives for people new to investing.
Given recent headlines grouped as macro, sector and company news for one stock, reply with a JSON
object with keys "macro", "sector", "company" and "synthesis". Each value is an object with
"title" (max 60 characters), "body" (max 3 sentences, plain English) and "sentiment"
("bullish", "bearish" or "neutral"). The synthesis ties the other three together.`

var trendKinds = []string{models.TrendMacro, models.TrendSector, models.TrendCompany, models.TrendSynthesis}

type trendCardStore interface {
	Get(ctx context.Context, ticker string) (*models.TrendSet, error)
	Save(ctx context.Context, set *models.TrendSet) error
}

type companyNews interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]news.Article, error)
}

type trendService struct {
	store  trendCardStore
	news   companyNews
	ladder ladder
	cache  ttlcache.Cache[*models.TrendSet]
	ttl    time.Duration
	now    func() time.Time
}

func NewTrendService(store trendCardStore, feed companyNews, generators []TextGenerator, retryDelay time.Duration, cache ttlcache.Cache[*models.TrendSet], ttl time.Duration) *trendService {
	return &trendService{
		store:  store,
		news:   feed,
		ladder: newLadder(generators, retryDelay),
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetTrends serves trend cards from memory, then Firestore, then generates them.
// ticker defaults to the upper-cased brand id.
func (s *trendService) GetTrends(ctx context.Context, brandID, ticker string) (*models.TrendSet, error) {
	brandID = strings.TrimSpace(brandID)
	if brandID == "" {
		return nil, errs.NewValidationError("brandId is required")
	}
	if strings.TrimSpace(ticker) == "" {
		ticker = brandID
	}
	symbol, err := normalizeSymbol(ticker)
	if err != nil {
		return nil, err
	}

	log, ctx := logger.With(ctx, "ticker", symbol)
	key := "trends:" + symbol
	now := s.now()

	if set, ok := s.cache.Get(ctx, key); ok {
		return withBrand(set, brandID), nil
	}

	stored, err := s.store.Get(ctx, symbol)
	var notFound *errs.NotFoundError
	switch {
	case err == nil && now.Before(stored.ExpiresAt):
		s.cache.Set(ctx, key, stored, stored.ExpiresAt.Sub(now))
		return withBrand(stored, brandID), nil
	case err != nil && !errors.As(err, &notFound):
		log.Warn("stored trend cards unavailable", "error", err)
	}

	set := s.generate(ctx, brandID, symbol)

	if set.Fallback {
		if ctx.Err() == nil {
			s.cache.Set(ctx, key, set, fallbackTTL)
		}
		return set, nil
	}

	s.cache.Set(ctx, key, set, s.ttl)
	if err := s.store.Save(ctx, set); err != nil {
		log.Error("failed to persist trend cards", "error", err)
	}
	return set, nil
}

func (s *trendService) generate(ctx context.Context, brandID, symbol string) *models.TrendSet {
	log := logger.FromContext(ctx)
	now := s.now().UTC()

	articles, err := s.news.CompanyNews(ctx, symbol, now.Add(-companyNewsWindow), now)
	if err != nil {
		log.Warn("company news unavailable for trends", "error", err)
	}
	grouped := groupHeadlines(news.Filter(articles, symbol))

	set := &models.TrendSet{
		BrandID:     brandID,
		Ticker:      symbol,
		GeneratedAt: now,
		ExpiresAt:   now.Add(s.ttl),
	}

	payload, _ := json.Marshal(grouped)
	err = s.ladder.run(ctx, dto.GenerateRequest{
		System:      trendSystemPrompt,
		Prompt:      fmt.Sprintf("Stock: %s\nHeadlines: %s", symbol, payload),
		Temperature: helpers.Ptr(float32(0.5)),
		JSON:        true,
	}, func(text string) error {
		cards, err := parseTrendCards(text)
		if err != nil {
			return err
		}
		set.Cards = cards
		return nil
	})
	if err != nil {
		log.Warn("trend generation fell back to headlines", "error", err)
		set.Cards = fallbackTrendCards(symbol, grouped)
		set.Fallback = true
		set.ExpiresAt = now.Add(fallbackTTL)
	}
	return set
}

// groupHeadlines keeps at most headlinesPerType headlines for each article type.
func groupHeadlines(articles []news.Classified) map[string][]string {
	out := map[string][]string{
		string(news.Macro):   {},
		string(news.Sector):  {},
		string(news.Company): {},
	}
	for _, a := range articles {
		k := string(a.Type)
		if len(out[k]) < headlinesPerType {
			out[k] = append(out[k], a.Headline)
		}
	}
	return out
}

type trendCardReply struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Sentiment string `json:"sentiment"`
}

func parseTrendCards(text string) ([]models.TrendCard, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var reply map[string]trendCardReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("decode trend cards: %w", err)
	}

	cards := make([]models.TrendCard, 0, len(trendKinds))
	for _, kind := range trendKinds {
		c, ok := reply[kind]
		if !ok || strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Body) == "" {
			return nil, fmt.Errorf("trend card %q missing", kind)
		}
		cards = append(cards, models.TrendCard{
			Kind:      kind,
			Title:     strings.TrimSpace(c.Title),
			Body:      strings.TrimSpace(c.Body),
			Sentiment: normalizeSentiment(c.Sentiment),
		})
	}
	return cards, nil
}

func fallbackTrendCards(symbol string, grouped map[string][]string) []models.TrendCard {
	body := func(kind, empty string) string {
		hs := grouped[kind]
		if len(hs) == 0 {
			return empty
		}
		return "Recent headlines: " + strings.Join(hs, "; ") + "."
	}

	return []models.TrendCard{
		{
			Kind:      models.TrendMacro,
			Title:     "The big picture",
			Body:      body(models.TrendMacro, "No major economy-wide news is moving "+symbol+" right now."),
			Sentiment: "neutral",
		},
		{
			Kind:      models.TrendSector,
			Title:     "Across the industry",
			Body:      body(models.TrendSector, "Peers of "+symbol+" have been quiet this week."),
			Sentiment: "neutral",
		},
		{
			Kind:      models.TrendCompany,
			Title:     "Inside " + symbol,
			Body:      body(models.TrendCompany, "No company-specific headlines for "+symbol+" in the last week."),
			Sentiment: "neutral",
		},
		{
			Kind:      models.TrendSynthesis,
			Title:     "Putting it together",
			Body:      "Check back soon for a fuller story on " + symbol + ". Prices move on news like the items above.",
			Sentiment: "neutral",
		},
	}
}

func withBrand(set *models.TrendSet, brandID string) *models.TrendSet {
	if set.BrandID == brandID {
		return set
	}
	cp := *set
	cp.BrandID = brandID
	return &cp
}
