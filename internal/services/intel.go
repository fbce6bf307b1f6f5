package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/pkg/helpers"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
	"github.com/GregMSThompson/stak-backend/pkg/ttlcache"
)

const (
	intelCacheKey  = "intel-cards"
	intelCardCount = 10
)

const intelSystemPrompt = `You write flashcards that teach one personal-finance or investing concept each
to beginners. Reply with a JSON array of objects with "concept" (2-4 words), "title" (a catchy
question or hook), "body" (max 3 sentences) and "example" (one concrete example with numbers).`

type intelService struct {
	ladder ladder
	cache  ttlcache.Cache[[]dto.IntelCard]
	ttl    time.Duration
}

func NewIntelService(generators []TextGenerator, retryDelay time.Duration, cache ttlcache.Cache[[]dto.IntelCard], ttl time.Duration) *intelService {
	return &intelService{
		ladder: newLadder(generators, retryDelay),
		cache:  cache,
		ttl:    ttl,
	}
}

// GetCards returns the current deck. When generation fails the built-in deck is
// served and cached briefly so generation is retried soon.
func (s *intelService) GetCards(ctx context.Context) ([]dto.IntelCard, error) {
	if cards, ok := s.cache.Get(ctx, intelCacheKey); ok {
		return cards, nil
	}

	var cards []dto.IntelCard
	err := s.ladder.run(ctx, dto.GenerateRequest{
		System:      intelSystemPrompt,
		Prompt:      fmt.Sprintf("Write %d cards on different concepts.", intelCardCount),
		Temperature: helpers.Ptr(float32(0.9)),
		JSON:        true,
	}, func(text string) error {
		parsed, err := parseIntelCards(text)
		if err != nil {
			return err
		}
		cards = parsed
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn("intel generation failed, serving built-in deck", "error", err)
		deck := builtinIntelCards()
		if ctx.Err() == nil {
			s.cache.Set(ctx, intelCacheKey, deck, fallbackTTL)
		}
		return deck, nil
	}

	s.cache.Set(ctx, intelCacheKey, cards, s.ttl)
	return cards, nil
}

func parseIntelCards(text string) ([]dto.IntelCard, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var parsed []dto.IntelCard
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decode intel cards: %w", err)
	}

	out := make([]dto.IntelCard, 0, len(parsed))
	for _, c := range parsed {
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Body) == "" {
			continue
		}
		c.ID = fmt.Sprintf("intel-%d", len(out)+1)
		out = append(out, c)
		if len(out) == intelCardCount {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable intel cards in reply")
	}
	return out, nil
}

func builtinIntelCards() []dto.IntelCard {
	deck := []dto.IntelCard{
		{Concept: "Compound interest", Title: "Why does time matter so much?", Body: "Returns earn their own returns. The longer money stays invested, the faster it grows.", Example: "$1,000 at 7% a year becomes about $7,600 after 30 years."},
		{Concept: "Diversification", Title: "Why not pick just one stock?", Body: "Spreading money across many companies means one bad result hurts less.", Example: "If 1 of 20 equal holdings drops 50%, the portfolio falls only 2.5%."},
		{Concept: "Index funds", Title: "Can you buy the whole market?", Body: "An index fund holds every company in an index for a small yearly fee.", Example: "An S&P 500 fund gives you a slice of 500 large US companies."},
		{Concept: "P/E ratio", Title: "Is a stock cheap or expensive?", Body: "Price-to-earnings compares the share price to yearly profit per share.", Example: "A $100 stock earning $5 per share has a P/E of 20."},
		{Concept: "Market cap", Title: "How big is a company?", Body: "Market capitalisation is the share price times the number of shares.", Example: "1 billion shares at $50 is a $50 billion company."},
		{Concept: "Dividends", Title: "Do stocks pay you to own them?", Body: "Some companies share profits with owners as regular cash payments.", Example: "A 3% yield on $2,000 of stock pays about $60 a year."},
		{Concept: "Volatility", Title: "Why do prices jump around?", Body: "Volatility measures how much a price swings. Higher swings mean more risk and more uncertainty.", Example: "A stock moving 4% a day is far more volatile than one moving 0.5%."},
		{Concept: "Inflation", Title: "Why does cash lose value?", Body: "Rising prices mean each dollar buys less over time.", Example: "At 3% inflation, $100 buys what $97 did a year earlier."},
		{Concept: "Interest rates", Title: "Why does the Fed move markets?", Body: "Higher rates make borrowing costlier and safe savings more attractive, which can weigh on stocks.", Example: "A 1% rate rise adds $10 a year in interest per $1,000 borrowed."},
		{Concept: "Bull vs bear", Title: "What do the animals mean?", Body: "A bull market is a long rise in prices. A bear market is a fall of 20% or more.", Example: "The S&P 500 fell about 25% in 2022, a bear market."},
		{Concept: "Dollar-cost averaging", Title: "Is there a best time to buy?", Body: "Investing a fixed amount on a schedule buys more shares when prices are low.", Example: "$100 a month buys 10 shares at $10 and 20 shares at $5."},
		{Concept: "Earnings reports", Title: "Why do stocks move after earnings?", Body: "Each quarter companies report results. Prices react to how they compare with expectations.", Example: "Beating profit forecasts by 10% can send a stock up sharply overnight."},
	}
	for i := range deck {
		deck[i].ID = fmt.Sprintf("builtin-%d", i+1)
	}
	return deck
}
