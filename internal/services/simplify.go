package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/news"
	"github.com/GregMSThompson/stak-backend/pkg/helpers"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

const simplifyChunkSize = 5

const simplifySystemPrompt = `You explain financial news to people new to investing.
For each article return an object with "headline" (plain-English rewrite, max 90 characters),
"explanation" (two short sentences on why it matters to an everyday investor) and
"sentiment" (one of "bullish", "bearish", "neutral").
Reply with a JSON array in the same order as the input and nothing else.`

type simplifier struct {
	ladder ladder
}

func NewSimplifier(generators []TextGenerator, retryDelay time.Duration) *simplifier {
	return &simplifier{ladder: newLadder(generators, retryDelay)}
}

type simplifiedItem struct {
	Headline    string `json:"headline"`
	Explanation string `json:"explanation"`
	Sentiment   string `json:"sentiment"`
}

// Simplify rewrites articles in chunks processed concurrently. The result has the
// same length and order as the input; chunks that no generator could handle get
// fallback records built from the original article. complete is false when any
// item is a fallback record.
func (s *simplifier) Simplify(ctx context.Context, articles []news.Classified) (out []dto.SimplifiedArticle, complete bool) {
	out = make([]dto.SimplifiedArticle, len(articles))
	chunks := helpers.Chunk(articles, simplifyChunkSize)

	var fellBack atomic.Bool
	var g errgroup.Group
	for i, chunk := range chunks {
		offset := i * simplifyChunkSize
		g.Go(func() error {
			items, ok := s.simplifyChunk(ctx, chunk)
			if !ok {
				fellBack.Store(true)
			}
			for j, item := range items {
				out[offset+j] = item
			}
			return nil
		})
	}
	_ = g.Wait()

	return out, !fellBack.Load()
}

// simplifyChunk reports ok only when the reply covered every article.
func (s *simplifier) simplifyChunk(ctx context.Context, chunk []news.Classified) ([]dto.SimplifiedArticle, bool) {
	log := logger.FromContext(ctx)

	input := make([]map[string]string, len(chunk))
	for i, a := range chunk {
		input[i] = map[string]string{"headline": a.Headline, "summary": a.Summary}
	}
	payload, _ := json.Marshal(input)

	var items []simplifiedItem
	err := s.ladder.run(ctx, dto.GenerateRequest{
		System:      simplifySystemPrompt,
		Prompt:      "Articles:\n" + string(payload),
		Temperature: helpers.Ptr(float32(0.3)),
		JSON:        true,
	}, func(text string) error {
		raw, err := extractJSON(text)
		if err != nil {
			return err
		}
		var parsed []simplifiedItem
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return fmt.Errorf("decode simplified articles: %w", err)
		}
		if len(parsed) == 0 {
			return fmt.Errorf("no simplified articles in reply")
		}
		items = parsed
		return nil
	})
	if err != nil {
		log.Warn("simplification fell back to summaries", "articles", len(chunk), "error", err)
	}

	ok := err == nil && len(items) >= len(chunk)
	res := make([]dto.SimplifiedArticle, len(chunk))
	for i, a := range chunk {
		res[i] = fallbackArticle(a)
		if i >= len(items) {
			continue
		}
		if h := strings.TrimSpace(items[i].Headline); h != "" {
			res[i].Headline = h
		}
		if e := strings.TrimSpace(items[i].Explanation); e != "" {
			res[i].Explanation = e
		}
		res[i].Sentiment = normalizeSentiment(items[i].Sentiment)
	}
	return res, ok
}

func fallbackArticle(a news.Classified) dto.SimplifiedArticle {
	return dto.SimplifiedArticle{
		ID:          a.ID,
		Headline:    a.Headline,
		Explanation: a.Summary,
		Sentiment:   "neutral",
		Type:        string(a.Type),
		Source:      a.Source,
		URL:         a.URL,
		Image:       a.Image,
		Datetime:    a.Datetime,
		Related:     a.Related,
	}
}
