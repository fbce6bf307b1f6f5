package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

// TextGenerator is one entry in the fallback ladder: a single Gemini key or the
// Vertex model.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req dto.GenerateRequest) (string, error)
}

var errAllGeneratorsFailed = errors.New("all text generators failed")

// ladder walks generators in order. A rate-limited generator is retried once
// after delay; any other failure, including an unparseable reply, moves on.
type ladder struct {
	generators []TextGenerator
	delay      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func newLadder(generators []TextGenerator, delay time.Duration) ladder {
	return ladder{generators: generators, delay: delay, sleep: sleepCtx}
}

func (l ladder) run(ctx context.Context, req dto.GenerateRequest, parse func(string) error) error {
	log := logger.FromContext(ctx)

	for _, gen := range l.generators {
		text, err := gen.Generate(ctx, req)

		var limited *errs.RateLimitedError
		if errors.As(err, &limited) {
			log.Warn("generator rate limited, retrying once", "generator", gen.Name(), "delay", l.delay)
			if serr := l.sleep(ctx, l.delay); serr != nil {
				return serr
			}
			text, err = gen.Generate(ctx, req)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("generator failed", "generator", gen.Name(), "error", err)
			continue
		}

		if err := parse(text); err != nil {
			log.Warn("generator reply unusable", "generator", gen.Name(), "error", err)
			continue
		}
		return nil
	}
	return errAllGeneratorsFailed
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// extractJSON strips markdown code fences some models wrap around JSON replies.
func extractJSON(text string) (string, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return "", fmt.Errorf("empty reply")
	}
	return s, nil
}

func normalizeSentiment(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "bullish", "bearish", "neutral":
		return v
	case "positive":
		return "bullish"
	case "negative":
		return "bearish"
	default:
		return "neutral"
	}
}
