// Package rotation sends one logical request through an ordered list of API
// keys, moving on only when a key is refused for quota or permission reasons.
package rotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

var (
	ErrNoKeys        = errors.New("rotation: no api keys configured")
	ErrKeysExhausted = errors.New("rotation: all api keys exhausted")
)

// StatusError is a terminal non-2xx response that is not a quota refusal.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rotation: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BuildFunc creates the request for a single key.
type BuildFunc func(ctx context.Context, key string) (*http.Request, error)

// Fetch tries keys in order and decodes the first 2xx JSON body into out.
// 403 and 429 advance to the next key; any other failure stops immediately.
func Fetch(ctx context.Context, client Doer, keys []string, build BuildFunc, out any) error {
	log := logger.FromContext(ctx)

	tried := 0
	for i, key := range keys {
		if key == "" {
			continue
		}
		tried++

		req, err := build(ctx, key)
		if err != nil {
			return fmt.Errorf("rotation: build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("rotation: request failed: %w", err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("rotation: decode response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			log.Warn("api key refused, rotating",
				"key_index", i,
				"status", resp.StatusCode,
				"host", req.URL.Host)
			continue

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
	}

	if tried == 0 {
		return ErrNoKeys
	}
	return ErrKeysExhausted
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
