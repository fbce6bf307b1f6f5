package geminiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Gemini REST API with API keys. Each key is exposed as its
// own generator so callers can walk them in order.
type Client struct {
	http    Doer
	baseURL string
	model   string
	keys    []string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

func New(model string, keys []string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		baseURL: DefaultBaseURL,
		model:   model,
	}
	for _, k := range keys {
		if k != "" {
			c.keys = append(c.keys, k)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generators returns one generator per configured key, in key order.
func (c *Client) Generators() []*KeyedGenerator {
	out := make([]*KeyedGenerator, 0, len(c.keys))
	for i, k := range c.keys {
		out = append(out, &KeyedGenerator{client: c, key: k, name: fmt.Sprintf("gemini-key-%d", i+1)})
	}
	return out
}

type KeyedGenerator struct {
	client *Client
	key    string
	name   string
}

func (g *KeyedGenerator) Name() string { return g.name }

func (g *KeyedGenerator) Generate(ctx context.Context, req dto.GenerateRequest) (string, error) {
	return g.client.generate(ctx, g.key, req)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, key string, req dto.GenerateRequest) (string, error) {
	if req.Prompt == "" {
		return "", fmt.Errorf("gemini generate request has no prompt")
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}
	if req.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	if req.Temperature != nil || req.JSON {
		body.GenerationConfig = &generationConfig{Temperature: req.Temperature}
		if req.JSON {
			body.GenerationConfig.ResponseMimeType = "application/json"
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", key)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", errs.NewExternalServiceError("gemini", "request failed", true, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errs.NewRateLimitedError("gemini")
	case resp.StatusCode == http.StatusForbidden:
		return "", errs.NewExternalServiceError("gemini", "api key rejected", false, nil)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.NewExternalServiceError("gemini",
			fmt.Sprintf("status %d: %s", resp.StatusCode, snippet),
			resp.StatusCode >= 500, nil)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.NewExternalServiceError("gemini", "failed to decode response", false, err)
	}

	var text strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	if text.Len() == 0 {
		return "", errs.NewExternalServiceError("gemini", "empty response", false, nil)
	}
	return text.String(), nil
}
