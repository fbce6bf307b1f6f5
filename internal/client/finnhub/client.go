package finnhubclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/stak-backend/internal/client/rotation"
	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/news"
)

const DefaultBaseURL = "https://finnhub.io/api/v1"

type Client struct {
	http    rotation.Doer
	baseURL string
	keys    []string
}

func New(keys []string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: DefaultBaseURL,
		keys:    keys,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(d rotation.Doer) Option {
	return func(c *Client) { c.http = d }
}

type newsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

type quote struct {
	C  decimal.Decimal `json:"c"`
	D  decimal.Decimal `json:"d"`
	DP decimal.Decimal `json:"dp"`
	H  decimal.Decimal `json:"h"`
	L  decimal.Decimal `json:"l"`
	O  decimal.Decimal `json:"o"`
	PC decimal.Decimal `json:"pc"`
	T  int64           `json:"t"`
}

type profile struct {
	Country              string          `json:"country"`
	Currency             string          `json:"currency"`
	Exchange             string          `json:"exchange"`
	FinnhubIndustry      string          `json:"finnhubIndustry"`
	IPO                  string          `json:"ipo"`
	Logo                 string          `json:"logo"`
	MarketCapitalization decimal.Decimal `json:"marketCapitalization"`
	Name                 string          `json:"name"`
	Ticker               string          `json:"ticker"`
	WebURL               string          `json:"weburl"`
}

// MarketNews returns Finnhub's general news feed.
func (c *Client) MarketNews(ctx context.Context) ([]news.Article, error) {
	var items []newsItem
	if err := c.get(ctx, "/news", url.Values{"category": {"general"}}, &items); err != nil {
		return nil, err
	}
	return toArticles(items), nil
}

// CompanyNews returns news for symbol published between from and to (inclusive dates).
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]news.Article, error) {
	q := url.Values{
		"symbol": {symbol},
		"from":   {from.Format("2006-01-02")},
		"to":     {to.Format("2006-01-02")},
	}
	var items []newsItem
	if err := c.get(ctx, "/company-news", q, &items); err != nil {
		return nil, err
	}
	return toArticles(items), nil
}

func (c *Client) Quote(ctx context.Context, symbol string) (dto.Quote, error) {
	var q quote
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &q); err != nil {
		return dto.Quote{}, err
	}
	return dto.Quote{
		Current:       q.C,
		Change:        q.D,
		PercentChange: q.DP,
		High:          q.H,
		Low:           q.L,
		Open:          q.O,
		PrevClose:     q.PC,
		Timestamp:     q.T,
	}, nil
}

// Profile returns nil when Finnhub has no profile for symbol.
func (c *Client) Profile(ctx context.Context, symbol string) (*dto.CompanyProfile, error) {
	var p profile
	if err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &p); err != nil {
		return nil, err
	}
	if p.Name == "" && p.Ticker == "" {
		return nil, nil
	}
	return &dto.CompanyProfile{
		Name:      p.Name,
		Ticker:    p.Ticker,
		Exchange:  p.Exchange,
		Industry:  p.FinnhubIndustry,
		Country:   p.Country,
		Currency:  p.Currency,
		Logo:      p.Logo,
		WebURL:    p.WebURL,
		IPO:       p.IPO,
		MarketCap: p.MarketCapitalization,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()
	build := func(ctx context.Context, key string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Finnhub-Token", key)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	err := rotation.Fetch(ctx, c.http, c.keys, build, out)
	if err == nil {
		return nil
	}

	var statusErr *rotation.StatusError
	switch {
	case errors.Is(err, rotation.ErrNoKeys):
		return errs.NewExternalServiceError("finnhub", "no api keys configured", false, err)
	case errors.Is(err, rotation.ErrKeysExhausted):
		return errs.NewExternalServiceError("finnhub", "api keys exhausted", true, err)
	case errors.As(err, &statusErr):
		return errs.NewExternalServiceError("finnhub", fmt.Sprintf("%s returned %d", path, statusErr.StatusCode), statusErr.StatusCode >= 500, err)
	default:
		return errs.NewExternalServiceError("finnhub", path+" request failed", true, err)
	}
}

func toArticles(items []newsItem) []news.Article {
	out := make([]news.Article, 0, len(items))
	for _, it := range items {
		if it.Headline == "" {
			continue
		}
		out = append(out, news.Article{
			ID:       strconv.FormatInt(it.ID, 10),
			Headline: it.Headline,
			Summary:  it.Summary,
			Source:   it.Source,
			URL:      it.URL,
			Image:    it.Image,
			Datetime: it.Datetime,
			Related:  splitRelated(it.Related),
		})
	}
	return out
}

func splitRelated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
