package rssclient

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/mrz1836/go-sanitize"

	"github.com/GregMSThompson/stak-backend/internal/errs"
	"github.com/GregMSThompson/stak-backend/internal/news"
)

const DefaultSearchURL = "https://news.google.com/rss/search"

// Client searches Google News through its public RSS endpoint.
type Client struct {
	parser    *gofeed.Parser
	searchURL string
	now       func() time.Time
}

type Option func(*Client)

func WithSearchURL(u string) Option {
	return func(c *Client) { c.searchURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.parser.Client = hc }
}

func New(opts ...Option) *Client {
	p := gofeed.NewParser()
	p.UserAgent = "stak-backend/1.0"
	p.Client = &http.Client{Timeout: 10 * time.Second}

	c := &Client{parser: p, searchURL: DefaultSearchURL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Search(ctx context.Context, query string) ([]news.Article, error) {
	q := url.Values{
		"q":    {query},
		"hl":   {"en-US"},
		"gl":   {"US"},
		"ceid": {"US:en"},
	}

	feed, err := c.parser.ParseURLWithContext(c.searchURL+"?"+q.Encode(), ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
			return nil, errs.NewRateLimitedError("google-news")
		}
		return nil, errs.NewExternalServiceError("google-news", "rss search failed", true, err)
	}

	out := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		headline, source := splitTitle(sanitize.HTML(item.Title))
		if headline == "" {
			continue
		}
		if source == "" {
			source = hostOf(item.Link)
		}

		published := c.now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		out = append(out, news.Article{
			ID:       articleID(item),
			Headline: headline,
			Summary:  descriptionText(item.Description, headline, source),
			Source:   source,
			URL:      item.Link,
			Datetime: published.Unix(),
		})
	}
	return out, nil
}

// Google News titles end with " - Publisher".
func splitTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if i := strings.LastIndex(title, " - "); i > 0 {
		return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
	}
	return title, ""
}

// descriptionText flattens the HTML description. Google News descriptions often
// only repeat the headline and source, in which case the result is empty.
func descriptionText(desc, headline, source string) string {
	if desc == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	text = strings.TrimSpace(strings.TrimSuffix(text, source))
	if strings.EqualFold(text, headline) {
		return ""
	}
	return text
}

func articleID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	sum := sha1.Sum([]byte(item.Link))
	return hex.EncodeToString(sum[:])
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
