package dto

type SimplifiedArticle struct {
	ID          string   `json:"id"`
	Headline    string   `json:"headline"`
	Explanation string   `json:"explanation"`
	Sentiment   string   `json:"sentiment"` // bullish, bearish, neutral
	Type        string   `json:"type"`      // macro, sector, company
	Source      string   `json:"source"`
	URL         string   `json:"url"`
	Image       string   `json:"image,omitempty"`
	Datetime    int64    `json:"datetime"`
	Related     []string `json:"related,omitempty"`
}
