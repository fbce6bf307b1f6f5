package news

// Type is the coarse category an article is filed under.
type Type string

const (
	Macro   Type = "macro"
	Sector  Type = "sector"
	Company Type = "company"
)

// Article is the provider-neutral shape produced by the Finnhub and RSS clients.
type Article struct {
	ID       string
	Headline string
	Summary  string
	Source   string
	URL      string
	Image    string
	Datetime int64
	Related  []string
}

type Classified struct {
	Article
	Type Type
}
