package news

import (
	"regexp"
	"strings"
	"sync"
)

var financeTerms = []string{
	"stock", "share", "market", "earnings", "revenue", "profit", "investor",
	"dividend", "ipo", "nasdaq", "nyse", "s&p", "dow", "valuation", "merger",
	"acquisition", "sponsorship deal", "quarter", "guidance", "analyst",
	"sales", "bond", "fed", "inflation", "economy",
}

var sportsTerms = []string{
	"nfl", "nba", "mlb", "nhl", "premier league", "touchdown", "playoff",
	"quarterback", "world cup", "championship", "super bowl", "olympic",
	"tournament", "match highlights", "coach", "transfer window",
}

var macroTerms = []string{
	"federal reserve", "fed ", "interest rate", "inflation", "cpi", "gdp",
	"recession", "unemployment", "jobs report", "treasury", "tariff",
	"central bank", "economy", "economic", "monetary policy", "yield",
}

var sectorTerms = []string{
	"sector", "industry", "semiconductor", "chipmaker", "retail", "automaker",
	"airline", "banks", "energy", "oil", "tech stocks", "pharma", "biotech",
	"streaming", "consumer goods", "e-commerce", "peers", "competitors",
}

// Classify tags an article for ticker (which may be empty). ok is false when the
// article reads as sports coverage with no finance angle.
func Classify(a Article, ticker string) (Type, bool) {
	raw := a.Headline + " " + a.Summary
	text := strings.ToLower(raw)

	if containsAny(text, sportsTerms) && !containsAny(text, financeTerms) {
		return "", false
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker != "" && tickerPattern(ticker).MatchString(raw) {
		return Company, true
	}
	if containsAny(text, macroTerms) {
		return Macro, true
	}
	if containsAny(text, sectorTerms) {
		return Sector, true
	}
	if ticker != "" {
		return Company, true
	}
	return Macro, true
}

// Filter classifies articles and keeps the relevant ones in their original order.
func Filter(articles []Article, ticker string) []Classified {
	out := make([]Classified, 0, len(articles))
	for _, a := range articles {
		t, ok := Classify(a, ticker)
		if !ok {
			continue
		}
		out = append(out, Classified{Article: a, Type: t})
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// tickerPatterns caches one compiled pattern per ticker.
var tickerPatterns sync.Map

// tickerPattern matches a mention of ticker. Tickers of one or two letters
// collide with ordinary words, so they only count when written as $T, (T) or
// after an exchange prefix. Longer tickers match as a whole word in any case.
func tickerPattern(ticker string) *regexp.Regexp {
	if re, ok := tickerPatterns.Load(ticker); ok {
		return re.(*regexp.Regexp)
	}
	q := regexp.QuoteMeta(ticker)
	expr := `(?i)(^|[^a-z0-9])` + q + `([^a-z0-9]|$)`
	if len(ticker) <= 2 {
		expr = `(\$` + q + `|\(` + q + `\)|(?i:nyse|nasdaq):\s*` + q + `)([^A-Za-z0-9]|$)`
	}
	re, _ := tickerPatterns.LoadOrStore(ticker, regexp.MustCompile(expr))
	return re.(*regexp.Regexp)
}
