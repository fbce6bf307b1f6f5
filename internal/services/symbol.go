package services

import (
	"regexp"
	"strings"

	"github.com/GregMSThompson/stak-backend/internal/errs"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// normalizeSymbol upper-cases a ticker and rejects anything Finnhub would not accept.
func normalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", errs.NewValidationError("symbol is required")
	}
	if !symbolPattern.MatchString(s) {
		return "", errs.NewValidationError("invalid symbol")
	}
	return s, nil
}
