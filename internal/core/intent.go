package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	destTag = "dest="
	catTag  = "cat="

	// DefaultDescription is used when the message carries only an amount.
	DefaultDescription = "Unknown"
)

// Intent is the structured form of one raw expense message. Destination and
// Category hold unresolved name fragments and may be empty.
type Intent struct {
	Amount      decimal.Decimal
	Description string
	Destination string
	Category    string
}

// ParseIntent turns a raw message like "12.50 coffee, dest=Market, cat=food"
// into an Intent.
//
// The message is split on commas. Segments tagged dest= or cat= become the
// destination and category fragments (the last occurrence wins); everything
// else is rejoined with ", " into a free-text buffer. The buffer's first
// whitespace-separated token must be a decimal amount, optionally with a
// currency symbol affixed; the remainder, if any, is the description.
func ParseIntent(raw string) (Intent, error) {
	var intent Intent
	var free []string
	for _, segment := range strings.Split(strings.TrimSpace(raw), ",") {
		segment = strings.TrimSpace(segment)
		switch {
		case strings.HasPrefix(segment, destTag):
			intent.Destination = strings.TrimPrefix(segment, destTag)
		case strings.HasPrefix(segment, catTag):
			intent.Category = strings.TrimPrefix(segment, catTag)
		case segment != "":
			free = append(free, segment)
		}
	}

	buffer := strings.Join(free, ", ")
	if buffer == "" {
		return Intent{}, &ParseError{Raw: raw, Err: ErrNoAmount}
	}

	token, rest := splitFirstField(buffer)
	amount, err := parseAmount(token)
	if err != nil {
		return Intent{}, &ParseError{Raw: raw, Err: err}
	}

	intent.Amount = amount
	intent.Description = DefaultDescription
	if rest != "" {
		intent.Description = rest
	}
	return intent, nil
}

// splitFirstField splits s at the first whitespace run into at most two
// parts, trimming the second.
func splitFirstField(s string) (first, rest string) {
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

// parseAmount parses the leading amount token. Affixed currency symbols
// ("12€", "$12") carry no information and are stripped before parsing;
// everything else, sign included, must survive the decimal parse or the
// token is rejected.
func parseAmount(token string) (decimal.Decimal, error) {
	token = strings.TrimFunc(token, func(r rune) bool {
		return unicode.Is(unicode.Sc, r)
	})
	if token == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}
