package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grocyscan/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Package-level compiled line patterns. Prices use a decimal comma ("1,99"),
// a decimal point is tolerated because OCR confuses the two.
var (
	// "<name> <price> [A|B]" at end of line
	genericItemPattern = regexp.MustCompile(`(.*?)\s+(-?\d+[,.]\d{2})\s*[AB]?\s*$`)

	// "<qty> x <rest>" at the start of a captured name
	leadingAmountPattern = regexp.MustCompile(`^(\d+)\s*(?:x|X|\*|Stk)\s+(.*)`)

	// "<name> <unit price> x <qty> <total> [A|B]" (Lidl)
	priceTimesQuantityPattern = regexp.MustCompile(`(.*?)\s+(\d+[,.]\d{2})\s*[xX*]\s*(\d+)\s+(-?\d+[,.]\d{2})\s*[AB]?\s*$`)

	// "<qty> Stk x <unit price>" on its own line (Rewe)
	quantityModifierPattern = regexp.MustCompile(`^(\d+)\s*Stk\s*[xX]?\s*(\d+[,.]\d{2})`)

	// "<name> X01 <price>" (Rewe)
	taxCodePattern = regexp.MustCompile(`(.*?)\s*X01\s*(-?\d+[,.]\d{2})`)
)

// ParseOutcome reports what a grammar made of one line
type ParseOutcome int

const (
	// NoMatch means the grammar does not apply; the next grammar may try the line
	NoMatch ParseOutcome = iota
	// Matched means the line yielded a candidate or modifier
	Matched
	// Malformed means the grammar recognized the line but a captured number is
	// invalid. The line is consumed and dropped.
	Malformed
)

// LineGrammar extracts a candidate from one line of receipt text
type LineGrammar struct {
	Name    string
	pattern *regexp.Regexp
	extract func(groups []string) (domain.ParsedCandidate, ParseOutcome)
}

// Parse returns the candidate for line together with the outcome
func (g LineGrammar) Parse(line string) (domain.ParsedCandidate, ParseOutcome) {
	groups := g.pattern.FindStringSubmatch(line)
	if groups == nil {
		return domain.ParsedCandidate{}, NoMatch
	}
	return g.extract(groups)
}

// ModifierGrammar rewrites the price and quantity of a pending candidate
type ModifierGrammar struct {
	Name    string
	pattern *regexp.Regexp
}

// Apply returns pending with the price and quantity found on line.
// On NoMatch or Malformed pending is returned unchanged.
func (g ModifierGrammar) Apply(pending domain.ParsedCandidate, line string) (domain.ParsedCandidate, ParseOutcome) {
	groups := g.pattern.FindStringSubmatch(line)
	if groups == nil {
		return pending, NoMatch
	}
	quantity, ok := parseQuantity(groups[1])
	if !ok {
		return pending, Malformed
	}
	price, err := parsePrice(groups[2])
	if err != nil {
		return pending, Malformed
	}
	return domain.ParsedCandidate{Name: pending.Name, UnitPrice: price, Quantity: quantity}, Matched
}

var genericGrammar = LineGrammar{
	Name:    "generic",
	pattern: genericItemPattern,
	extract: func(groups []string) (domain.ParsedCandidate, ParseOutcome) {
		price, err := parsePrice(groups[2])
		if err != nil {
			return domain.ParsedCandidate{}, Malformed
		}
		name, quantity, ok := splitLeadingAmount(strings.TrimSpace(groups[1]))
		if !ok {
			return domain.ParsedCandidate{}, Malformed
		}
		return domain.ParsedCandidate{Name: name, UnitPrice: price, Quantity: quantity}, Matched
	},
}

var priceTimesQuantityGrammar = LineGrammar{
	Name:    "price-times-quantity",
	pattern: priceTimesQuantityPattern,
	extract: func(groups []string) (domain.ParsedCandidate, ParseOutcome) {
		price, err := parsePrice(groups[2])
		if err != nil {
			return domain.ParsedCandidate{}, Malformed
		}
		quantity, ok := parseQuantity(groups[3])
		if !ok {
			return domain.ParsedCandidate{}, Malformed
		}
		return domain.ParsedCandidate{Name: strings.TrimSpace(groups[1]), UnitPrice: price, Quantity: quantity}, Matched
	},
}

var taxCodeGrammar = LineGrammar{
	Name:    "tax-code",
	pattern: taxCodePattern,
	extract: func(groups []string) (domain.ParsedCandidate, ParseOutcome) {
		price, err := parsePrice(groups[2])
		if err != nil {
			return domain.ParsedCandidate{}, Malformed
		}
		return domain.ParsedCandidate{Name: strings.TrimSpace(groups[1]), UnitPrice: price, Quantity: 1}, Matched
	},
}

var quantityModifierGrammar = &ModifierGrammar{
	Name:    "quantity-modifier",
	pattern: quantityModifierPattern,
}

// splitLeadingAmount pulls a "3 x" style multiplier off the front of a name.
// ok is false when a multiplier is present but is not a positive integer.
func splitLeadingAmount(rawName string) (string, int, bool) {
	groups := leadingAmountPattern.FindStringSubmatch(rawName)
	if groups == nil {
		return rawName, 1, true
	}
	quantity, ok := parseQuantity(groups[1])
	if !ok {
		return "", 0, false
	}
	return strings.TrimSpace(groups[2]), quantity, true
}

// parsePrice converts a decimal-comma amount such as "-1,50" into a decimal
func parsePrice(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
}

// parseQuantity accepts positive integer quantities only
func parseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
