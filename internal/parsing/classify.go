package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	minQuantity = 1
	maxQuantity = 999

	minPrice = 0.01
	maxPrice = 999999
)

// Kind tags the outcome of classifying a token
type Kind int

const (
	KindNone Kind = iota
	KindQuantity
	KindPrice
)

// Class is a tagged classification outcome
type Class struct {
	Kind     Kind
	Quantity int
	Price    float64
}

// rule is one ordered classification shape. The first capture group holds
// the numeric part.
type rule struct {
	name    string
	pattern *regexp.Regexp
}

var quantityRules = []rule{
	{name: "count_marker", pattern: regexp.MustCompile(`^(\d+)\s*[xX×]`)},
	{name: "marker_count", pattern: regexp.MustCompile(`^[xX×]\s*(\d+)`)},
	{name: "bare_integer", pattern: regexp.MustCompile(`^(\d+)$`)},
}

var priceRules = []rule{
	{name: "grouped_thousands", pattern: regexp.MustCompile(`^(\d{1,3}(?:,\d{3})+(?:\.\d{0,2})?)$`)},
	{name: "plain_decimal", pattern: regexp.MustCompile(`^(\d+(?:\.\d{0,2})?)$`)},
}

var (
	// affixedPricePattern finds a price glued to non-digit text, as in
	// "$2.00", "12.50THB" or "TOTAL:12.50".
	affixedPricePattern = regexp.MustCompile(`^(\D*)(\d{1,3}(?:,\d{3})+(?:\.\d{0,2})?|\d+(?:\.\d{0,2})?)(\D*)$`)
	// countMarkerPattern matches quantity shapes such as "2x" or "x12"
	countMarkerPattern = regexp.MustCompile(`^(?:\d+\s*[xX×]|[xX×]\s*\d)`)
)

// tokenPunctuation is stripped from both ends of a token before price
// classification, so "12.50," or "(3.00)" still read as prices.
const tokenPunctuation = "()[]{}:;*,"

// ClassifyQuantity reports the quantity a token denotes, if any
func ClassifyQuantity(token string) (int, bool) {
	token = strings.TrimSpace(token)
	for _, r := range quantityRules {
		m := r.pattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if qty >= minQuantity && qty <= maxQuantity {
			return qty, true
		}
	}
	return 0, false
}

// ClassifyPrice reports the monetary value a token denotes, if any. A bare
// number is tried first, then a number carrying a currency sign, unit or
// label.
func ClassifyPrice(token string) (float64, bool) {
	token = strings.Trim(strings.TrimSpace(token), tokenPunctuation)
	for _, r := range priceRules {
		m := r.pattern.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		if price, ok := parsePrice(m[1]); ok {
			return price, true
		}
	}
	return affixedPrice(token)
}

func affixedPrice(token string) (float64, bool) {
	if countMarkerPattern.MatchString(token) {
		return 0, false
	}
	m := affixedPricePattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	prefix, number, suffix := m[1], m[2], m[3]

	// Words on both sides ("Coke500ml") or a whole number next to letters
	// only ("500ml", "xyz123") are names, not prices.
	if hasLetter(prefix) && hasLetter(suffix) {
		return 0, false
	}
	if !strings.Contains(number, ".") && lettersOnly(prefix+suffix) {
		return 0, false
	}
	return parsePrice(number)
}

func parsePrice(s string) (float64, bool) {
	price, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if price < minPrice || price > maxPrice {
		return 0, false
	}
	return price, true
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Classify tests quantity before price
func Classify(token string) Class {
	if qty, ok := ClassifyQuantity(token); ok {
		return Class{Kind: KindQuantity, Quantity: qty}
	}
	if price, ok := ClassifyPrice(token); ok {
		return Class{Kind: KindPrice, Price: price}
	}
	return Class{Kind: KindNone}
}

// LinePrice returns the first token of text that classifies as a price
func LinePrice(text string) (float64, bool) {
	for _, token := range strings.Fields(text) {
		if price, ok := ClassifyPrice(token); ok {
			return price, true
		}
	}
	return 0, false
}

// LineQuantity classifies a whole line as a quantity, so a count prefix
// ("2x 3.50") or a line holding only an integer qualifies.
func LineQuantity(text string) (int, bool) {
	return ClassifyQuantity(text)
}
