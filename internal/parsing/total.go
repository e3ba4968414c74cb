package parsing

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTotalKeywords covers English and Thai receipts
var DefaultTotalKeywords = []string{
	"total",
	"รวม",
	"ยอดรวม",
	"sum",
	"subtotal",
	"grand total",
	"net",
	"amount",
	"ทั้งหมด",
}

const (
	minTrailingLines  = 5
	trailingFraction  = 5
	trailingTolerance = 0.1
)

// TotalStrategy is one link of the total resolution chain
type TotalStrategy struct {
	Name    string
	Resolve func(lines []Line, items []Item) (float64, bool)
}

// DefaultTotalStrategies returns the resolution chain in evaluation order
func DefaultTotalStrategies(keywords []string) []TotalStrategy {
	return []TotalStrategy{
		KeywordTotal(keywords),
		TrailingTotal(),
		ItemsSumTotal(),
		ZeroTotal(),
	}
}

// ResolveTotal evaluates the strategies in order and returns the first value
// produced together with the name of the strategy that produced it.
func ResolveTotal(strategies []TotalStrategy, lines []Line, items []Item) (float64, string) {
	for _, s := range strategies {
		if total, ok := s.Resolve(lines, items); ok {
			return total, s.Name
		}
	}
	return 0, ""
}

// KeywordTotal reads the price off the lowest line that mentions a total
// keyword and carries a price. Keyword lines without one are passed over.
func KeywordTotal(keywords []string) TotalStrategy {
	lower := cases.Lower(language.Und)
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(lower.String(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}

	return TotalStrategy{
		Name: "keyword",
		Resolve: func(lines []Line, _ []Item) (float64, bool) {
			// Casers are stateful and must not be shared between goroutines
			lower := cases.Lower(language.Und)
			for i := len(lines) - 1; i >= 0; i-- {
				text := lower.String(lines[i].Text)
				if !containsAny(text, normalized) {
					continue
				}
				if price, ok := LinePrice(lines[i].Text); ok && price > 0 {
					return price, true
				}
			}
			return 0, false
		},
	}
}

// TrailingTotal takes the largest price near the foot of the receipt when it
// agrees with the item sum to within 10%.
func TrailingTotal() TotalStrategy {
	return TotalStrategy{
		Name: "trailing",
		Resolve: func(lines []Line, items []Item) (float64, bool) {
			maxPrice, found := 0.0, false
			for _, line := range trailingLines(lines) {
				price, ok := LinePrice(line.Text)
				if !ok {
					continue
				}
				if !found || price > maxPrice {
					maxPrice = price
					found = true
				}
			}
			if !found {
				return 0, false
			}

			sum := itemsSum(items)
			if sum > 0 && math.Abs(maxPrice-sum)/sum < trailingTolerance {
				return maxPrice, true
			}
			return 0, false
		},
	}
}

// ItemsSumTotal adds up the item totals
func ItemsSumTotal() TotalStrategy {
	return TotalStrategy{
		Name: "items_sum",
		Resolve: func(_ []Line, items []Item) (float64, bool) {
			if len(items) == 0 {
				return 0, false
			}
			return itemsSum(items), true
		},
	}
}

// ZeroTotal always succeeds with 0
func ZeroTotal() TotalStrategy {
	return TotalStrategy{
		Name: "zero",
		Resolve: func(_ []Line, _ []Item) (float64, bool) {
			return 0, true
		},
	}
}

// trailingLines returns the last max(5, ceil(n/5)) lines
func trailingLines(lines []Line) []Line {
	n := (len(lines) + trailingFraction - 1) / trailingFraction
	if n < minTrailingLines {
		n = minTrailingLines
	}
	if n > len(lines) {
		n = len(lines)
	}
	return lines[len(lines)-n:]
}

func itemsSum(items []Item) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return sum
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
