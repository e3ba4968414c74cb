package parsing

import "github.com/shopspring/decimal"

// Parser turns OCR documents into receipt results. It holds no mutable state
// and may be shared between goroutines.
type Parser struct {
	strategies []TotalStrategy
}

// NewParser creates a Parser using the given total keywords. A nil or empty
// list selects DefaultTotalKeywords.
func NewParser(totalKeywords []string) *Parser {
	if len(totalKeywords) == 0 {
		totalKeywords = DefaultTotalKeywords
	}
	return &Parser{
		strategies: DefaultTotalStrategies(totalKeywords),
	}
}

// NewParserWithStrategies creates a Parser with a custom total chain
func NewParserWithStrategies(strategies []TotalStrategy) *Parser {
	return &Parser{strategies: strategies}
}

// Parse extracts items and a total from the document. Unrecognizable input
// yields an empty item list and a zero total.
func (p *Parser) Parse(doc *Document) *Result {
	if doc == nil {
		doc = &Document{}
	}

	lines := ExtractLines(doc)
	if len(lines) == 0 {
		lines = FallbackLines(doc.Text)
	}

	items := ExtractItems(lines)
	total, source := ResolveTotal(p.strategies, lines, items)

	return &Result{
		Items:       items,
		TotalAmount: roundAmount(total),
		ItemCount:   len(items),
		RawText:     doc.Text,
		TotalSource: source,
	}
}

func roundAmount(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
