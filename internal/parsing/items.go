package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// numberPattern counts number-like runs when deciding whether a line
	// carries its own prices.
	numberPattern = regexp.MustCompile(`\d+\.?\d{0,2}`)

	// numericOnlyPattern matches lines made of digits and punctuation only
	numericOnlyPattern = regexp.MustCompile(`^[\d\s.,\-/:()]+$`)
)

var separatorTokens = map[string]bool{
	"@": true,
	"x": true,
	"X": true,
	"×": true,
	"-": true,
	"|": true,
}

const minLineLength = 2

// ExtractItems scans the lines once, top to bottom. A line holding two or
// more numbers is parsed on its own; otherwise a text line may take its
// price from the line directly below it.
func ExtractItems(lines []Line) []Item {
	items := []Item{}

	i := 0
	for i < len(lines) {
		text := strings.TrimSpace(lines[i].Text)

		if utf8.RuneCountInString(text) < minLineLength {
			i++
			continue
		}

		if len(numberPattern.FindAllString(text, -1)) >= 2 {
			if item, ok := selfContainedItem(text); ok {
				items = append(items, item)
			}
			i++
			continue
		}

		if !numericOnlyPattern.MatchString(text) && i+1 < len(lines) {
			if item, ok := lookaheadItem(text, strings.TrimSpace(lines[i+1].Text)); ok {
				items = append(items, item)
				i += 2
				continue
			}
		}

		i++
	}

	return items
}

// selfContainedItem reads "[name] [qty] [@] [unit price] [total]" shaped lines
func selfContainedItem(text string) (Item, bool) {
	var (
		name      []string
		quantity  int
		unitPrice float64
		total     float64
		haveQty   bool
		haveUnit  bool
		haveTotal bool
	)

	for _, token := range strings.Fields(text) {
		if !haveQty {
			if qty, ok := ClassifyQuantity(token); ok {
				quantity = qty
				haveQty = true
				continue
			}
		}

		if price, ok := ClassifyPrice(token); ok {
			switch {
			case !haveUnit:
				unitPrice = price
				haveUnit = true
			case !haveTotal:
				total = price
				haveTotal = true
			}
			continue
		}

		if separatorTokens[token] {
			continue
		}

		name = append(name, token)
	}

	if len(name) == 0 || !haveUnit {
		return Item{}, false
	}
	if !haveQty {
		quantity = 1
	}
	if !haveTotal {
		total = unitPrice * float64(quantity)
	}

	return Item{
		Name:      strings.TrimSpace(strings.Join(name, " ")),
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     total,
	}, true
}

// lookaheadItem pairs a name line with the price line that follows it
func lookaheadItem(name, next string) (Item, bool) {
	price, ok := LinePrice(next)
	if !ok {
		return Item{}, false
	}
	qty, ok := LineQuantity(next)
	if !ok {
		qty = 1
	}
	return Item{
		Name:      name,
		Quantity:  qty,
		UnitPrice: price,
		Total:     price * float64(qty),
	}, true
}
