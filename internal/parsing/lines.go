package parsing

import (
	"cmp"
	"slices"
	"strings"
)

// ExtractLines turns every paragraph of the document into a Line, sorted top
// to bottom. It returns nil when the document carries no layout pages.
func ExtractLines(doc *Document) []Line {
	if doc == nil || len(doc.Pages) == 0 {
		return nil
	}

	var lines []Line
	for _, page := range doc.Pages {
		for _, block := range page.Blocks {
			for _, paragraph := range block.Paragraphs {
				x, y := centroid(paragraph.Vertices)
				lines = append(lines, Line{
					Text:       paragraphText(paragraph),
					Confidence: paragraph.Confidence,
					Y:          y,
					X:          x,
				})
			}
		}
	}

	sortLines(lines)
	return lines
}

// FallbackLines splits flat OCR text into lines. Y is the line index so the
// text order survives sorting.
func FallbackLines(text string) []Line {
	parts := strings.Split(text, "\n")
	lines := make([]Line, 0, len(parts))
	for i, part := range parts {
		lines = append(lines, Line{
			Text:       part,
			Confidence: 1.0,
			Y:          float64(i),
			X:          0,
		})
	}
	return lines
}

func paragraphText(p Paragraph) string {
	var b strings.Builder
	for _, word := range p.Words {
		for _, symbol := range word.Symbols {
			b.WriteString(symbol.Text)
		}
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func centroid(vertices []Vertex) (float64, float64) {
	if len(vertices) == 0 {
		return 0, 0
	}
	var sumX, sumY float64
	for _, v := range vertices {
		sumX += v.X
		sumY += v.Y
	}
	n := float64(len(vertices))
	return sumX / n, sumY / n
}

func sortLines(lines []Line) {
	slices.SortStableFunc(lines, func(a, b Line) int {
		return cmp.Compare(a.Y, b.Y)
	})
}
