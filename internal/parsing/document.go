package parsing

// Document is a snapshot of one OCR response. Pages holds the hierarchical
// layout when the engine supplies one; Text is always the flat transcription.
type Document struct {
	Pages []Page
	Text  string
}

// Page is the top level of the OCR layout tree
type Page struct {
	Blocks []Block
}

// Block groups paragraphs
type Block struct {
	Paragraphs []Paragraph
}

// Paragraph is the unit that becomes one Line
type Paragraph struct {
	Words      []Word
	Vertices   []Vertex
	Confidence float64
}

// Word is a run of symbols
type Word struct {
	Symbols []Symbol
}

// Symbol is a single recognized character (or grapheme)
type Symbol struct {
	Text string
}

// Vertex is a corner of a bounding region in image coordinates
type Vertex struct {
	X float64
	Y float64
}

// Line is one position-annotated text unit extracted from a Document
type Line struct {
	Text       string
	Confidence float64
	Y          float64
	X          float64
}

// Item is a purchased line item
type Item struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Result is the outcome of parsing one Document
type Result struct {
	Items       []Item  `json:"items"`
	TotalAmount float64 `json:"total_amount"`
	ItemCount   int     `json:"item_count"`
	RawText     string  `json:"raw_text"`

	// TotalSource names the total strategy that produced TotalAmount.
	TotalSource string `json:"-"`
}
