package receipt

import (
	"time"

	"github.com/zombor/slip-ocr/internal/parsing"
)

// Scan is one processed slip upload. The parse result fields are inlined so
// the JSON carries items, total_amount, item_count and raw_text at the top level.
type Scan struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	TotalStrategy string    `json:"total_strategy"`
	CreatedAt     time.Time `json:"created_at"`

	*parsing.Result
}
