package expense

import "time"

// LineItem is the canonical line-item record used from extraction through
// cleaning through categorization; the JSON field names are the wire schema.
type LineItem struct {
	ProductName  string  `json:"productName"`
	Price        float64 `json:"price"`
	Quantity     float64 `json:"quantity"`
	CategoryName *string `json:"categoryName,omitempty"`
}

// Journal entry statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JournalEntry records one processed request for debugging. A journal entry
// and the debug artifacts it points at are the only things that outlive a
// request.
type JournalEntry struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	SourceFile string    `json:"source_file"`
	StoredFile string    `json:"stored_file"`
	ItemCount  int       `json:"item_count"`
	DurationMS int64     `json:"duration_ms"`
	Status     string    `json:"status"`
	// Extraction holds the degradation reason when extraction came back
	// empty-handed (no_text, malformed_completion, model_unavailable).
	Extraction string `json:"extraction_reason,omitempty"`
	Failure    string `json:"failure,omitempty"`
}
