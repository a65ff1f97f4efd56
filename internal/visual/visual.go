// Package visual renders best-effort debug summaries of pipeline runs.
package visual

import (
	"fmt"
	"os"
	"strings"

	"github.com/BajorskiPatrick/SmartReceipt/internal/expense"
)

// SummaryWriter writes a plain-text report comparing the items as extracted
// with the items as returned, next to the stored receipt image.
type SummaryWriter struct{}

// NewSummaryWriter creates a SummaryWriter.
func NewSummaryWriter() *SummaryWriter {
	return &SummaryWriter{}
}

// CreateSummary writes the report to outputPath.
func (v *SummaryWriter) CreateSummary(originalPath string, raw, final []expense.LineItem, outputPath string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "receipt: %s\n", originalPath)
	fmt.Fprintf(&b, "extracted: %d  returned: %d\n\n", len(raw), len(final))

	b.WriteString("-- extracted --\n")
	writeItems(&b, raw)

	b.WriteString("\n-- returned --\n")
	writeItems(&b, final)

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func writeItems(b *strings.Builder, items []expense.LineItem) {
	if len(items) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, it := range items {
		category := "-"
		if it.CategoryName != nil {
			category = *it.CategoryName
		}
		fmt.Fprintf(b, "%-40s %8.2f x%.1f  %s\n", it.ProductName, it.Price, it.Quantity, category)
	}
}

// Noop discards summaries; used when visualization is disabled.
type Noop struct{}

// CreateSummary does nothing.
func (Noop) CreateSummary(originalPath string, raw, final []expense.LineItem, outputPath string) error {
	return nil
}
