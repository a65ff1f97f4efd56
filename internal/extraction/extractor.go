package extraction

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BajorskiPatrick/SmartReceipt/internal/cleaning"
)

// Extractor runs the full extraction protocol over a receipt image. It never
// returns an error: every failure mode degrades to an empty item list with a
// Reason tag.
type Extractor struct {
	source    TextSource
	generator Generator
	rules     cleaning.Rules
}

// NewExtractor creates an Extractor over the given text source and
// generative model.
func NewExtractor(source TextSource, generator Generator, rules cleaning.Rules) *Extractor {
	return &Extractor{
		source:    source,
		generator: generator,
		rules:     rules,
	}
}

// Parse extracts cleaned candidate items from a receipt image.
func (e *Extractor) Parse(ctx context.Context, image []byte, contentType string) Result {
	lines := e.source.ExtractLines(ctx, image, contentType)
	if len(lines) == 0 {
		return Result{Reason: ReasonNoText}
	}

	raw := strings.Join(lines, "\n")
	text := cleaning.CleanRawText(raw, e.rules)
	if len(text) < e.rules.MinCleanedText {
		// The pre-filter ate almost everything. Short receipts are
		// legitimate, so hand the model the raw text instead.
		text = raw
	}

	completion, err := e.generator.Generate(ctx, systemPrompt, userPrompt(text))
	if err != nil {
		slog.Error("Generative model invocation failed", "error", err)
		return Result{Reason: ReasonModelUnavailable}
	}

	items, err := decodeItems(completion)
	if err != nil {
		slog.Warn("Model returned malformed completion", "error", err, "completion_length", len(completion))
		return Result{Reason: ReasonMalformedCompletion}
	}

	clean := cleaning.CleanItems(items, e.rules)
	if dropped := len(items) - len(clean); dropped > 0 {
		slog.Info("Post-filter dropped candidate items", "candidates", len(items), "dropped", dropped)
	}

	return Result{Items: clean, Reason: ReasonOK}
}
