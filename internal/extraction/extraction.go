// Package extraction implements the structured extraction protocol: raw text
// acquisition, prompt construction, generative model invocation and parsing
// of the completion into candidate line items.
package extraction

import (
	"context"

	"github.com/BajorskiPatrick/SmartReceipt/internal/cleaning"
)

// Reason tags how an extraction attempt ended. Callers decide recovery
// versus propagation based on the tag; the extractor itself never returns an
// error.
type Reason string

const (
	// ReasonOK means the completion was parsed, items may still be empty
	// after cleaning.
	ReasonOK Reason = "ok"
	// ReasonNoText means OCR produced no text, the model was not called.
	ReasonNoText Reason = "no_text"
	// ReasonMalformedCompletion means the model returned something that
	// did not contain a parseable JSON object.
	ReasonMalformedCompletion Reason = "malformed_completion"
	// ReasonModelUnavailable means the model invocation itself failed.
	ReasonModelUnavailable Reason = "model_unavailable"
)

// Result carries the cleaned candidate items together with the outcome tag.
type Result struct {
	Items  []cleaning.Item
	Reason Reason
}

// TextSource produces ordered text lines from a receipt image, top to
// bottom. Implementations must degrade to an empty slice on any decoding or
// recognition failure.
type TextSource interface {
	ExtractLines(ctx context.Context, image []byte, contentType string) []string
}

// Generator produces a text completion for a system and user message pair.
// Implementations are expected to constrain the output to a JSON object and
// run with low randomness.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Close() error
}
