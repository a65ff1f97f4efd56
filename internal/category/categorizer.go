// Package category assigns expense categories to product names, combining a
// deterministic keyword lexicon with a trained text classifier.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultThreshold is the minimum classifier confidence for a prediction to
// be trusted when the lexicon has no opinion.
const DefaultThreshold = 0.6

// Classifier predicts a category label and a confidence score in [0,1] for
// each product name in a batch, aligned by index.
type Classifier interface {
	Classify(ctx context.Context, names []string) (labels []string, scores []float64, err error)
}

// Categorizer decides the final category per product name.
type Categorizer struct {
	classifier Classifier
	threshold  float64
}

// NewCategorizer creates a Categorizer over the given classifier. A zero
// threshold selects DefaultThreshold.
func NewCategorizer(classifier Classifier, threshold float64) *Categorizer {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Categorizer{
		classifier: classifier,
		threshold:  threshold,
	}
}

// Categorize returns one category per name, aligned by index; nil means
// unclassified. The classifier runs once over the whole batch. An empty
// batch returns immediately without invoking the model.
func (c *Categorizer) Categorize(ctx context.Context, names []string) ([]*string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	labels, scores, err := c.classifier.Classify(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("classifying products: %w", err)
	}
	if len(labels) != len(names) || len(scores) != len(names) {
		return nil, fmt.Errorf("classifier returned %d labels and %d scores for %d names", len(labels), len(scores), len(names))
	}

	categories := make([]*string, len(names))
	for i, name := range names {
		// The lexicon wins over the model for products it knows.
		if kw := keywordCategory(name); kw != "" {
			categories[i] = &kw
			continue
		}

		if labels[i] != ignoreLabel && scores[i] >= c.threshold {
			label := labels[i]
			categories[i] = &label
			continue
		}

		slog.Debug("Product left unclassified", "product", name, "predicted", labels[i], "confidence", scores[i])
	}

	return categories, nil
}

// lexiconOrder fixes the lookup order so a name matching keywords from two
// categories always resolves the same way.
var lexiconOrder = []string{Alcohol, Groceries, Household, Transport}

// keywordCategory returns the lexicon category whose keyword occurs in the
// name, or "" when none matches.
func keywordCategory(name string) string {
	upper := strings.ToUpper(name)
	for _, category := range lexiconOrder {
		for _, w := range lexicon[category] {
			if strings.Contains(upper, w) {
				return category
			}
		}
	}
	return ""
}
