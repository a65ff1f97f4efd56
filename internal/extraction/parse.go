package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BajorskiPatrick/SmartReceipt/internal/cleaning"
)

// decodeItems parses a model completion into candidate items. The JSON
// object is located by its first "{" and last "}" so that stray text or
// markdown fences around it do not matter. A missing "items" key yields an
// empty list, not an error.
func decodeItems(completion string) ([]cleaning.Item, error) {
	text := strings.TrimSpace(completion)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in completion")
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end < start {
		return nil, fmt.Errorf("invalid JSON object in completion")
	}

	var payload struct {
		Items []cleaning.Item `json:"items"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling items: %w", err)
	}

	return payload.Items, nil
}
