// Package cleaning turns noisy OCR text and hallucination-prone model output
// into trustworthy line items. Both filters are pure functions over text: no
// model calls, deterministic, and idempotent on already-clean input.
package cleaning

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Item is a candidate line item as emitted by the extraction model, before
// validation. The model sometimes returns the price as a string instead of a
// number; RawPrice keeps that form until CleanItems normalizes it.
type Item struct {
	ProductName string
	Price       float64
	RawPrice    string
	Quantity    float64
}

// UnmarshalJSON accepts price as either a JSON number or a string, and
// defaults quantity to 1.0 when absent.
func (it *Item) UnmarshalJSON(data []byte) error {
	var aux struct {
		ProductName string          `json:"productName"`
		Price       json.RawMessage `json:"price"`
		Quantity    *float64        `json:"quantity"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	it.ProductName = aux.ProductName
	it.Quantity = 1.0
	if aux.Quantity != nil {
		it.Quantity = *aux.Quantity
	}

	it.Price = 0
	it.RawPrice = ""
	if len(aux.Price) > 0 {
		var num float64
		if err := json.Unmarshal(aux.Price, &num); err == nil {
			it.Price = num
		} else {
			var s string
			if err := json.Unmarshal(aux.Price, &s); err == nil {
				it.RawPrice = s
			}
		}
	}
	return nil
}

var (
	datePattern    = regexp.MustCompile(`\d{2}[-.]\d{2}[-.]\d{2,4}`)
	timePattern    = regexp.MustCompile(`\d{2}:\d{2}`)
	numericLine    = regexp.MustCompile(`^[\d.,\s]+[A-Za-z]?$`)
	decimalPair    = regexp.MustCompile(`\d+[.,]\d{2}`)
	trashTail      = regexp.MustCompile(`(?i)(\*|\s\d+\s?szt|\s\d+\s?kg).*`)
	trailingCode   = regexp.MustCompile(`\s+[A-Z0-9]$`)
	separatorsOnly = strings.NewReplacer(".", "", ",", "", " ", "")
)

// CleanRawText filters receipt boilerplate out of raw OCR text before it is
// handed to the language model. Shrinking the prompt this way also removes
// the lines that reliably confuse the model into inventing items. Surviving
// lines keep their original order.
func CleanRawText(raw string, rules Rules) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)

		if containsAny(upper, garbageMarkers) {
			continue
		}
		if len(trimmed) < rules.MinNameLen {
			continue
		}
		if datePattern.MatchString(trimmed) {
			continue
		}
		if numericLine.MatchString(trimmed) {
			continue
		}
		if len(trimmed) > rules.MaxUnspacedName && !strings.Contains(trimmed, " ") {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

// CleanItems validates and normalizes candidate items returned by the model.
// Each item runs through the rejection rules in order; accepted items come
// out with a trimmed name, a normalized float price and their quantity
// (defaulted to 1.0).
func CleanItems(items []Item, rules Rules) []Item {
	clean := make([]Item, 0, len(items))

	for _, it := range items {
		name := it.ProductName
		upper := strings.ToUpper(name)

		if containsAny(upper, nameBlacklist) {
			continue
		}
		if len(name) > rules.MaxUnspacedName && !strings.Contains(name, " ") {
			continue
		}
		if datePattern.MatchString(name) || timePattern.MatchString(name) {
			continue
		}
		if len(name) < rules.MinNameLen {
			continue
		}
		if isNumericName(name) {
			continue
		}

		price := normalizePrice(it)
		if price <= rules.MinPrice || price > rules.MaxPrice {
			continue
		}

		name = trashTail.ReplaceAllString(name, "")
		name = trailingCode.ReplaceAllString(name, "")
		name = strings.TrimLeft(name, ".,-* ")
		name = strings.TrimSpace(name)
		// Stripping can leave a stub shorter than the minimum; re-check so
		// a second pass over already-clean items never rejects anything.
		if len(name) < rules.MinNameLen {
			continue
		}

		qty := it.Quantity
		if qty == 0 {
			qty = 1.0
		}

		clean = append(clean, Item{ProductName: name, Price: price, Quantity: qty})
	}

	return clean
}

// normalizePrice resolves the price of a candidate to a float. Numeric
// prices pass through. String prices first try the last decimal-pair match,
// which recovers the unit price from OCR concatenation artifacts like
// "1x8,508,50B"; failing that, currency tokens are stripped and the rest is
// parsed as a float. Anything unparseable becomes 0 and is rejected by the
// price range check.
func normalizePrice(it Item) float64 {
	if it.RawPrice == "" {
		return it.Price
	}

	s := strings.ReplaceAll(it.RawPrice, ",", ".")
	if found := decimalPair.FindAllString(s, -1); len(found) > 0 {
		v, err := strconv.ParseFloat(found[len(found)-1], 64)
		if err != nil {
			return 0
		}
		return v
	}

	s = strings.ReplaceAll(s, "zł", "")
	s = strings.ReplaceAll(s, "PLN", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// isNumericName reports whether a name is purely digits once separators are
// removed, e.g. a loose barcode fragment the model wrapped into an item.
func isNumericName(name string) bool {
	stripped := separatorsOnly.Replace(name)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
