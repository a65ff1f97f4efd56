package cleaning

// Rules holds the tunable thresholds of both filters. The defaults match the
// values the heuristics were calibrated with; deployments can override them
// through flags without code changes.
type Rules struct {
	// MinNameLen rejects names and raw lines shorter than this.
	MinNameLen int

	// MaxUnspacedName rejects names and raw lines longer than this that
	// contain no space. Catches serial numbers, hashes and barcodes that
	// OCR emits as single tokens.
	MaxUnspacedName int

	// MinPrice and MaxPrice bound the accepted price range. Items at or
	// below MinPrice or above MaxPrice are dropped.
	MinPrice float64
	MaxPrice float64

	// MinCleanedText is the minimum length of pre-filtered text. Below it
	// the extractor falls back to the raw OCR text, so an aggressive
	// filter cannot empty out a short but legitimate receipt.
	MinCleanedText int
}

// DefaultRules returns the calibrated thresholds.
func DefaultRules() Rules {
	return Rules{
		MinNameLen:      3,
		MaxUnspacedName: 20,
		MinPrice:        0.01,
		MaxPrice:        2000.0,
		MinCleanedText:  10,
	}
}

// garbageMarkers lists substrings that identify receipt boilerplate lines:
// tax and fiscal vocabulary, payment lines, store metadata. Matched
// case-insensitively against each raw OCR line before the text reaches the
// language model. Polish receipts dominate the training data, hence the
// two-language mix.
var garbageMarkers = []string{
	"NIP",
	"REGON",
	"BDO",
	"SPÓŁKA",
	"SPOLKA",
	"ADRES:",
	"UL.",
	"PARAGON FISKALNY",
	"F20",
	"EAG",
	"SPRZEDAZ",
	"SPRZEDAŻ",
	"OPODATKOWANA",
	"PTU",
	"PODATEK",
	"NETTO",
	"BRUTTO",
	"KWOTA",
	"ROZLICZENIE",
	"PLATNOSC",
	"PŁATNOŚĆ",
	"GOTÓWKA",
	"KARTA",
	"RESZTA",
	"SUMA:",
	"DO ZAPLATY",
	"DO ZAPŁATY",
	"DOZAPLATY",
	"RAZEM",
	"NR SYS",
	"KASJER",
	"WYDRUK",
	"DATA",
	"GODZINA",
	"PLN",
	"EUR",
	"WALUTA",
	"KREDYT",
}

// nameBlacklist lists substrings that disqualify a candidate item name:
// promotions, totals, payment methods, tax lines and store metadata that the
// model sometimes promotes into items. Includes common OCR misreadings of
// the same words (SPOTKA, ROZLICZEE, KOUANDY).
var nameBlacklist = []string{
	"OBNIZKA",
	"RABAT",
	"PROMOCJA",
	"GRATIS",
	"ZYSKUJESZ",
	"SUMA",
	"PODSUMOWANIE",
	"RAZEM",
	"DO ZAPŁATY",
	"DO ZAPLATY",
	"DOZAPLATY",
	"PŁATNOŚĆ",
	"PLATNOSC",
	"RESZTA",
	"KARTA",
	"GOTÓWKA",
	"GOTOWKA",
	"ROZLICZENIE",
	"ROZLICZEE",
	"WALUTA",
	"KREDYT",
	"PLN",
	"FISKALNY",
	"NIEFISKALNY",
	"PTU",
	"VAT",
	"NETTO",
	"BRUTTO",
	"OPODATKOWANA",
	"STAWKA",
	"PODATEK",
	"KWOTA",
	"NIP",
	"REGON",
	"BDO",
	"ADRES",
	"UL.",
	"ULICA",
	"SPÓŁKA",
	"SPOLKA",
	"SPOTKA",
	"TOWA",
	"KOUANDY",
	"SPRZEDAZ",
	"SPRZEDAŻ",
	"DATA",
	"GODZINA",
	"NR SYS",
	"PARAGON",
	"KASJER",
	"KASA",
	"WYDRUK",
	"HANDLOWA",
	"SKLEP",
	"FIRMA",
	"EAG",
	"F200",
}
