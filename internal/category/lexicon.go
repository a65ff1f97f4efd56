package category

// Category labels shared with the classifier's training set.
const (
	Alcohol   = "Alcohol and stimulants"
	Groceries = "Groceries"
	Household = "Household and chemistry"
	Transport = "Transport"

	// ignoreLabel is the classifier's sentinel for receipt noise; it is
	// never assigned to an item.
	ignoreLabel = "Ignore"
)

// lexicon maps categories to name keywords. A keyword hit overrides
// whatever the classifier predicts: products the lexicon knows are assigned
// deterministically, which also fixes the classifier's recurring mistakes
// on OCR-mangled names (BUKA, OPATKA).
var lexicon = map[string][]string{
	Alcohol: {
		"PIWO", "WÓDKA", "WODKA", "WINO", "WHISKY", "SPIRYTUS", "LIKIER",
		"PAPIEROSY", "TYTOŃ", "TYTON", "L&M", "MARLBORO", "CAMEL", "HEETS", "VUSE",
	},
	Groceries: {
		// Bread
		"BUŁKA", "BULKA", "BUKA", "CHLEB", "KAIZERKA", "ROGAL", "BAGIETKA", "TORTILLA",
		// Dairy
		"MLEKO", "LACIATE", "ŁACIATE", "SER", "JOGURT", "KEFIR", "MASŁO", "MASLO",
		"TWARÓG", "TWAROG", "TWAROZEK", "ŚMIETANA", "SMIETANA", "DAN CAKE",
		// Eggs
		"JAJA", "JAJKA", "ZIELONONOZKA", "ZIELONONÓŻKA",
		// Meat
		"SZYNKA", "SCHAB", "KIEŁBASA", "KIELBASA", "PIERŚ", "KURCZAK", "INDYK",
		"MIESO", "MIĘSO", "ŁOPATKA", "LOPATKA", "OPATKA", "PIECZEŃ", "PIECZEN", "ZRAZOWA",
		// Vegetables and preserves
		"POMIDOR", "OGÓREK", "ZIEMNIAK", "MARCHEW", "PASSATA", "PRZECIER",
		"ROSÓŁ", "ROSOL", "KNORR", "WINIARY", "PRZYPRAWA", "KAMIS", "SOS",
		// Drinks
		"WODA", "NAPÓJ", "SOK", "NEKTAR", "PEPSI", "COLA", "SPRITE",
	},
	Household: {
		"DOMESTOS", "PŁYN", "PLYN", "PROSZEK", "KAPSUŁKI", "KAPSULKI", "BATERIE",
		"WORKI", "PAPIER TOALETOWY", "RECZNIK", "CHUSTECZKI", "MYDŁO", "TORBA",
		"REKLAMÓWKA", "SIATKA",
	},
	Transport: {
		"BILET", "PALIWO", "PB95", "UBER", "BOLT", "PARKING", "MPK", "PKP",
	},
}
