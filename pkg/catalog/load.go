package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Row is one raw catalog row as produced by the input loader. Rarity,
// Blacklist and Whitelist are kept as raw cell text; parsing and validation
// happen in Load so every format failure is reported with row-level detail.
type Row struct {
	Line          int    // 1-based row number in the input sheet
	Number        int    // Unique trait number
	Type          string // Trait-type name
	Name          string // Trait name
	Rarity        string // Rarity percentage, blank for equal weighting
	Blacklist     string // Comma-separated trait numbers that cannot co-occur
	Whitelist     string // Comma-separated trait numbers this trait is only compatible with
	InscriptionID string // External reference, blank or 64-hex + "i<index>"
}

// inscriptionIDPattern matches an ordinal inscription ID: a 64-character hex
// transaction ID followed by "i" and a decimal output index.
var inscriptionIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}i\d+$`)

// Load builds a catalog from raw input rows and normalizes rarity weights so
// that weights within each trait-type sum to 1. It returns
// *MalformedInputError listing every offending row when any row has an
// invalid inscription ID, a non-numeric or negative rarity, a non-integer
// blacklist/whitelist entry, a duplicate trait number, or a constraint entry
// referencing an unknown trait number.
func Load(rows []Row) (*Catalog, error) {
	cat := &Catalog{
		byName:    make(map[string]*TraitType),
		byNumber:  make(map[int]*Trait),
		typeIndex: make(map[string]int),
	}

	var rowErrs []RowError
	addErr := func(line int, format string, a ...any) {
		rowErrs = append(rowErrs, RowError{Line: line, Msg: fmt.Sprintf(format, a...)})
	}
	lineOf := make(map[int]int) // trait number -> source line, for reference checks

	for _, row := range rows {
		if row.Type == "" && row.Name == "" {
			continue
		}

		rowOK := true

		if row.InscriptionID != "" && !inscriptionIDPattern.MatchString(row.InscriptionID) {
			addErr(row.Line, "invalid inscription ID format: %q", row.InscriptionID)
			rowOK = false
		}

		// Blank rarity means equal weighting within the trait-type.
		weight := 1.0
		if rarity := strings.TrimSpace(row.Rarity); rarity != "" {
			w, err := strconv.ParseFloat(rarity, 64)
			switch {
			case err != nil || math.IsNaN(w) || math.IsInf(w, 0):
				addErr(row.Line, "rarity must be a number or left blank, got %q", rarity)
				rowOK = false
			case w < 0:
				addErr(row.Line, "rarity must not be negative, got %s", rarity)
				rowOK = false
			default:
				weight = w
			}
		}

		blacklist, err := parseNumberList(row.Blacklist)
		if err != nil {
			addErr(row.Line, "avoid traits: %v", err)
			rowOK = false
		}
		whitelist, err := parseNumberList(row.Whitelist)
		if err != nil {
			addErr(row.Line, "require traits: %v", err)
			rowOK = false
		}

		if _, dup := cat.byNumber[row.Number]; dup {
			addErr(row.Line, "duplicate trait number %d (first used on row %d)", row.Number, lineOf[row.Number])
			rowOK = false
		}

		if !rowOK {
			continue
		}

		trait := &Trait{
			Number:        row.Number,
			Type:          row.Type,
			Name:          row.Name,
			Weight:        weight,
			InscriptionID: row.InscriptionID,
			Blacklist:     toSet(blacklist),
			whitelist:     toSet(whitelist),
		}

		tt, ok := cat.byName[row.Type]
		if !ok {
			tt = &TraitType{Name: row.Type, byName: make(map[string]*Trait)}
			cat.typeIndex[row.Type] = len(cat.types)
			cat.types = append(cat.types, tt)
			cat.byName[row.Type] = tt
		}
		tt.Traits = append(tt.Traits, trait)
		tt.byName[trait.Name] = trait
		cat.byNumber[trait.Number] = trait
		lineOf[trait.Number] = row.Line
	}

	// Constraint entries may reference traits declared later, so unknown
	// numbers can only be detected once every row has been seen.
	for _, row := range rows {
		trait, ok := cat.byNumber[row.Number]
		if !ok || trait.Type != row.Type || trait.Name != row.Name {
			continue
		}
		for _, n := range sortedKeys(trait.Blacklist) {
			if _, ok := cat.byNumber[n]; !ok {
				addErr(row.Line, "avoid traits: unknown trait number %d", n)
			}
		}
		for _, n := range sortedKeys(trait.whitelist) {
			if _, ok := cat.byNumber[n]; !ok {
				addErr(row.Line, "require traits: unknown trait number %d", n)
			}
		}
	}

	if len(rowErrs) > 0 {
		return nil, &MalformedInputError{Rows: rowErrs}
	}

	// Normalize weights per trait-type. A type whose raw weights sum to zero
	// keeps them at zero; the sampler's weight floor keeps such traits
	// selectable.
	for _, tt := range cat.types {
		total := 0.0
		for _, t := range tt.Traits {
			total += t.Weight
		}
		if total > 0 {
			for _, t := range tt.Traits {
				t.Weight /= total
			}
		}
	}

	return cat, nil
}

// parseNumberList parses a comma-separated list of trait numbers. Entries may
// carry a decimal point (spreadsheet cells often do) but must be whole
// numbers.
func parseNumberList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var numbers []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid entry %q: only numbers are allowed", part)
		}
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("invalid entry %q: only whole numbers are allowed", part)
		}
		numbers = append(numbers, int(v))
	}
	return numbers, nil
}

func toSet(numbers []int) map[int]struct{} {
	set := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set
}
