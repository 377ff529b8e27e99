package generator

import "github.com/forgeworks/traitforge/pkg/catalog"

// UsageLedger tracks how many committed items selected each trait. Every
// trait in the catalog is present from the start so statistics cover unused
// traits too. The ledger is mutated only when an item is finalized, never
// during failed attempts.
type UsageLedger struct {
	counts map[string]map[string]int // trait-type -> trait -> committed count
}

// NewUsageLedger returns a ledger with a zero count for every catalog trait.
func NewUsageLedger(cat *catalog.Catalog) *UsageLedger {
	counts := make(map[string]map[string]int, len(cat.Types()))
	for _, tt := range cat.Types() {
		m := make(map[string]int, len(tt.Traits))
		for _, t := range tt.Traits {
			m[t.Name] = 0
		}
		counts[tt.Name] = m
	}
	return &UsageLedger{counts: counts}
}

// Count returns how many committed items selected the given trait.
func (l *UsageLedger) Count(typeName, traitName string) int {
	return l.counts[typeName][traitName]
}

// TypeTotal returns the total committed selections across a trait-type,
// which equals the number of committed items.
func (l *UsageLedger) TypeTotal(typeName string) int {
	total := 0
	for _, c := range l.counts[typeName] {
		total += c
	}
	return total
}

func (l *UsageLedger) increment(t *catalog.Trait) {
	l.counts[t.Type][t.Name]++
}
