package generator

import (
	"sort"

	"github.com/forgeworks/traitforge/pkg/catalog"
)

// Inconsistency is one blacklist conflict found in a committed item. An
// empty audit is the expected healthy-run result; any finding indicates a
// latent defect in the sampler or engine invariants.
type Inconsistency struct {
	ItemIndex int    // Zero-based position in the collection
	TraitType string // The offending trait's type
	Value     string // The offending trait's name
	Conflicts []int  // Co-selected trait numbers found in its blacklist, ascending
}

// Audit independently re-validates a completed collection against the
// catalog's blacklist constraints: for every item and every trait in it, no
// other trait of the same item may appear in its blacklist. It recomputes
// everything from the catalog and makes no use of the engine's internal
// bookkeeping.
func Audit(items []*Item, cat *catalog.Catalog) []Inconsistency {
	var findings []Inconsistency

	for i, item := range items {
		// Resolve the item's trait numbers first.
		numbers := make(map[int]struct{}, len(item.Attributes))
		for _, attr := range item.Attributes {
			if t := lookup(cat, attr); t != nil {
				numbers[t.Number] = struct{}{}
			}
		}

		for _, attr := range item.Attributes {
			t := lookup(cat, attr)
			if t == nil {
				continue
			}
			var conflicts []int
			for n := range t.Blacklist {
				if n == t.Number {
					continue
				}
				if _, ok := numbers[n]; ok {
					conflicts = append(conflicts, n)
				}
			}
			if len(conflicts) > 0 {
				sort.Ints(conflicts)
				findings = append(findings, Inconsistency{
					ItemIndex: i,
					TraitType: attr.TraitType,
					Value:     attr.Value,
					Conflicts: conflicts,
				})
			}
		}
	}

	return findings
}

func lookup(cat *catalog.Catalog, attr Attribute) *catalog.Trait {
	tt, ok := cat.Type(attr.TraitType)
	if !ok {
		return nil
	}
	t, ok := tt.Trait(attr.Value)
	if !ok {
		return nil
	}
	return t
}
