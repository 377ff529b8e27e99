package generator

import "github.com/forgeworks/traitforge/pkg/catalog"

// TraitUsage summarizes how one trait fared against its configured rarity.
type TraitUsage struct {
	Count       int     // Committed items that selected this trait
	Percent     float64 // Share of the trait-type's total selections, 0-100
	RarityInput float64 // Requested rarity in percent, for comparison
	NoneStatus  string  // "Used" / "Not used" for the "none" trait, empty otherwise
}

// Stats are the usage statistics derived from the final ledger and the
// recorded trait-count distribution.
type Stats struct {
	TotalItems   int
	Distribution map[int]int                      // trait count -> item count
	Usage        map[string]map[string]TraitUsage // trait-type -> trait -> usage
}

func buildStats(cat *catalog.Catalog, ledger *UsageLedger, distribution map[int]int, total int) *Stats {
	usage := make(map[string]map[string]TraitUsage, len(cat.Types()))
	for _, tt := range cat.Types() {
		typeTotal := ledger.TypeTotal(tt.Name)
		m := make(map[string]TraitUsage, len(tt.Traits))
		for _, t := range tt.Traits {
			count := ledger.Count(tt.Name, t.Name)
			u := TraitUsage{
				Count:       count,
				RarityInput: t.Weight * 100,
			}
			if typeTotal > 0 {
				u.Percent = float64(count) / float64(typeTotal) * 100
			}
			if t.Name == catalog.NoneTrait {
				if count > 0 {
					u.NoneStatus = "Used"
				} else {
					u.NoneStatus = "Not used"
				}
			}
			m[t.Name] = u
		}
		usage[tt.Name] = m
	}

	dist := make(map[int]int, len(distribution))
	for k, v := range distribution {
		dist[k] = v
	}

	return &Stats{
		TotalItems:   total,
		Distribution: dist,
		Usage:        usage,
	}
}
