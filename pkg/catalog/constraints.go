package catalog

import "sort"

// Compile converts every whitelist declaration into its equivalent blacklist
// relation, in place. Whitelisting a subset of traits in a foreign trait-type
// means "only compatible with these", so every other trait of that type is
// added to the whitelisting trait's blacklist. Whitelist data is discarded
// afterwards, leaving a purely blacklist-based constraint graph.
//
// Compile fails with *ConstraintConflictError when a whitelist entry targets
// a trait in the whitelisting trait's own type (vacuous at best,
// contradictory at worst, since only one trait per type is ever active), or
// when the same target is both whitelisted and blacklisted.
func (c *Catalog) Compile() error {
	if c.compiled {
		return nil
	}

	for _, tt := range c.types {
		for _, trait := range tt.Traits {
			if len(trait.whitelist) == 0 {
				continue
			}

			// Partition whitelist entries by the target's trait-type.
			allowed := make(map[string]map[int]struct{})
			for _, n := range sortedKeys(trait.whitelist) {
				target, ok := c.byNumber[n]
				if !ok {
					// Load rejects unknown references; guard anyway.
					return &ConstraintConflictError{
						TraitNumber:  trait.Number,
						TargetNumber: n,
						Reason:       "whitelist references an unknown trait",
					}
				}
				if target.Type == trait.Type {
					return &ConstraintConflictError{
						TraitNumber:  trait.Number,
						TargetNumber: n,
						Reason:       "whitelist target belongs to the trait's own type",
					}
				}
				if _, both := trait.Blacklist[n]; both {
					return &ConstraintConflictError{
						TraitNumber:  trait.Number,
						TargetNumber: n,
						Reason:       "target is both whitelisted and blacklisted",
					}
				}
				set, ok := allowed[target.Type]
				if !ok {
					set = make(map[int]struct{})
					allowed[target.Type] = set
				}
				set[n] = struct{}{}
			}

			// Blacklist the complement of each whitelisted subset.
			for typeName, set := range allowed {
				for _, other := range c.byName[typeName].Traits {
					if _, ok := set[other.Number]; !ok {
						trait.Blacklist[other.Number] = struct{}{}
					}
				}
			}

			trait.whitelist = nil
		}
	}

	c.compiled = true
	return nil
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
