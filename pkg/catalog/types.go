// Package catalog provides the trait catalog for generative collections: the
// trait-types and traits loaded from the input sheet, their normalized rarity
// weights, and the blacklist constraint graph produced by whitelist
// compilation. A catalog is built once, compiled once, and read-only for the
// remainder of a run.
package catalog

// NoneTrait is the reserved trait name meaning "no visible attribute for this
// trait-type". Every trait-type is expected to carry one.
const NoneTrait = "none"

// Trait is one selectable value within a trait-type.
type Trait struct {
	Number        int     // Unique positive identifier, stable across the run
	Type          string  // Owning trait-type name
	Name          string  // Trait value, e.g. "Red" ("none" is reserved)
	Weight        float64 // Rarity weight, normalized so weights within a type sum to 1
	InscriptionID string  // Opaque external reference, passed through untouched

	// Blacklist holds trait numbers that cannot co-occur with this trait in
	// the same item. Populated from input rows and expanded from whitelist
	// rules during compilation, then treated as immutable.
	Blacklist map[int]struct{}

	// whitelist holds "only compatible with" trait numbers. Compile converts
	// these into the blacklist complement and discards them.
	whitelist map[int]struct{}
}

// TraitType is a named group of traits. Exactly one trait from each
// trait-type is chosen per generated item.
type TraitType struct {
	Name   string
	Traits []*Trait // In input row order

	byName map[string]*Trait
}

// Trait returns the trait with the given name, if present.
func (tt *TraitType) Trait(name string) (*Trait, bool) {
	t, ok := tt.byName[name]
	return t, ok
}

// Catalog is the full set of trait-types, in declaration order, with lookup
// by trait number.
type Catalog struct {
	types     []*TraitType
	byName    map[string]*TraitType
	byNumber  map[int]*Trait
	typeIndex map[string]int
	compiled  bool
}

// Types returns all trait-types in declaration order.
func (c *Catalog) Types() []*TraitType {
	return c.types
}

// Type returns the trait-type with the given name, if present.
func (c *Catalog) Type(name string) (*TraitType, bool) {
	tt, ok := c.byName[name]
	return tt, ok
}

// TraitByNumber returns the trait with the given number, if present.
func (c *Catalog) TraitByNumber(number int) (*Trait, bool) {
	t, ok := c.byNumber[number]
	return t, ok
}

// TypeIndex returns the declaration-order index of a trait-type, or -1 if the
// type is unknown. The index defines the canonical ordering used for item
// signatures and layer compositing.
func (c *Catalog) TypeIndex(name string) int {
	idx, ok := c.typeIndex[name]
	if !ok {
		return -1
	}
	return idx
}

// Compiled reports whether whitelist compilation has run.
func (c *Catalog) Compiled() bool {
	return c.compiled
}

// InscriptionMap returns the (type, trait) to inscription ID passthrough
// mapping for the output writer. Derived from the catalog, not from
// generation.
func (c *Catalog) InscriptionMap() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.types))
	for _, tt := range c.types {
		m := make(map[string]string, len(tt.Traits))
		for _, t := range tt.Traits {
			m[t.Name] = t.InscriptionID
		}
		out[tt.Name] = m
	}
	return out
}
