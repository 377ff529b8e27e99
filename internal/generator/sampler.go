package generator

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/forgeworks/traitforge/pkg/catalog"
)

// errNoViableCandidate signals that no trait in a trait-type can join the
// current candidate selection. It is recovered locally by the engine via
// retry and never escapes to callers.
var errNoViableCandidate = errors.New("no viable candidate trait")

// selection is an in-progress candidate item: the traits chosen so far plus
// the accumulated avoid set (the union of their blacklists). It is created
// fresh per attempt and discarded on failure.
type selection struct {
	chosen        map[string]*catalog.Trait // trait-type name -> chosen trait
	chosenNumbers map[int]struct{}
	avoid         map[int]struct{}
}

func newSelection() *selection {
	return &selection{
		chosen:        make(map[string]*catalog.Trait),
		chosenNumbers: make(map[int]struct{}),
		avoid:         make(map[int]struct{}),
	}
}

// add records a chosen trait and folds its blacklist into the avoid set.
func (s *selection) add(t *catalog.Trait) {
	s.chosen[t.Type] = t
	s.chosenNumbers[t.Number] = struct{}{}
	for n := range t.Blacklist {
		s.avoid[n] = struct{}{}
	}
}

// sampler performs the constrained weighted draw for a single trait-type
// within one candidate selection. It never mutates the usage ledger; only
// the engine does, at commit time.
type sampler struct {
	target int // Requested collection size
	rng    *rand.Rand
}

// selectOne picks one trait from the trait-type, excluding traits in the
// selection's avoid set and traits whose blacklist intersects the traits
// already chosen. Returns errNoViableCandidate when nothing remains.
func (sp *sampler) selectOne(tt *catalog.TraitType, sel *selection, ledger *UsageLedger) (*catalog.Trait, error) {
	var candidates []*catalog.Trait
	var weights []float64
	total := 0.0

	for _, t := range tt.Traits {
		if _, avoided := sel.avoid[t.Number]; avoided {
			continue
		}
		if intersects(t.Blacklist, sel.chosenNumbers) {
			continue
		}
		w := sp.dynamicWeight(t, ledger)
		candidates = append(candidates, t)
		weights = append(weights, w)
		total += w
	}

	if len(candidates) == 0 || total <= 0 {
		return nil, errNoViableCandidate
	}

	// Single weighted draw over the candidate list.
	r := sp.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return candidates[i], nil
		}
	}
	return candidates[len(candidates)-1], nil
}

// dynamicWeight recalculates a trait's selection weight from current usage.
// Traits under-produced relative to their target rarity are weighted up and
// over-produced traits weighted down, so output rarities converge to the
// configured ones even under blacklist-induced skew. The +1 floor keeps every
// candidate selectable.
func (sp *sampler) dynamicWeight(t *catalog.Trait, ledger *UsageLedger) float64 {
	expected := float64(sp.target) * t.Weight
	produced := float64(ledger.Count(t.Type, t.Name))
	return math.Max(0, expected-produced) + 1
}

func intersects(a, b map[int]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for n := range a {
		if _, ok := b[n]; ok {
			return true
		}
	}
	return false
}
