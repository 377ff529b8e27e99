// Package generator implements the generation engine: the constrained
// weighted sampler, the per-item retry orchestration with uniqueness
// deduplication and dynamic rarity correction, the usage ledger, and the
// post-generation consistency auditor.
package generator

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/forgeworks/traitforge/pkg/catalog"
)

// DefaultMaxAttempts is the per-item retry ceiling. Hitting it means the
// configured size or avoid rules likely make a full unique collection
// infeasible.
const DefaultMaxAttempts = 10000

// Attribute is one visible trait on a generated item.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Item is one finalized generated item. Attributes hold the non-"none"
// selections in trait-type declaration order; the full selection (including
// "none" picks) only participates in uniqueness hashing and never leaves the
// engine. Items are immutable once appended to the collection.
type Item struct {
	ID         string      `json:"id"`
	Attributes []Attribute `json:"attributes"`
}

// ExhaustedAttemptsError is the soft failure raised when a single item cannot
// be generated within the attempt ceiling. The run halts early and the
// partial collection generated so far remains valid.
type ExhaustedAttemptsError struct {
	ItemIndex int // Zero-based index of the item that could not be generated
	Attempts  int
}

func (e *ExhaustedAttemptsError) Error() string {
	return fmt.Sprintf("unable to generate a unique item after %d attempts (item %d): "+
		"the avoid rules may be over-constrained, or the requested size may exceed "+
		"the space of unique valid combinations", e.Attempts, e.ItemIndex+1)
}

// Options configures an Engine.
type Options struct {
	Count       int    // Number of items to generate (required, > 0)
	Seed        uint64 // RNG seed; 0 means a fresh non-deterministic source
	MaxAttempts int    // Per-item retry ceiling; 0 means DefaultMaxAttempts
}

// Result is the outcome of a run. Items is the final, shuffled collection;
// it is partial when Complete is false (attempt ceiling hit or the context
// was cancelled).
type Result struct {
	Items    []*Item
	Stats    *Stats
	Complete bool
}

// Engine drives the outer per-item generation loop. All mutable run state
// (usage ledger, seen hashes, output collection) is owned exclusively by the
// engine and mutated only when an item commits.
type Engine struct {
	cat          *catalog.Catalog
	count        int
	maxAttempts  int
	rng          *rand.Rand
	sampler      *sampler
	ledger       *UsageLedger
	seen         map[uint64]struct{}
	distribution map[int]int
}

// NewEngine creates an engine for a compiled catalog.
func NewEngine(cat *catalog.Catalog, opts Options) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if !cat.Compiled() {
		return nil, fmt.Errorf("catalog must be compiled before generation")
	}
	if len(cat.Types()) == 0 {
		return nil, fmt.Errorf("catalog contains no trait-types")
	}
	if opts.Count < 1 {
		return nil, fmt.Errorf("item count must be positive, got %d", opts.Count)
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Engine{
		cat:          cat,
		count:        opts.Count,
		maxAttempts:  maxAttempts,
		rng:          rng,
		sampler:      &sampler{target: opts.Count, rng: rng},
		ledger:       NewUsageLedger(cat),
		seen:         make(map[uint64]struct{}, opts.Count),
		distribution: make(map[int]int),
	}, nil
}

// Run generates the collection. On success the returned error is nil and the
// result is complete. When the attempt ceiling is hit the partial collection
// is returned together with an *ExhaustedAttemptsError; when ctx is
// cancelled, with the context error. In both cases the partial result is
// fully consistent (ledger, statistics and items agree).
//
// The finished collection is shuffled before being returned: dynamic
// weighting makes early items more likely to carry under-represented traits,
// and shuffling removes that positional bias without changing the multiset
// of items.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	items := make([]*Item, 0, e.count)

	for i := 0; i < e.count; i++ {
		item, err := e.generateItem(ctx, i)
		if err != nil {
			e.shuffle(items)
			return e.result(items), err
		}
		items = append(items, item)
	}

	e.shuffle(items)
	return e.result(items), nil
}

// generateItem runs the per-item state machine: attempt, then retry on
// constraint dead-ends, duplicate signatures or failed revalidation, until
// the item commits or the attempt ceiling abandons it.
func (e *Engine) generateItem(ctx context.Context, index int) (*Item, error) {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sel, viable := e.attempt()
		if viable {
			sig := e.signature(sel)
			if _, dup := e.seen[sig]; !dup && e.validate(sel) {
				return e.commit(sel, sig), nil
			}
		}

		attempts++
		if attempts >= e.maxAttempts {
			return nil, &ExhaustedAttemptsError{ItemIndex: index, Attempts: attempts}
		}
	}
}

// attempt builds one candidate selection, visiting trait-types in a freshly
// randomized order so earlier-resolved types do not systematically get first
// pick of unconstrained trait space across the collection.
func (e *Engine) attempt() (*selection, bool) {
	order := make([]*catalog.TraitType, len(e.cat.Types()))
	copy(order, e.cat.Types())
	e.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	sel := newSelection()
	for _, tt := range order {
		t, err := e.sampler.selectOne(tt, sel, e.ledger)
		if err != nil {
			return nil, false
		}
		sel.add(t)
	}
	return sel, true
}

// signature computes the canonical content hash of a full selection: the
// (type, name) pairs in catalog declaration order, independent of the
// randomized visit order the attempt used.
func (e *Engine) signature(sel *selection) uint64 {
	d := xxhash.New()
	for _, tt := range e.cat.Types() {
		t := sel.chosen[tt.Name]
		d.WriteString(tt.Name)
		d.Write([]byte{0x00})
		d.WriteString(t.Name)
		d.Write([]byte{0x1f})
	}
	return d.Sum64()
}

// validate re-checks the completed selection against every chosen trait's
// blacklist, independently of the sampler's incremental avoidance. A failure
// here indicates a sampler bug and simply retries the attempt.
func (e *Engine) validate(sel *selection) bool {
	for _, t := range sel.chosen {
		for n := range t.Blacklist {
			if n == t.Number {
				continue
			}
			if _, ok := sel.chosenNumbers[n]; ok {
				return false
			}
		}
	}
	return true
}

// commit finalizes a validated, unique selection: registers its signature,
// updates the usage ledger and trait-count distribution, and materializes
// the item.
func (e *Engine) commit(sel *selection, sig uint64) *Item {
	e.seen[sig] = struct{}{}

	var attrs []Attribute
	for _, tt := range e.cat.Types() {
		t := sel.chosen[tt.Name]
		e.ledger.increment(t)
		if t.Name != catalog.NoneTrait {
			attrs = append(attrs, Attribute{TraitType: t.Type, Value: t.Name})
		}
	}

	// Trait count includes "none" selections: every trait-type contributes.
	e.distribution[len(sel.chosen)]++

	return &Item{ID: uuid.NewString(), Attributes: attrs}
}

func (e *Engine) shuffle(items []*Item) {
	e.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func (e *Engine) result(items []*Item) *Result {
	return &Result{
		Items:    items,
		Stats:    buildStats(e.cat, e.ledger, e.distribution, len(items)),
		Complete: len(items) == e.count,
	}
}
