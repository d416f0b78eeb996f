package engine

import (
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
)

// mergePriorityBoost lifts tier-up executions above plain matches of
// any realistic component size.
const mergePriorityBoost = 100

// Execution is a pattern bound to the executor that will run it.
type Execution struct {
	Pattern  pattern.Pattern
	Executor Executor
	Priority int
}

// Resolver decides which executor runs a recognized pattern. A
// three-member match group becomes a merge when its members share one
// tier, the trigger anchors the group, and the progression oracle has
// the next tier unlocked for the type. Everything else clears as a
// plain match.
type Resolver struct {
	store  *grid.Store
	oracle Oracle
	match  Executor
	merge  Executor
}

// NewResolver builds a resolver over the given executors.
func NewResolver(store *grid.Store, oracle Oracle, match, merge Executor) *Resolver {
	return &Resolver{
		store:  store,
		oracle: oracle,
		match:  match,
		merge:  merge,
	}
}

// Resolve selects the executor for one pattern. The boolean is false
// only for pattern kinds the resolver does not know.
func (r *Resolver) Resolve(p pattern.Pattern, trigger grid.Position) (Execution, bool) {
	switch p.Kind {
	case pattern.KindTierUp:
		return Execution{Pattern: p, Executor: r.merge, Priority: p.Priority + mergePriorityBoost}, true
	case pattern.KindMatch:
		if r.mergeEligible(p, trigger) {
			return Execution{Pattern: p, Executor: r.merge, Priority: p.Priority + mergePriorityBoost}, true
		}
		return Execution{Pattern: p, Executor: r.match, Priority: p.Priority}, true
	default:
		return Execution{}, false
	}
}

func (r *Resolver) mergeEligible(p pattern.Pattern, trigger grid.Position) bool {
	if p.Size() != 3 || !p.Contains(trigger) {
		return false
	}
	tier, uniform := r.uniformTier(p)
	if !uniform {
		return false
	}
	return r.oracle.TierUnlocked(p.Type, tier+1)
}

// uniformTier reads the shared tier of the pattern's members from the
// live board. It reports false when tiers differ, a member cell is
// empty, or a member holds the wrong type.
func (r *Resolver) uniformTier(p pattern.Pattern) (int, bool) {
	tier := 0
	for i, cell := range p.Cells {
		b, ok := r.store.At(cell)
		if !ok || b.Type != p.Type {
			return 0, false
		}
		if i == 0 {
			tier = b.Tier
			continue
		}
		if b.Tier != tier {
			return 0, false
		}
	}
	return tier, true
}
