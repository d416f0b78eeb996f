package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
)

// MergeExecutor combines exactly three same-type, same-tier blocks
// into one block of the next tier, placed on the trigger cell.
type MergeExecutor struct {
	store   *grid.Store
	gateway Gateway
	rewards RewardTable
	sink    event.Sink
	logger  *log.Logger
}

// NewMergeExecutor wires a merge executor to the board and the reward
// gateway. sink may be nil.
func NewMergeExecutor(store *grid.Store, gateway Gateway, rewards RewardTable, sink event.Sink, logger *log.Logger) *MergeExecutor {
	return &MergeExecutor{
		store:   store,
		gateway: gateway,
		rewards: rewards,
		sink:    sink,
		logger:  ensureLogger(logger),
	}
}

// Kind implements Executor.
func (e *MergeExecutor) Kind() pattern.Kind {
	return pattern.KindTierUp
}

// Execute implements Executor. All structural checks run before any
// board mutation: a merge either completes fully or leaves the board
// untouched. Reward delivery is the one exception; it happens after
// the mutation, and its failure is recorded on the outcome instead of
// unwinding the merge.
func (e *MergeExecutor) Execute(p pattern.Pattern, trigger grid.Position) (Outcome, error) {
	// The merged block replaces one of the members, so the trigger
	// must be part of the pattern.
	if !p.Contains(trigger) {
		return Outcome{}, fmt.Errorf("engine: cannot merge %s at %s: %w", p.ID, trigger, ErrNoTrigger)
	}
	if p.Size() != 3 {
		return Outcome{}, fmt.Errorf("engine: cannot merge %s: needs exactly 3 members, got %d", p.ID, p.Size())
	}

	// Snapshot the members from the live board.
	members := make([]grid.Block, 0, p.Size())
	for _, cell := range p.Cells {
		b, ok := e.store.At(cell)
		if !ok {
			return Outcome{}, fmt.Errorf("engine: cannot merge %s: cell %s empty: %w", p.ID, cell, ErrStalePattern)
		}
		members = append(members, b)
	}

	first := members[0]
	for _, m := range members[1:] {
		if m.Type != first.Type || m.Tier != first.Tier {
			return Outcome{}, fmt.Errorf("engine: cannot merge %s: %s t%d vs %s t%d: %w",
				p.ID, first.Type, first.Tier, m.Type, m.Tier, ErrMixedTierOrType)
		}
	}
	if p.Kind == pattern.KindTierUp && first.Tier != p.Tier {
		return Outcome{}, fmt.Errorf("engine: cannot merge %s: board tier %d differs from pattern tier %d: %w",
			p.ID, first.Tier, p.Tier, ErrStalePattern)
	}

	newTier := first.Tier + 1
	if newTier > grid.MaxTier {
		return Outcome{}, fmt.Errorf("engine: cannot merge %s: tier %d exceeds cap %d: %w",
			p.ID, newTier, grid.MaxTier, ErrTierCap)
	}

	// Checks passed; mutate.
	removed := make([]grid.Position, 0, len(members))
	for _, m := range members {
		b, err := e.store.Remove(m.Pos)
		if err != nil {
			return Outcome{}, fmt.Errorf("engine: cannot merge %s at %s: %w", p.ID, m.Pos, err)
		}
		removed = append(removed, m.Pos)
		publish(e.sink, event.BlockRemoved{
			BlockID: b.ID,
			Pos:     b.Pos,
			Type:    b.Type,
			Tier:    b.Tier,
			At:      time.Now(),
		})
	}

	merged := grid.NewBlock(first.Type, newTier, trigger)
	if err := e.store.Place(merged); err != nil {
		return Outcome{}, fmt.Errorf("engine: cannot merge %s: place result at %s: %w", p.ID, trigger, err)
	}
	publish(e.sink, event.BlockPlaced{
		BlockID: merged.ID,
		Pos:     merged.Pos,
		Type:    merged.Type,
		Tier:    merged.Tier,
		At:      time.Now(),
	})

	// Merge payouts scale with the tier reached: x3 per tier above 1.
	multiplier := pow3(newTier - 1)
	score := len(removed) * int(multiplier) * 10

	out := Outcome{
		PatternID:  p.ID,
		Kind:       pattern.KindTierUp,
		Type:       first.Type,
		Removed:    removed,
		Created:    &merged,
		Score:      score,
		Multiplier: float64(multiplier),
	}

	if spec, ok := e.rewards[first.Type]; ok {
		amount := spec.Base * multiplier
		resources, attributes, routed := e.rewards.deltas(first.Type, amount)
		if routed {
			reason := fmt.Sprintf("merge %s t%d", first.Type, newTier)
			if err := e.gateway.ApplyRewards(resources, attributes, reason); err != nil {
				e.logger.Warn("merge reward not applied", "pattern", p.ID, "error", err)
				out.RewardErr = err
			} else {
				out.Resources = resources
				out.Attributes = attributes
			}
		}
	}

	publish(e.sink, event.PatternExecuted{
		PatternID: p.ID,
		Kind:      pattern.KindTierUp,
		Type:      first.Type,
		Cells:     removed,
		Created:   &merged,
		Score:     score,
		At:        time.Now(),
	})
	return out, nil
}

func pow3(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 3
	}
	return result
}
