package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
)

// MatchExecutor clears a recognized group and pays one size-scaled
// reward for it.
type MatchExecutor struct {
	store   *grid.Store
	gateway Gateway
	rewards RewardTable
	sink    event.Sink
	logger  *log.Logger
}

// NewMatchExecutor wires a match executor to the board and the reward
// gateway. sink may be nil.
func NewMatchExecutor(store *grid.Store, gateway Gateway, rewards RewardTable, sink event.Sink, logger *log.Logger) *MatchExecutor {
	return &MatchExecutor{
		store:   store,
		gateway: gateway,
		rewards: rewards,
		sink:    sink,
		logger:  ensureLogger(logger),
	}
}

// Kind implements Executor.
func (e *MatchExecutor) Kind() pattern.Kind {
	return pattern.KindMatch
}

// sizeTenths returns the payout multiplier for a cleared group in
// tenths: x1.0 for three cells, x1.5 for four, x2.0 for five or more.
func sizeTenths(size int) int64 {
	switch {
	case size >= 5:
		return 20
	case size >= 4:
		return 15
	default:
		return 10
	}
}

// Execute implements Executor. The pattern is re-validated against
// the live board first; a stale pattern aborts with ErrStalePattern
// and no mutation.
func (e *MatchExecutor) Execute(p pattern.Pattern, trigger grid.Position) (Outcome, error) {
	if !p.ValidFor(e.store) {
		return Outcome{}, fmt.Errorf("engine: cannot execute match %s: %w", p.ID, ErrStalePattern)
	}

	removed := make([]grid.Position, 0, p.Size())
	for _, cell := range p.Cells {
		b, err := e.store.Remove(cell)
		if err != nil {
			return Outcome{}, fmt.Errorf("engine: cannot execute match %s at %s: %w", p.ID, cell, err)
		}
		removed = append(removed, cell)
		publish(e.sink, event.BlockRemoved{
			BlockID: b.ID,
			Pos:     b.Pos,
			Type:    b.Type,
			Tier:    b.Tier,
			At:      time.Now(),
		})
	}

	tenths := sizeTenths(p.Size())
	score := p.Size() * int(tenths)

	out := Outcome{
		PatternID:  p.ID,
		Kind:       pattern.KindMatch,
		Type:       p.Type,
		Removed:    removed,
		Score:      score,
		Multiplier: float64(tenths) / 10,
	}

	if spec, ok := e.rewards[p.Type]; ok {
		amount := spec.Base * tenths / 10
		resources, attributes, routed := e.rewards.deltas(p.Type, amount)
		if routed {
			reason := fmt.Sprintf("match %s x%d", p.Type, p.Size())
			if err := e.gateway.ApplyRewards(resources, attributes, reason); err != nil {
				e.logger.Warn("match reward not applied", "pattern", p.ID, "error", err)
				out.RewardErr = err
			} else {
				out.Resources = resources
				out.Attributes = attributes
			}
		}
	}

	publish(e.sink, event.PatternExecuted{
		PatternID: p.ID,
		Kind:      pattern.KindMatch,
		Type:      p.Type,
		Cells:     removed,
		Score:     score,
		At:        time.Now(),
	})
	return out, nil
}
