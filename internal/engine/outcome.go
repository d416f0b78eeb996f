package engine

import (
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
)

// Outcome describes the full effect of one executed pattern: what
// left the board, what appeared, and what it paid.
type Outcome struct {
	PatternID string
	Kind      pattern.Kind
	Type      grid.BlockType

	Removed []grid.Position
	// Created is set for tier-ups: the merged block now on the board.
	Created *grid.Block

	Resources  map[core.Resource]int64
	Attributes map[core.Attribute]int64
	Score      int
	Multiplier float64

	// RewardErr records a reward delivery failure. The board mutation
	// already happened by then, so the failure is reported here rather
	// than unwinding the outcome.
	RewardErr error
}

// Executor applies one pattern variant to the board. The trigger is
// the cell whose placement or move initiated the pass; the merge
// executor anchors its result there.
type Executor interface {
	Kind() pattern.Kind
	Execute(p pattern.Pattern, trigger grid.Position) (Outcome, error)
}
