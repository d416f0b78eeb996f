package engine

import (
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
)

// Gateway is the command interface through which executors hand out
// rewards. Implementations decide how deltas land in the player
// ledger; the engine only reports what a pattern earned.
type Gateway interface {
	// ApplyRewards applies all deltas atomically or none of them.
	ApplyRewards(resources map[core.Resource]int64, attributes map[core.Attribute]int64, reason string) error
}

// Oracle answers whether merging a block type into a target tier is
// currently allowed. It is read-only: the engine queries progression,
// it never advances it.
type Oracle interface {
	TierUnlocked(t grid.BlockType, tier int) bool
}

// RewardSpec describes how one block type pays out. Exactly one of
// Resource or Attribute is set.
type RewardSpec struct {
	Base      int64
	Resource  core.Resource
	Attribute core.Attribute
}

// RewardTable maps block types to their payout routing.
type RewardTable map[grid.BlockType]RewardSpec

// deltas builds the gateway maps for a payout of amount to the stat
// behind the block type. Unknown types pay nothing.
func (t RewardTable) deltas(bt grid.BlockType, amount int64) (map[core.Resource]int64, map[core.Attribute]int64, bool) {
	spec, ok := t[bt]
	if !ok {
		return nil, nil, false
	}
	if spec.Resource != "" {
		return map[core.Resource]int64{spec.Resource: amount}, nil, true
	}
	if spec.Attribute != "" {
		return nil, map[core.Attribute]int64{spec.Attribute: amount}, true
	}
	return nil, nil, false
}
