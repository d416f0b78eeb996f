package player

import "github.com/vovakirdan/mergelife/internal/grid"

// levelForXP returns the highest level whose cumulative threshold the
// XP total meets. Levels start at 1; an empty curve pins everyone to
// level 1.
func levelForXP(curve []int64, xp int64) int {
	level := 1
	for i, need := range curve {
		if xp < need {
			break
		}
		level = i + 1
	}
	return level
}

// OpenUnlocks returns unlock rules with no level requirements, so
// every tier up to MaxTier is available from the start. Used by free
// play modes.
func OpenUnlocks(types []grid.BlockType) map[grid.BlockType][]int {
	rules := make(map[grid.BlockType][]int, len(types))
	for _, t := range types {
		rules[t] = make([]int, grid.MaxTier-1)
	}
	return rules
}
