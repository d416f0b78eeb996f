package game

import (
	"math/rand"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/grid"
)

// SpawnQueue holds the upcoming blocks the player will place next.
// Types are drawn by spawn weight from the block catalogue; every
// spawned block starts at tier 1.
type SpawnQueue struct {
	rng     *rand.Rand
	types   []grid.BlockType
	weights []int
	total   int
	items   []grid.BlockType
	size    int
}

// NewSpawnQueue builds a queue of the given size from the catalogue
// weights and fills it.
func NewSpawnQueue(catalogue []config.BlockTypeConfig, size int, rng *rand.Rand) *SpawnQueue {
	q := &SpawnQueue{
		rng:  rng,
		size: size,
	}
	for _, bt := range catalogue {
		if bt.SpawnWeight <= 0 {
			continue
		}
		q.types = append(q.types, grid.BlockType(bt.ID))
		q.weights = append(q.weights, bt.SpawnWeight)
		q.total += bt.SpawnWeight
	}
	q.Refill()
	return q
}

// roll picks a block type by weight.
func (q *SpawnQueue) roll() grid.BlockType {
	if q.total <= 0 || len(q.types) == 0 {
		return grid.TypeWork
	}
	n := q.rng.Intn(q.total)
	for i, w := range q.weights {
		n -= w
		if n < 0 {
			return q.types[i]
		}
	}
	return q.types[len(q.types)-1]
}

// Refill tops the queue back up to its configured size.
func (q *SpawnQueue) Refill() {
	for len(q.items) < q.size {
		q.items = append(q.items, q.roll())
	}
}

// Peek returns the next block type without consuming it.
func (q *SpawnQueue) Peek() grid.BlockType {
	if len(q.items) == 0 {
		q.Refill()
	}
	return q.items[0]
}

// Pop consumes and returns the next block type, then refills.
func (q *SpawnQueue) Pop() grid.BlockType {
	next := q.Peek()
	q.items = q.items[1:]
	q.Refill()
	return next
}

// Swap exchanges the first two queued blocks.
func (q *SpawnQueue) Swap() {
	if len(q.items) < 2 {
		q.Refill()
	}
	if len(q.items) >= 2 {
		q.items[0], q.items[1] = q.items[1], q.items[0]
	}
}

// Items returns the queued block types in order.
func (q *SpawnQueue) Items() []grid.BlockType {
	out := make([]grid.BlockType, len(q.items))
	copy(out, q.items)
	return out
}
