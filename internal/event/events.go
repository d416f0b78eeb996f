// Package event carries board and player notifications from the game
// core to the presentation layer. Delivery is fire and forget: game
// logic never waits on a consumer, and a slow consumer loses events
// rather than stalling play.
package event

import (
	"time"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
)

// Event is implemented by every notification published on the bus.
type Event interface {
	gameEvent()
}

// BlockPlaced announces a block appearing on the board, whether
// placed by the player or created by a merge.
type BlockPlaced struct {
	BlockID string
	Pos     grid.Position
	Type    grid.BlockType
	Tier    int
	At      time.Time
}

func (BlockPlaced) gameEvent() {}

// BlockRemoved announces a block leaving the board.
type BlockRemoved struct {
	BlockID string
	Pos     grid.Position
	Type    grid.BlockType
	Tier    int
	At      time.Time
}

func (BlockRemoved) gameEvent() {}

// PatternExecuted summarizes one executed formation: what kind it
// was, which cells it covered and what it paid.
type PatternExecuted struct {
	PatternID string
	Kind      pattern.Kind
	Type      grid.BlockType
	Cells     []grid.Position
	// Created is set for tier-ups: the block the merge produced.
	Created *grid.Block
	Score   int
	At      time.Time
}

func (PatternExecuted) gameEvent() {}

// PlayerStateChanged announces a ledger update. The maps are
// snapshots owned by the receiver.
type PlayerStateChanged struct {
	Resources  map[core.Resource]int64
	Attributes map[core.Attribute]int64
	Level      int
	Reason     string
	At         time.Time
}

func (PlayerStateChanged) gameEvent() {}
