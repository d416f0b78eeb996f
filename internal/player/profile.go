// Package player holds the economy ledger and the progression rules
// that gate merge tiers. The profile receives every reward the engine
// grants and answers its unlock queries.
package player

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/engine"
	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
)

// The profile backs both engine contracts: rewards land here and
// merge unlocks are answered here.
var (
	_ engine.Gateway = (*Profile)(nil)
	_ engine.Oracle  = (*Profile)(nil)
)

// ErrInsufficient is returned when a spend would drive a balance
// below zero. The ledger is unchanged when it is returned.
var ErrInsufficient = errors.New("insufficient balance")

// Options configures a new profile.
type Options struct {
	// Unlocks maps each block type to the player level required to
	// merge into tiers 2 and up; index 0 gates tier 2. Missing types
	// never unlock past tier 1.
	Unlocks map[grid.BlockType][]int
	// LevelXP holds the cumulative XP needed for each level; index 0
	// is level 1 and should be zero.
	LevelXP []int64
	// Resources sets starting balances.
	Resources map[core.Resource]int64
	// Sink receives PlayerStateChanged events. May be nil.
	Sink event.Sink
	// Logger may be nil to disable logging.
	Logger *log.Logger
}

// Profile is the mutable player state: resource balances, attribute
// totals and the level derived from lifetime gains.
//
// Profile is safe for concurrent use.
type Profile struct {
	mu         sync.Mutex
	resources  map[core.Resource]int64
	attributes map[core.Attribute]int64
	xp         int64
	level      int

	unlocks map[grid.BlockType][]int
	levelXP []int64

	sink   event.Sink
	logger *log.Logger
}

// NewProfile creates a profile with the given progression rules and
// starting balances.
func NewProfile(opts Options) *Profile {
	p := &Profile{
		resources:  make(map[core.Resource]int64),
		attributes: make(map[core.Attribute]int64),
		unlocks:    opts.Unlocks,
		levelXP:    opts.LevelXP,
		sink:       opts.Sink,
		logger:     opts.Logger,
	}
	if p.unlocks == nil {
		p.unlocks = make(map[grid.BlockType][]int)
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	for r, v := range opts.Resources {
		p.resources[r] = v
	}
	p.level = levelForXP(p.levelXP, 0)
	return p
}

// ApplyRewards applies resource and attribute deltas atomically.
// Either every delta lands or none does: a delta that would push any
// balance below zero rejects the whole call with ErrInsufficient.
// Positive deltas also accrue XP, which can raise the player level.
func (p *Profile) ApplyRewards(resources map[core.Resource]int64, attributes map[core.Attribute]int64, reason string) error {
	p.mu.Lock()

	for r, d := range resources {
		if p.resources[r]+d < 0 {
			have := p.resources[r]
			p.mu.Unlock()
			return fmt.Errorf("player: cannot apply %q: %s %d%+d: %w", reason, r, have, d, ErrInsufficient)
		}
	}
	for a, d := range attributes {
		if p.attributes[a]+d < 0 {
			have := p.attributes[a]
			p.mu.Unlock()
			return fmt.Errorf("player: cannot apply %q: %s %d%+d: %w", reason, a, have, d, ErrInsufficient)
		}
	}

	var gained int64
	for r, d := range resources {
		p.resources[r] += d
		if d > 0 {
			gained += d
		}
	}
	for a, d := range attributes {
		p.attributes[a] += d
		if d > 0 {
			gained += d
		}
	}

	p.xp += gained
	oldLevel := p.level
	p.level = levelForXP(p.levelXP, p.xp)

	snapshot := p.stateChangedLocked(reason)
	level, xp := p.level, p.xp
	p.mu.Unlock()

	if level > oldLevel {
		p.logger.Info("level up", "level", level, "xp", xp, "reason", reason)
	}
	if p.sink != nil {
		p.sink.Publish(snapshot)
	}
	return nil
}

// TierUnlocked reports whether blocks of type t may currently merge
// into the given tier. Tier 1 needs no unlock; tiers above MaxTier
// never unlock.
func (p *Profile) TierUnlocked(t grid.BlockType, tier int) bool {
	if tier <= 1 {
		return tier == 1
	}
	if tier > grid.MaxTier {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	levels, ok := p.unlocks[t]
	if !ok {
		return false
	}
	idx := tier - 2
	if idx >= len(levels) {
		return false
	}
	return p.level >= levels[idx]
}

// Level returns the current player level.
func (p *Profile) Level() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.level
}

// XP returns the lifetime XP total.
func (p *Profile) XP() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.xp
}

// Resources returns a copy of the resource balances.
func (p *Profile) Resources() map[core.Resource]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return copyResources(p.resources)
}

// Attributes returns a copy of the attribute totals.
func (p *Profile) Attributes() map[core.Attribute]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return copyAttributes(p.attributes)
}

// Snapshot is a copy of the ledger for persistence and display.
type Snapshot struct {
	Resources  map[core.Resource]int64
	Attributes map[core.Attribute]int64
	XP         int64
	Level      int
}

// State returns a snapshot of the current ledger.
func (p *Profile) State() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Resources:  copyResources(p.resources),
		Attributes: copyAttributes(p.attributes),
		XP:         p.xp,
		Level:      p.level,
	}
}

// Restore overwrites the ledger from a snapshot, recomputing the
// level from the snapshot XP.
func (p *Profile) Restore(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resources = copyResources(s.Resources)
	p.attributes = copyAttributes(s.Attributes)
	p.xp = s.XP
	p.level = levelForXP(p.levelXP, p.xp)
}

func (p *Profile) stateChangedLocked(reason string) event.PlayerStateChanged {
	return event.PlayerStateChanged{
		Resources:  copyResources(p.resources),
		Attributes: copyAttributes(p.attributes),
		Level:      p.level,
		Reason:     reason,
		At:         time.Now(),
	}
}

func copyResources(in map[core.Resource]int64) map[core.Resource]int64 {
	out := make(map[core.Resource]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyAttributes(in map[core.Attribute]int64) map[core.Attribute]int64 {
	out := make(map[core.Attribute]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
