// Package game runs an interactive merge session: a spawn queue, a
// cursor and a carry hand on top of the grid store, with every board
// change routed through the pattern engine.
package game

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/engine"
	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/player"
)

// Mode represents the game mode.
type Mode string

const (
	// ModeCareer gates tier unlocks behind player levels and charges
	// energy per placement.
	ModeCareer Mode = "career"
	// ModeZen unlocks every tier from the start and never ends.
	ModeZen Mode = "zen"
)

// Session implements the merge game loop.
type Session struct {
	mode   Mode
	base   *config.GameConfig
	preset config.DifficultyPreset
	sink   event.Sink
	logger *log.Logger

	runCfg     config.GameConfig
	difficulty *config.DifficultyManager

	rng  *rand.Rand
	tick uint64

	board   *grid.Store
	profile *player.Profile
	eng     *engine.Engine
	queue   *SpawnQueue

	cursor    grid.Position
	carry     *grid.Block
	carryFrom grid.Position

	score      int
	placements int
	merges     int
	matches    int
	bestTier   int

	statusMsg string

	// Screen dimensions
	screenW  int
	screenH  int
	tickRate int

	// Game state flags
	gameOver      bool
	paused        bool
	tooSmall      bool
	moveProcessed bool // Prevent multiple board actions per tick
}

// New creates a session for the given mode. The sink receives board
// and ledger events and may be nil.
func New(cfg *config.GameConfig, mode Mode, sink event.Sink, logger *log.Logger) *Session {
	return &Session{
		mode:   mode,
		base:   cfg,
		preset: config.DifficultyNormal,
		sink:   sink,
		logger: logger,
	}
}

// SetPreset selects the difficulty preset applied on the next Reset.
func (s *Session) SetPreset(p config.DifficultyPreset) {
	s.preset = p
}

// ID returns the session identifier, used as the storage mode key.
func (s *Session) ID() string {
	return string(s.mode)
}

// Title returns the display name.
func (s *Session) Title() string {
	if s.mode == ModeZen {
		return "Merge Life (Zen)"
	}
	return "Merge Life (Career)"
}

// Mode returns the session mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Reset initializes/restarts the session.
func (s *Session) Reset(cfg core.RuntimeConfig) {
	s.rng = rand.New(rand.NewSource(cfg.Seed))
	s.tick = 0
	s.screenW = cfg.ScreenW
	s.screenH = cfg.ScreenH
	s.tickRate = cfg.TickRate
	if s.tickRate <= 0 {
		s.tickRate = core.DefaultConfig().TickRate
	}

	s.score = 0
	s.placements = 0
	s.merges = 0
	s.matches = 0
	s.bestTier = 1
	s.statusMsg = ""
	s.carry = nil
	s.gameOver = false
	s.paused = false
	s.moveProcessed = false

	// Per-run config with the preset applied
	s.runCfg = *s.base
	config.ApplyPreset(&s.runCfg, s.preset)
	s.difficulty = config.NewDifficultyManager(s.runCfg.Difficulty)
	if !config.IsFixedPreset(s.preset) {
		s.difficulty.SetInitialLevel(config.InitialLevelForPreset(s.preset))
	}

	s.board = grid.NewStore(s.runCfg.Board.Width, s.runCfg.Board.Height)
	s.cursor = grid.P(s.runCfg.Board.Width/2, s.runCfg.Board.Height/2)

	s.profile = player.NewProfile(s.profileOptions())
	s.eng = engine.New(
		s.board,
		s.profile,
		s.profile,
		s.rewardTable(),
		engine.Config{MaxPatterns: s.runCfg.Engine.MaxPatterns},
		s.sink,
		s.logger,
	)

	queueSize := s.runCfg.Modes.Career.QueueSize
	if s.mode == ModeZen {
		queueSize = s.runCfg.Modes.Zen.QueueSize
	}
	s.queue = NewSpawnQueue(s.runCfg.BlockTypes, queueSize, s.rng)

	s.checkScreenSize()
}

// profileOptions builds the progression rules for the current mode.
func (s *Session) profileOptions() player.Options {
	opts := player.Options{
		LevelXP: s.runCfg.Leveling.LevelXP,
		Sink:    s.sink,
		Logger:  s.logger,
	}

	if s.mode == ModeZen {
		// Zen unlocks every tier for every type from the start
		types := make([]grid.BlockType, 0, len(s.runCfg.BlockTypes))
		for _, bt := range s.runCfg.BlockTypes {
			types = append(types, grid.BlockType(bt.ID))
		}
		opts.Unlocks = player.OpenUnlocks(types)
		return opts
	}

	unlocks := make(map[grid.BlockType][]int, len(s.runCfg.BlockTypes))
	for _, bt := range s.runCfg.BlockTypes {
		unlocks[grid.BlockType(bt.ID)] = bt.UnlockLevels
	}
	opts.Unlocks = unlocks
	opts.Resources = map[core.Resource]int64{
		core.ResourceEnergy: s.runCfg.Modes.Career.StartEnergy,
	}
	return opts
}

// rewardTable maps the block catalogue to payout routing.
func (s *Session) rewardTable() engine.RewardTable {
	table := make(engine.RewardTable, len(s.runCfg.BlockTypes))
	for _, bt := range s.runCfg.BlockTypes {
		spec := engine.RewardSpec{Base: bt.BaseReward}
		if res, ok := core.KnownResource(bt.Stat); ok {
			spec.Resource = res
		} else if attr, ok := core.KnownAttribute(bt.Stat); ok {
			spec.Attribute = attr
		}
		table[grid.BlockType(bt.ID)] = spec
	}
	return table
}

// checkScreenSize checks if the screen is large enough.
func (s *Session) checkScreenSize() {
	minW := s.runCfg.Board.Width*cellWidth + 1 + sidebarWidth
	minH := s.runCfg.Board.Height*cellHeight + 1 + hudHeight + 1
	s.tooSmall = s.screenW < minW || s.screenH < minH
}

// Step advances the session by one tick.
func (s *Session) Step(in core.InputFrame) core.StepResult {
	s.tick++
	s.moveProcessed = false

	// Handle window size check
	if s.tooSmall {
		return core.StepResult{State: s.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}

	if s.paused {
		return core.StepResult{State: s.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && s.gameOver {
		// Will be reset by platform
		return core.StepResult{State: s.State()}
	}

	if s.gameOver {
		return core.StepResult{State: s.State()}
	}

	// Cursor movement
	switch {
	case in.Has(core.ActionUp):
		s.moveCursor(0, -1)
	case in.Has(core.ActionDown):
		s.moveCursor(0, 1)
	case in.Has(core.ActionLeft):
		s.moveCursor(-1, 0)
	case in.Has(core.ActionRight):
		s.moveCursor(1, 0)
	}

	// Board actions, one per tick
	switch {
	case in.Has(core.ActionPlace) && !s.moveProcessed:
		s.place()
		s.moveProcessed = true
	case in.Has(core.ActionGrab) && !s.moveProcessed:
		s.grab()
		s.moveProcessed = true
	case in.Has(core.ActionSwap) && !s.moveProcessed:
		s.queue.Swap()
		s.statusMsg = "Queue swapped"
		s.moveProcessed = true
	}

	return core.StepResult{State: s.State()}
}

// moveCursor shifts the cursor, clamped to the board.
func (s *Session) moveCursor(dx, dy int) {
	next := s.cursor.Add(dx, dy)
	if s.board.InBounds(next) {
		s.cursor = next
	}
}

// Resize updates the render dimensions without restarting the run.
func (s *Session) Resize(w, h int) {
	s.screenW = w
	s.screenH = h
	s.checkScreenSize()
}

// SetStatus overrides the status line shown under the board.
func (s *Session) SetStatus(msg string) {
	s.statusMsg = msg
}

// State returns the current session state.
func (s *Session) State() core.GameState {
	level := 1
	if s.profile != nil {
		level = s.profile.Level()
	}
	return core.GameState{
		Score:    s.score,
		Level:    level,
		GameOver: s.gameOver,
		Paused:   s.paused || s.tooSmall,
	}
}

// Profile exposes the player ledger for display.
func (s *Session) Profile() *player.Profile {
	return s.profile
}

// Board exposes the grid store for display.
func (s *Session) Board() *grid.Store {
	return s.board
}

// Queue exposes the spawn queue for display.
func (s *Session) Queue() *SpawnQueue {
	return s.queue
}

// PlacementCost returns the energy cost of the next placement.
// Zen placements are free.
func (s *Session) PlacementCost() int64 {
	if s.mode == ModeZen {
		return 0
	}
	return s.difficulty.PlacementCost(s.runCfg.Modes.Career.PlacementCost, s.score, s.placements)
}

// DurationSecs returns how long the run has been going, derived from
// the tick counter.
func (s *Session) DurationSecs() int {
	return int(s.tick) / s.tickRate
}
