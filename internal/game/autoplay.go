package game

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
)

// SimResult aggregates one headless run for balance inspection.
type SimResult struct {
	Steps      int
	Placements int
	Score      int
	Level      int
	XP         int64
	Merges     int
	Matches    int
	BestTier   int
	Blocks     int
	BoardHash  uint64
	GameOver   bool
	Events     int
	Resources  map[core.Resource]int64
	Attributes map[core.Attribute]int64
}

// RunSimulation drives a fresh session with the automatic placement
// policy for up to steps placements and reports the totals. The same
// seed always produces the same result.
func RunSimulation(cfg *config.GameConfig, mode Mode, steps int, seed int64, logger *log.Logger) SimResult {
	journal := event.NewJournal()
	sess := New(cfg, mode, journal, logger)
	sess.Reset(core.RuntimeConfig{
		ScreenW:  core.DefaultConfig().ScreenW,
		ScreenH:  core.DefaultConfig().ScreenH,
		TickRate: core.DefaultConfig().TickRate,
		Seed:     seed,
	})

	result := SimResult{}
	for i := 0; i < steps; i++ {
		if sess.gameOver {
			break
		}
		pos, ok := sess.autoTarget()
		if !ok {
			// Board full with nothing to clear
			break
		}
		sess.cursor = pos
		sess.tick++

		before := sess.placements
		sess.place()
		result.Steps++
		if sess.placements == before {
			// Placement refused, usually an empty energy ledger
			break
		}
	}

	snap := sess.profile.State()
	result.Placements = sess.placements
	result.Score = sess.score
	result.Level = snap.Level
	result.XP = snap.XP
	result.Merges = sess.merges
	result.Matches = sess.matches
	result.BestTier = sess.bestTier
	result.Blocks = sess.board.Len()
	result.BoardHash = sess.board.Hash()
	result.GameOver = sess.gameOver
	result.Events = journal.Len()
	result.Resources = snap.Resources
	result.Attributes = snap.Attributes
	return result
}

// autoTarget picks where the autoplayer drops the next queued block:
// an empty cell next to a tier-1 block of the same type when one
// exists, any empty cell otherwise.
func (s *Session) autoTarget() (grid.Position, bool) {
	next := s.queue.Peek()
	w, h := s.board.Size()

	var empties []grid.Position
	var preferred []grid.Position
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := grid.P(x, y)
			if !s.board.IsEmpty(p) {
				continue
			}
			empties = append(empties, p)
			for _, n := range s.board.Adjacent(p) {
				if n.Type == next && n.Tier == 1 {
					preferred = append(preferred, p)
					break
				}
			}
		}
	}

	if len(preferred) > 0 {
		return preferred[s.rng.Intn(len(preferred))], true
	}
	if len(empties) > 0 {
		return empties[s.rng.Intn(len(empties))], true
	}
	return grid.Position{}, false
}
