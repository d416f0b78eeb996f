package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/engine"
	"github.com/vovakirdan/mergelife/internal/event"
	"github.com/vovakirdan/mergelife/internal/grid"
	"github.com/vovakirdan/mergelife/internal/pattern"
	"github.com/vovakirdan/mergelife/internal/player"
)

// place handles the place action at the cursor: dropping the carried
// block if the hand is full, otherwise spawning the next queued block.
func (s *Session) place() {
	if s.carry != nil {
		s.dropCarry()
		return
	}

	if !s.board.IsEmpty(s.cursor) {
		s.statusMsg = "Cell occupied"
		return
	}

	// Career placements cost energy that scales with difficulty.
	// Running dry blocks placement but not the free actions: moving
	// blocks can still fire rest patterns that refill energy.
	if s.mode == ModeCareer {
		cost := s.PlacementCost()
		err := s.profile.ApplyRewards(map[core.Resource]int64{core.ResourceEnergy: -cost}, nil, "placement")
		if errors.Is(err, player.ErrInsufficient) {
			s.statusMsg = fmt.Sprintf("Not enough energy (need %d)", cost)
			return
		}
		if err != nil {
			s.statusMsg = "Placement failed"
			return
		}
	}

	b := grid.NewBlock(s.queue.Pop(), 1, s.cursor)
	if err := s.board.Place(b); err != nil {
		s.statusMsg = "Cell occupied"
		return
	}
	s.placements++
	s.publish(event.BlockPlaced{
		BlockID: b.ID,
		Pos:     b.Pos,
		Type:    b.Type,
		Tier:    b.Tier,
		At:      time.Now(),
	})

	s.applyReport(s.eng.HandleBlockPlaced(s.cursor))
	s.checkGameOver()
}

// grab picks up the block under the cursor, or drops the carried one.
func (s *Session) grab() {
	if s.carry != nil {
		s.dropCarry()
		return
	}

	b, err := s.board.Remove(s.cursor)
	if err != nil {
		s.statusMsg = "Nothing to grab"
		return
	}
	s.carry = &b
	s.carryFrom = s.cursor
	s.publish(event.BlockRemoved{
		BlockID: b.ID,
		Pos:     s.cursor,
		Type:    b.Type,
		Tier:    b.Tier,
		At:      time.Now(),
	})
	s.statusMsg = fmt.Sprintf("Carrying %s T%d", b.Type, b.Tier)
}

// dropCarry puts the carried block down at the cursor and runs the
// engine as a move from its original cell.
func (s *Session) dropCarry() {
	if !s.board.IsEmpty(s.cursor) {
		s.statusMsg = "Cell occupied"
		return
	}

	b := *s.carry
	b.Pos = s.cursor
	if err := s.board.Place(b); err != nil {
		s.statusMsg = "Cell occupied"
		return
	}
	s.carry = nil
	s.publish(event.BlockPlaced{
		BlockID: b.ID,
		Pos:     b.Pos,
		Type:    b.Type,
		Tier:    b.Tier,
		At:      time.Now(),
	})

	s.applyReport(s.eng.HandleBlockMoved(s.carryFrom, s.cursor))
	s.checkGameOver()
}

// applyReport folds one engine pass into the run counters.
func (s *Session) applyReport(r engine.Report) {
	s.score += r.Score()
	s.merges += r.Merges()
	s.matches += r.Matches()

	for _, out := range r.Outcomes {
		if out.Created != nil && out.Created.Tier > s.bestTier {
			s.bestTier = out.Created.Tier
		}
	}

	if len(r.Outcomes) > 0 {
		s.statusMsg = describeOutcome(r.Outcomes[len(r.Outcomes)-1])
	} else {
		s.statusMsg = ""
	}
}

// describeOutcome renders one executed pattern as a status line.
func describeOutcome(out engine.Outcome) string {
	if out.Kind == pattern.KindTierUp && out.Created != nil {
		return fmt.Sprintf("Merged %s to T%d (+%d)", out.Type, out.Created.Tier, out.Score)
	}
	return fmt.Sprintf("Matched %d %s (+%d)", len(out.Removed), out.Type, out.Score)
}

// checkGameOver ends a career run once the queued block has nowhere
// to go. Zen runs never end.
func (s *Session) checkGameOver() {
	if s.mode != ModeCareer {
		return
	}
	w, h := s.board.Size()
	if s.board.Len() >= w*h && s.carry == nil {
		s.gameOver = true
	}
}

// publish sends an event to the sink if one is attached.
func (s *Session) publish(e event.Event) {
	if s.sink != nil {
		s.sink.Publish(e)
	}
}
