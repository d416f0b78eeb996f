package game

import (
	"fmt"

	"github.com/vovakirdan/mergelife/internal/player"
	"github.com/vovakirdan/mergelife/internal/storage"
)

// Snapshot captures the observable session state for determinism
// testing and replay.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Score      int
	Level      int
	Placements int
	Merges     int
	Matches    int
	BestTier   int
	BoardHash  uint64
	GameOver   bool
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:       s.tick,
		Mode:       string(s.mode),
		Score:      s.score,
		Level:      s.profile.Level(),
		Placements: s.placements,
		Merges:     s.merges,
		Matches:    s.matches,
		BestTier:   s.bestTier,
		BoardHash:  s.board.Hash(),
		GameOver:   s.gameOver,
	}
}

// Summary converts the finished run into a history entry.
func (s *Session) Summary() storage.RunEntry {
	return storage.RunEntry{
		Mode:         string(s.mode),
		Score:        s.score,
		Level:        s.profile.Level(),
		Merges:       s.merges,
		Matches:      s.matches,
		BestTier:     s.bestTier,
		DurationSecs: s.DurationSecs(),
	}
}

// SaveSnapshot captures everything needed to resume this run later.
func (s *Session) SaveSnapshot(slot string) storage.SaveGame {
	snap := s.profile.State()
	w, h := s.board.Size()
	return storage.SaveGame{
		Slot:         slot,
		Mode:         string(s.mode),
		BoardW:       w,
		BoardH:       h,
		Score:        s.score,
		Placements:   s.placements,
		Merges:       s.merges,
		Matches:      s.matches,
		BestTier:     s.bestTier,
		DurationSecs: s.DurationSecs(),
		XP:           snap.XP,
		Level:        snap.Level,
		Blocks:       s.board.Blocks(),
		Resources:    snap.Resources,
		Attributes:   snap.Attributes,
	}
}

// RestoreSave rebuilds the board and ledger from a saved snapshot.
// The session must be Reset first so the engine and queue exist.
func (s *Session) RestoreSave(save *storage.SaveGame) error {
	if save == nil {
		return fmt.Errorf("game: nothing to restore")
	}
	if Mode(save.Mode) != s.mode {
		return fmt.Errorf("game: save is for mode %q, session is %q", save.Mode, s.mode)
	}

	s.board.Clear()
	for _, b := range save.Blocks {
		if err := s.board.Place(b); err != nil {
			return fmt.Errorf("game: cannot restore block %s at %s: %w", b.ID, b.Pos, err)
		}
	}

	s.profile.Restore(playerSnapshot(save))

	s.score = save.Score
	s.placements = save.Placements
	s.merges = save.Merges
	s.matches = save.Matches
	s.bestTier = save.BestTier
	s.tick = uint64(save.DurationSecs) * uint64(s.tickRate)
	s.carry = nil
	s.gameOver = false
	s.statusMsg = "Run restored"
	return nil
}

// playerSnapshot lifts the saved ledger back into profile form.
func playerSnapshot(save *storage.SaveGame) player.Snapshot {
	return player.Snapshot{
		Resources:  save.Resources,
		Attributes: save.Attributes,
		XP:         save.XP,
		Level:      save.Level,
	}
}
