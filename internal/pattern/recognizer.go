package pattern

import (
	"fmt"

	"github.com/vovakirdan/mergelife/internal/grid"
)

// Recognizer finds patterns of one kind around a trigger position.
// Implementations must not mutate the store.
type Recognizer interface {
	// Kind reports which pattern variant this recognizer emits.
	Kind() Kind
	// Enabled reports whether the recognizer should run at all.
	Enabled() bool
	// Recognize inspects the board around trigger and returns every
	// pattern found. An empty result is the normal quiet outcome, not
	// an error.
	Recognize(s *grid.Store, trigger grid.Position) ([]Pattern, error)
}

// MatchRecognizer discovers connected groups of same-type blocks by
// flood fill around the trigger. A placement can complete a group it
// does not belong to, so the search seeds from every occupied cell
// within two orthogonal steps of the trigger, not just the trigger
// itself.
type MatchRecognizer struct {
	// MinGroup is the smallest component size that forms a pattern.
	MinGroup int
	// MaxPatterns caps how many patterns a single pass may emit.
	MaxPatterns int
	// Disabled turns the recognizer off without unwiring it.
	Disabled bool
}

// NewMatchRecognizer returns a recognizer with the standard limits.
func NewMatchRecognizer() *MatchRecognizer {
	return &MatchRecognizer{MinGroup: 3, MaxPatterns: 8}
}

// Kind implements Recognizer.
func (r *MatchRecognizer) Kind() Kind {
	return KindMatch
}

// Enabled implements Recognizer.
func (r *MatchRecognizer) Enabled() bool {
	return !r.Disabled
}

// Recognize implements Recognizer. Each connected component yields at
// most one pattern no matter how many seeds touch it.
func (r *MatchRecognizer) Recognize(s *grid.Store, trigger grid.Position) ([]Pattern, error) {
	if s == nil {
		return nil, fmt.Errorf("pattern: recognize: nil store")
	}
	if !s.InBounds(trigger) {
		return nil, fmt.Errorf("pattern: recognize at %s: %w", trigger, grid.ErrOutOfBounds)
	}

	var found []Pattern
	visited := make(map[grid.Position]bool)
	for _, seed := range r.seeds(s, trigger) {
		if len(found) >= r.MaxPatterns {
			break
		}
		if visited[seed] {
			continue
		}
		block, ok := s.At(seed)
		if !ok {
			continue
		}
		cells := flood(s, seed, block.Type, visited)
		if len(cells) < r.MinGroup {
			continue
		}
		p, err := NewMatch(block.Type, cells)
		if err != nil {
			return nil, fmt.Errorf("pattern: recognize at %s: %w", trigger, err)
		}
		found = append(found, p)
	}
	return found, nil
}

// seeds collects the occupied cells within Manhattan distance two of
// the trigger, the trigger cell included when occupied.
func (r *MatchRecognizer) seeds(s *grid.Store, trigger grid.Position) []grid.Position {
	var out []grid.Position
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if abs(dx)+abs(dy) > 2 {
				continue
			}
			p := trigger.Add(dx, dy)
			if !s.InBounds(p) || s.IsEmpty(p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// flood walks the 4-connected component of want-typed blocks containing
// start, marking every member in visited so later seeds skip it.
func flood(s *grid.Store, start grid.Position, want grid.BlockType, visited map[grid.Position]bool) []grid.Position {
	visited[start] = true
	queue := []grid.Position{start}
	var cells []grid.Position
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cells = append(cells, cur)
		for _, n := range cur.Neighbors4() {
			if visited[n] || !s.InBounds(n) {
				continue
			}
			b, ok := s.At(n)
			if !ok || b.Type != want {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
