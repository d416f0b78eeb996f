// Package pattern defines the block formations the engine acts on and
// the recognizers that discover them on the board.
package pattern

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/vovakirdan/mergelife/internal/grid"
)

// Kind discriminates the closed set of pattern variants.
type Kind int

const (
	// KindMatch is a connected group of three or more same-type blocks
	// that clears for a reward.
	KindMatch Kind = iota
	// KindTierUp is exactly three same-type, same-tier blocks that
	// combine into one block of the next tier.
	KindTierUp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindTierUp:
		return "tierup"
	default:
		return "unknown"
	}
}

// Pattern is a snapshot of a recognized formation. It records cell
// positions, not blocks: the board can change between recognition and
// execution, so executors re-validate against the live store before
// acting.
type Pattern struct {
	Kind Kind
	// ID is stable for a given kind, type and cell set, independent of
	// the order cells were discovered in.
	ID   string
	Type grid.BlockType
	// Tier is the shared member tier for KindTierUp and zero for
	// KindMatch, where members may span tiers.
	Tier  int
	Cells []grid.Position
	// Priority orders execution when one trigger yields several
	// patterns. Higher runs first.
	Priority int
}

// NewMatch builds a match pattern over the given component cells.
// The cells must be three or more, distinct, and 4-connected.
// Priority equals the component size, so bigger groups outrank
// smaller ones.
func NewMatch(t grid.BlockType, cells []grid.Position) (Pattern, error) {
	if len(cells) < 3 {
		return Pattern{}, fmt.Errorf("pattern: match needs at least 3 cells, got %d", len(cells))
	}
	if err := checkCells(cells); err != nil {
		return Pattern{}, fmt.Errorf("pattern: match: %w", err)
	}
	return Pattern{
		Kind:     KindMatch,
		ID:       patternID(KindMatch, t, cells),
		Type:     t,
		Cells:    copyCells(cells),
		Priority: len(cells),
	}, nil
}

// NewTierUp builds a tier-up pattern over exactly three cells holding
// blocks of one type and one tier.
func NewTierUp(t grid.BlockType, tier int, cells []grid.Position) (Pattern, error) {
	if len(cells) != 3 {
		return Pattern{}, fmt.Errorf("pattern: tier-up needs exactly 3 cells, got %d", len(cells))
	}
	if tier < 1 {
		return Pattern{}, fmt.Errorf("pattern: tier-up tier %d below 1", tier)
	}
	if err := checkCells(cells); err != nil {
		return Pattern{}, fmt.Errorf("pattern: tier-up: %w", err)
	}
	return Pattern{
		Kind:     KindTierUp,
		ID:       patternID(KindTierUp, t, cells),
		Type:     t,
		Tier:     tier,
		Cells:    copyCells(cells),
		Priority: len(cells),
	}, nil
}

// Size returns the member count.
func (p Pattern) Size() int {
	return len(p.Cells)
}

// Contains reports whether pos is one of the member cells.
func (p Pattern) Contains(pos grid.Position) bool {
	for _, c := range p.Cells {
		if c == pos {
			return true
		}
	}
	return false
}

// ValidFor re-checks the pattern against the live board: every member
// cell must still hold a block of the pattern's type, and for tier-up
// patterns the recorded tier. A stale pattern must not be executed.
func (p Pattern) ValidFor(s *grid.Store) bool {
	for _, c := range p.Cells {
		b, ok := s.At(c)
		if !ok || b.Type != p.Type {
			return false
		}
		if p.Kind == KindTierUp && b.Tier != p.Tier {
			return false
		}
	}
	return true
}

// checkCells rejects duplicate members and cell sets that do not form
// one 4-connected component.
func checkCells(cells []grid.Position) error {
	member := make(map[grid.Position]bool, len(cells))
	for _, c := range cells {
		if member[c] {
			return fmt.Errorf("duplicate cell %s", c)
		}
		member[c] = true
	}

	// Flood from the first cell; every member must be reachable.
	reached := map[grid.Position]bool{cells[0]: true}
	queue := []grid.Position{cells[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors4() {
			if member[n] && !reached[n] {
				reached[n] = true
				queue = append(queue, n)
			}
		}
	}
	if len(reached) != len(cells) {
		return fmt.Errorf("cells are not 4-connected")
	}
	return nil
}

func copyCells(cells []grid.Position) []grid.Position {
	out := make([]grid.Position, len(cells))
	copy(out, cells)
	return out
}

// patternID derives a stable identifier from the kind, type and the
// sorted cell set.
func patternID(k Kind, t grid.BlockType, cells []grid.Position) string {
	sorted := copyCells(cells)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s", k, t)
	for _, c := range sorted {
		fmt.Fprintf(h, ":%d,%d", c.X, c.Y)
	}
	return fmt.Sprintf("%s-%016x", k, h.Sum64())
}
