package pattern

import (
	"errors"
	"testing"

	"github.com/vovakirdan/mergelife/internal/grid"
)

// buildBoard fills a store from rows of type runes:
// 'w' work, 's' study, 'p' sport, 'c' social, 'r' rest, '.' empty.
// Every block is tier 1.
func buildBoard(t *testing.T, rows []string) *grid.Store {
	t.Helper()

	types := map[rune]grid.BlockType{
		'w': grid.TypeWork,
		's': grid.TypeStudy,
		'p': grid.TypeSport,
		'c': grid.TypeSocial,
		'r': grid.TypeRest,
	}

	s := grid.NewStore(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, r := range row {
			if r == '.' {
				continue
			}
			bt, ok := types[r]
			if !ok {
				t.Fatalf("unknown fixture rune %q", r)
			}
			if err := s.Place(grid.NewBlock(bt, 1, grid.P(x, y))); err != nil {
				t.Fatalf("Place at (%d,%d) failed: %v", x, y, err)
			}
		}
	}
	return s
}

func TestRecognizeRow(t *testing.T) {
	s := buildBoard(t, []string{
		"www..",
		".....",
		".....",
	})

	got, err := NewMatchRecognizer().Recognize(s, grid.P(2, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("found %d patterns, want 1", len(got))
	}
	p := got[0]
	if p.Type != grid.TypeWork || p.Size() != 3 {
		t.Errorf("pattern = %s x%d, want work x3", p.Type, p.Size())
	}
	for _, c := range []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)} {
		if !p.Contains(c) {
			t.Errorf("pattern missing cell %s", c)
		}
	}
}

func TestRecognizeComponentOnce(t *testing.T) {
	// One L-shaped component of five cells. Whichever cell triggers,
	// the pass must report the whole component exactly once.
	s := buildBoard(t, []string{
		"w....",
		"w....",
		"www..",
	})

	triggers := []grid.Position{grid.P(0, 0), grid.P(0, 2), grid.P(2, 2), grid.P(1, 1)}
	for _, trigger := range triggers {
		got, err := NewMatchRecognizer().Recognize(s, trigger)
		if err != nil {
			t.Fatalf("Recognize at %s failed: %v", trigger, err)
		}
		if len(got) != 1 {
			t.Fatalf("trigger %s found %d patterns, want 1", trigger, len(got))
		}
		if got[0].Size() != 5 {
			t.Errorf("trigger %s found %d cells, want 5", trigger, got[0].Size())
		}
		if got[0].Priority != 5 {
			t.Errorf("trigger %s priority = %d, want 5", trigger, got[0].Priority)
		}
	}
}

func TestRecognizeIgnoresSmallGroups(t *testing.T) {
	s := buildBoard(t, []string{
		"ww...",
		".....",
		"s....",
	})

	got, err := NewMatchRecognizer().Recognize(s, grid.P(1, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("found %d patterns from a pair, want 0", len(got))
	}
}

func TestRecognizeDiagonalNotConnected(t *testing.T) {
	s := buildBoard(t, []string{
		"w....",
		".w...",
		"..w..",
	})

	got, err := NewMatchRecognizer().Recognize(s, grid.P(1, 1))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("diagonal blocks formed %d patterns, want 0", len(got))
	}
}

func TestRecognizeTypeBoundary(t *testing.T) {
	// Two touching groups of different types stay separate components.
	s := buildBoard(t, []string{
		"www..",
		"sss..",
	})

	got, err := NewMatchRecognizer().Recognize(s, grid.P(1, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d patterns, want 2", len(got))
	}
	byType := map[grid.BlockType]int{}
	for _, p := range got {
		byType[p.Type] = p.Size()
	}
	if byType[grid.TypeWork] != 3 || byType[grid.TypeStudy] != 3 {
		t.Errorf("component sizes by type = %v, want work:3 study:3", byType)
	}
}

func TestRecognizeSeedRadius(t *testing.T) {
	// The nearest group cell is two steps from the trigger, so the
	// group is seeded and the flood reaches the rest of it.
	s := buildBoard(t, []string{
		"..www",
	})
	got, err := NewMatchRecognizer().Recognize(s, grid.P(0, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 1 || got[0].Size() != 3 {
		t.Fatalf("group at distance 2 not found, got %d patterns", len(got))
	}

	// Three steps away is outside the seed radius.
	far := buildBoard(t, []string{
		"...www.",
	})
	got, err = NewMatchRecognizer().Recognize(far, grid.P(0, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("group at distance 3 found, want none")
	}
}

func TestRecognizeEmptyTriggerCell(t *testing.T) {
	// The trigger cell itself is empty; the neighboring group still
	// counts because seeding covers adjacent cells.
	s := buildBoard(t, []string{
		".www.",
	})

	got, err := NewMatchRecognizer().Recognize(s, grid.P(0, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("found %d patterns, want 1", len(got))
	}
}

func TestRecognizeIsolatedTrigger(t *testing.T) {
	s := buildBoard(t, []string{
		"w....",
		".....",
		".....",
		".....",
		"..www",
	})

	got, err := NewMatchRecognizer().Recognize(s, grid.P(0, 0))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("isolated trigger found %d patterns, want 0", len(got))
	}
}

func TestRecognizeMaxPatterns(t *testing.T) {
	s := buildBoard(t, []string{
		"www..",
		".....",
		"sss..",
	})

	r := NewMatchRecognizer()
	r.MaxPatterns = 1
	got, err := r.Recognize(s, grid.P(1, 1))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("found %d patterns with cap 1, want 1", len(got))
	}
}

func TestRecognizeOutOfBounds(t *testing.T) {
	s := grid.NewStore(3, 3)
	_, err := NewMatchRecognizer().Recognize(s, grid.P(7, 7))
	if !errors.Is(err, grid.ErrOutOfBounds) {
		t.Errorf("Recognize out of bounds error = %v, want ErrOutOfBounds", err)
	}
}

func TestRecognizerEnabled(t *testing.T) {
	r := NewMatchRecognizer()
	if !r.Enabled() {
		t.Error("fresh recognizer reports disabled")
	}
	r.Disabled = true
	if r.Enabled() {
		t.Error("Disabled flag ignored")
	}
}
