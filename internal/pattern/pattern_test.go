package pattern

import (
	"testing"

	"github.com/vovakirdan/mergelife/internal/grid"
)

func TestNewMatchValidation(t *testing.T) {
	tests := []struct {
		name  string
		cells []grid.Position
		ok    bool
	}{
		{"row of three", []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}, true},
		{"l shape", []grid.Position{grid.P(0, 0), grid.P(0, 1), grid.P(1, 1), grid.P(2, 1)}, true},
		{"too few", []grid.Position{grid.P(0, 0), grid.P(1, 0)}, false},
		{"duplicate cell", []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(0, 0)}, false},
		{"disconnected", []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(3, 0)}, false},
		{"diagonal only", []grid.Position{grid.P(0, 0), grid.P(1, 1), grid.P(2, 2)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewMatch(grid.TypeWork, tt.cells)
			if tt.ok && err != nil {
				t.Fatalf("NewMatch failed: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("NewMatch accepted invalid cells")
				}
				return
			}
			if p.Kind != KindMatch {
				t.Errorf("Kind = %v, want KindMatch", p.Kind)
			}
			if p.Priority != len(tt.cells) {
				t.Errorf("Priority = %d, want %d", p.Priority, len(tt.cells))
			}
		})
	}
}

func TestNewTierUpValidation(t *testing.T) {
	trio := []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}

	p, err := NewTierUp(grid.TypeStudy, 2, trio)
	if err != nil {
		t.Fatalf("NewTierUp failed: %v", err)
	}
	if p.Kind != KindTierUp || p.Tier != 2 {
		t.Errorf("got kind %v tier %d, want KindTierUp tier 2", p.Kind, p.Tier)
	}

	if _, err := NewTierUp(grid.TypeStudy, 2, trio[:2]); err == nil {
		t.Error("NewTierUp accepted 2 cells")
	}
	four := append(append([]grid.Position{}, trio...), grid.P(3, 0))
	if _, err := NewTierUp(grid.TypeStudy, 2, four); err == nil {
		t.Error("NewTierUp accepted 4 cells")
	}
	if _, err := NewTierUp(grid.TypeStudy, 0, trio); err == nil {
		t.Error("NewTierUp accepted tier 0")
	}
}

func TestPatternIDStable(t *testing.T) {
	a, err := NewMatch(grid.TypeWork, []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)})
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	b, err := NewMatch(grid.TypeWork, []grid.Position{grid.P(2, 0), grid.P(0, 0), grid.P(1, 0)})
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("same cell set produced different IDs: %q vs %q", a.ID, b.ID)
	}

	c, err := NewMatch(grid.TypeRest, []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)})
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	if a.ID == c.ID {
		t.Error("different block types produced the same ID")
	}

	d, err := NewTierUp(grid.TypeWork, 1, []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)})
	if err != nil {
		t.Fatalf("NewTierUp failed: %v", err)
	}
	if a.ID == d.ID {
		t.Error("different kinds produced the same ID")
	}
}

func TestContains(t *testing.T) {
	p, err := NewMatch(grid.TypeWork, []grid.Position{grid.P(1, 1), grid.P(2, 1), grid.P(3, 1)})
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	if !p.Contains(grid.P(2, 1)) {
		t.Error("Contains missed a member cell")
	}
	if p.Contains(grid.P(2, 2)) {
		t.Error("Contains reported a non-member cell")
	}
}

func TestValidFor(t *testing.T) {
	s := grid.NewStore(5, 5)
	cells := []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}
	for _, c := range cells {
		if err := s.Place(grid.NewBlock(grid.TypeWork, 1, c)); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
	}

	p, err := NewMatch(grid.TypeWork, cells)
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	if !p.ValidFor(s) {
		t.Fatal("fresh pattern reported stale")
	}

	t.Run("member removed", func(t *testing.T) {
		if _, err := s.Remove(grid.P(1, 0)); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if p.ValidFor(s) {
			t.Error("pattern valid with a member cell empty")
		}
	})

	t.Run("member replaced by other type", func(t *testing.T) {
		if err := s.Place(grid.NewBlock(grid.TypeRest, 1, grid.P(1, 0))); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		if p.ValidFor(s) {
			t.Error("pattern valid with a member holding the wrong type")
		}
	})
}

func TestValidForTierUp(t *testing.T) {
	s := grid.NewStore(5, 5)
	cells := []grid.Position{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}
	for _, c := range cells {
		if err := s.Place(grid.NewBlock(grid.TypeSport, 2, c)); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
	}

	p, err := NewTierUp(grid.TypeSport, 2, cells)
	if err != nil {
		t.Fatalf("NewTierUp failed: %v", err)
	}
	if !p.ValidFor(s) {
		t.Fatal("fresh tier-up pattern reported stale")
	}

	// Swap one member for the same type at a different tier.
	if _, err := s.Remove(grid.P(2, 0)); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Place(grid.NewBlock(grid.TypeSport, 3, grid.P(2, 0))); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if p.ValidFor(s) {
		t.Error("tier-up pattern valid with a mismatched member tier")
	}
}
