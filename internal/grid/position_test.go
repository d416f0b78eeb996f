package grid

import "testing"

func TestNeighbors4(t *testing.T) {
	n := P(3, 3).Neighbors4()
	want := map[Position]bool{
		P(3, 2): true,
		P(3, 4): true,
		P(2, 3): true,
		P(4, 3): true,
	}
	for _, p := range n {
		if !want[p] {
			t.Errorf("unexpected neighbor %s", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("missing neighbors: %v", want)
	}
}

func TestManhattan(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want int
	}{
		{"same cell", P(2, 2), P(2, 2), 0},
		{"orthogonal", P(2, 2), P(2, 3), 1},
		{"diagonal", P(0, 0), P(1, 1), 2},
		{"negative direction", P(3, 3), P(0, 1), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Manhattan(tt.b); got != tt.want {
				t.Errorf("Manhattan(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Manhattan(tt.a); got != tt.want {
				t.Errorf("Manhattan is not symmetric for %s, %s", tt.a, tt.b)
			}
		})
	}
}

func TestNewBlockIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b := NewBlock(TypeWork, 1, P(0, 0))
		if len(b.ID) != 8 {
			t.Fatalf("block id %q has length %d, want 8", b.ID, len(b.ID))
		}
		if seen[b.ID] {
			t.Fatalf("duplicate block id %q", b.ID)
		}
		seen[b.ID] = true
	}
}
