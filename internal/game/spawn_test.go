package game

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/grid"
)

func testCatalogue() []config.BlockTypeConfig {
	return []config.BlockTypeConfig{
		{ID: "work", SpawnWeight: 30},
		{ID: "rest", SpawnWeight: 15},
		{ID: "study", SpawnWeight: 0},
	}
}

func TestSpawnQueueFillsToSize(t *testing.T) {
	q := NewSpawnQueue(testCatalogue(), 3, rand.New(rand.NewSource(1)))

	if len(q.Items()) != 3 {
		t.Errorf("Queue size = %d, want 3", len(q.Items()))
	}
}

func TestSpawnQueuePopRefills(t *testing.T) {
	q := NewSpawnQueue(testCatalogue(), 3, rand.New(rand.NewSource(1)))

	first := q.Peek()
	popped := q.Pop()

	if popped != first {
		t.Errorf("Pop() = %s, Peek() said %s", popped, first)
	}
	if len(q.Items()) != 3 {
		t.Errorf("Queue should refill after Pop, got %d items", len(q.Items()))
	}
}

func TestSpawnQueueSwap(t *testing.T) {
	q := NewSpawnQueue(testCatalogue(), 3, rand.New(rand.NewSource(1)))
	q.items[0] = grid.TypeWork
	q.items[1] = grid.TypeRest

	q.Swap()

	if q.items[0] != grid.TypeRest || q.items[1] != grid.TypeWork {
		t.Errorf("Swap should exchange the first two, got %v", q.Items()[:2])
	}
}

func TestSpawnQueueSkipsZeroWeight(t *testing.T) {
	q := NewSpawnQueue(testCatalogue(), 3, rand.New(rand.NewSource(7)))

	for i := 0; i < 200; i++ {
		if got := q.Pop(); got == "study" {
			t.Fatal("Zero-weight type should never spawn")
		}
	}
}

func TestSpawnQueueDeterministic(t *testing.T) {
	a := NewSpawnQueue(testCatalogue(), 5, rand.New(rand.NewSource(99)))
	b := NewSpawnQueue(testCatalogue(), 5, rand.New(rand.NewSource(99)))

	for i := 0; i < 50; i++ {
		if a.Pop() != b.Pop() {
			t.Fatalf("Same seed should produce the same sequence (diverged at %d)", i)
		}
	}
}

func TestSpawnQueueEmptyCatalogueFallback(t *testing.T) {
	q := NewSpawnQueue(nil, 2, rand.New(rand.NewSource(1)))

	if got := q.Pop(); got != grid.TypeWork {
		t.Errorf("Empty catalogue should fall back to work, got %s", got)
	}
}
