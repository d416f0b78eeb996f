package event

import (
	"testing"
	"time"

	"github.com/vovakirdan/mergelife/internal/grid"
)

func placed(id string) BlockPlaced {
	return BlockPlaced{
		BlockID: id,
		Pos:     grid.P(0, 0),
		Type:    grid.TypeWork,
		Tier:    1,
		At:      time.Now(),
	}
}

func TestBusPublishReceive(t *testing.T) {
	b := NewBus(4)
	defer b.Close()

	b.Publish(placed("A"))
	b.Publish(placed("B"))

	select {
	case e := <-b.Events():
		got, ok := e.(BlockPlaced)
		if !ok {
			t.Fatalf("received %T, want BlockPlaced", e)
		}
		if got.BlockID != "A" {
			t.Errorf("received %q first, want A", got.BlockID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	b := NewBus(2)
	defer b.Close()

	for i := 0; i < 5; i++ {
		b.Publish(placed("X"))
	}

	if got := b.Dropped(); got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}
}

func TestBusClose(t *testing.T) {
	b := NewBus(2)
	b.Publish(placed("A"))
	b.Close()
	b.Close() // second close must be a no-op

	select {
	case <-b.Done():
	default:
		t.Fatal("Done not closed after Close")
	}

	// Buffered event is still deliverable; new publishes are dropped.
	select {
	case <-b.Events():
	case <-time.After(time.Second):
		t.Fatal("buffered event lost on Close")
	}

	before := b.Dropped()
	b.Publish(placed("B"))
	if b.Dropped() != before+1 {
		t.Error("publish after Close not counted as dropped")
	}
}

func TestJournal(t *testing.T) {
	j := NewJournal()
	j.Publish(placed("A"))
	j.Publish(BlockRemoved{BlockID: "A", Pos: grid.P(0, 0), Type: grid.TypeWork, Tier: 1})

	if j.Len() != 2 {
		t.Fatalf("Len = %d, want 2", j.Len())
	}

	snap := j.Snapshot()
	if len(snap) != 2 || j.Len() != 2 {
		t.Error("Snapshot must copy without clearing")
	}

	drained := j.Drain()
	if len(drained) != 2 {
		t.Errorf("Drain returned %d events, want 2", len(drained))
	}
	if j.Len() != 0 {
		t.Error("journal not empty after Drain")
	}
}
