package event

import (
	"sync"
	"sync/atomic"
)

// Sink accepts published events. Publish must never block the caller.
type Sink interface {
	Publish(Event)
}

// Bus fans events out to one consumer over a buffered channel.
// Publish never blocks: when the buffer is full the event is dropped
// and counted instead.
type Bus struct {
	ch      chan Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// DefaultBufferSize is used when NewBus gets a non-positive size.
const DefaultBufferSize = 256

// NewBus creates a bus with the given buffer size.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Bus{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// Publish implements Sink. Events published after Close are dropped.
func (b *Bus) Publish(e Event) {
	select {
	case <-b.done:
		b.dropped.Add(1)
		return
	default:
	}
	select {
	case b.ch <- e:
	default:
		b.dropped.Add(1)
	}
}

// Events returns the receive side of the bus. The channel is never
// closed; consumers select on Done to stop.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Done is closed when the bus shuts down.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Close stops the bus. Events already buffered can still be received.
func (b *Bus) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}

// Dropped reports how many events were discarded on a full buffer or
// after Close.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
