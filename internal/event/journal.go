package event

import "sync"

// Journal records events in memory. It backs headless simulation and
// tests, where nothing drains a live channel.
type Journal struct {
	mu     sync.Mutex
	events []Event
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Publish implements Sink.
func (j *Journal) Publish(e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, e)
}

// Drain returns the recorded events and clears the journal.
func (j *Journal) Drain() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := j.events
	j.events = nil
	return out
}

// Snapshot returns a copy of the recorded events without clearing.
func (j *Journal) Snapshot() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}

// Len reports how many events are recorded.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.events)
}

var (
	_ Sink = (*Bus)(nil)
	_ Sink = (*Journal)(nil)
)
