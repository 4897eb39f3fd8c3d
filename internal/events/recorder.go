package events

import (
	"github.com/sasha-s/go-deadlock"

	"Artfi/internal/ledger"
)

// Recorder keeps committed events in memory.
type Recorder struct {
	mu     deadlock.Mutex
	events []ledger.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit appends ev.
func (r *Recorder) Emit(ev ledger.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded.
func (r *Recorder) Events() []ledger.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ledger.Event, len(r.events))
	copy(out, r.events)

	return out
}

// Kinds returns the kinds of recorded events in order.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]string, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}

	return kinds
}

// Last returns the most recent event of kind and whether one exists.
func (r *Recorder) Last(kind string) (ledger.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}

	return ledger.Event{}, false
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}
