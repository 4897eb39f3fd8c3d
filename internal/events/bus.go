package events

import (
	evbus "github.com/asaskevich/EventBus"

	"Artfi/internal/ledger"
)

// AllTopic receives every event regardless of kind.
const AllTopic = "*"

// Bus fans committed events out to in-process subscribers. Each event is
// published on its kind topic and on AllTopic.
type Bus struct {
	bus evbus.Bus
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// Emit publishes ev.
func (b *Bus) Emit(ev ledger.Event) {
	b.bus.Publish(ev.Kind, ev)
	b.bus.Publish(AllTopic, ev)
}

// Subscribe registers fn for events of kind (or AllTopic).
func (b *Bus) Subscribe(kind string, fn func(ev ledger.Event)) error {
	return b.bus.Subscribe(kind, fn)
}

// SubscribeAsync registers fn to run on its own goroutine. Use Wait to drain.
func (b *Bus) SubscribeAsync(kind string, fn func(ev ledger.Event)) error {
	return b.bus.SubscribeAsync(kind, fn, true)
}

// Unsubscribe removes a handler registered with Subscribe.
func (b *Bus) Unsubscribe(kind string, fn func(ev ledger.Event)) error {
	return b.bus.Unsubscribe(kind, fn)
}

// Wait blocks until every asynchronous handler has returned.
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}
