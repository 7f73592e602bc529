package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultBuffer is the per-subscriber channel depth. A subscriber that falls
// this far behind starts losing events rather than blocking publishers.
const defaultBuffer = 64

// Bus fans events out to subscribers. Publishing never blocks.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]chan Event)}
}

// Publish stamps the event with an ID and timestamp if missing and delivers
// it to every subscriber. Slow subscribers drop events.
func (b *Bus) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel along with an
// unsubscribe function. The channel is closed on unsubscribe.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	id := uuid.New().String()
	ch := make(chan Event, defaultBuffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
