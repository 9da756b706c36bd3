// Package eventbus implements the bounded broadcast pub/sub that the four
// agents use to observe each other's progress on an incident. It never
// blocks a publisher: a subscriber that falls behind has its oldest
// buffered events dropped rather than stalling the whole bus.
package eventbus

import (
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// Capacity is the fixed per-subscriber channel buffer size, matching the
// original's broadcast channel capacity.
const Capacity = 1024

// EventFilter can narrow a subscription to specific event kinds or a
// specific correlation ID. It exists as a usable value type but
// Subscribe does not apply it — callers that want filtering do it in
// their own receive loop, matching the original implementation's
// unused-filter field.
type EventFilter struct {
	Kinds         []domain.AgentEventType
	CorrelationID *uuid.UUID
}

// Matches reports whether an event satisfies the filter. Exposed for
// subscribers that choose to filter manually.
func (f EventFilter) Matches(e domain.AgentEvent) bool {
	if f.CorrelationID != nil && *f.CorrelationID != e.CorrelationID {
		return false
	}
	if len(f.Kinds) == 0 {
		return true
	}
	for _, k := range f.Kinds {
		if k == e.Kind {
			return true
		}
	}
	return false
}

type subscriber struct {
	id   uuid.UUID
	ch   chan domain.AgentEvent
	lost int
}

// Bus is a bounded, multi-subscriber broadcast channel of domain events.
type Bus struct {
	log  logr.Logger
	mu   sync.Mutex
	subs map[uuid.UUID]*subscriber
}

// New constructs an empty event bus.
func New(log logr.Logger) *Bus {
	return &Bus{log: log, subs: map[uuid.UUID]*subscriber{}}
}

// Subscribe registers a new receiver with its own Capacity-sized buffer
// and returns a read-only channel plus an unsubscribe function.
func (b *Bus) Subscribe() (<-chan domain.AgentEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	sub := &subscriber{id: id, ch: make(chan domain.AgentEvent, Capacity)}
	b.subs[id] = sub

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			close(s.ch)
			delete(b.subs, id)
		}
	}
	return sub.ch, unsubscribe
}

// Publish fans an event out to every subscriber without blocking. A
// subscriber whose buffer is full has its oldest buffered event dropped
// to make room; the drop is counted and logged, never propagated to the
// publisher. Returns the number of receivers the event was fanned out
// to, or an EventBusError if every receiver has been dropped.
func (b *Bus) Publish(event domain.AgentEvent) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.subs) == 0 {
		return 0, apierrors.EventBus("cannot publish %s: every receiver has been dropped", event.Kind)
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			select {
			case <-sub.ch:
				sub.lost++
			default:
			}
			select {
			case sub.ch <- event:
			default:
				sub.lost++
			}
			b.log.V(1).Info("event bus subscriber lagging, dropped oldest event",
				"subscriber", sub.id, "lostCount", sub.lost, "eventKind", event.Kind)
		}
	}
	return len(b.subs), nil
}

// SubscriberCount reports how many active subscribers the bus currently
// has, mainly for tests and health reporting.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
