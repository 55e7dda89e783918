package events

import (
	"context"
	"sync"
	"time"
)

// EventKind says what happened to the loaded card data
type EventKind string

const (
	// EventReloaded is emitted after a full reload swapped in new data
	EventReloaded EventKind = "reloaded"
	// EventCleared is emitted after the loader cache was cleared
	EventCleared EventKind = "cleared"
)

// Event is delivered to subscribers
type Event struct {
	Kind       EventKind `json:"kind"`
	Themes     int       `json:"themes"`
	TotalCards int       `json:"totalCards"`
	At         time.Time `json:"at"`
}

// subscriberBuffer is how many undelivered events a subscriber may hold
// before further events to it are dropped
const subscriberBuffer = 8

// ISubscription defines the contract for subscription objects
type ISubscription interface {
	// Chan returns a read-only channel for self-handling events
	Chan() <-chan Event
	// Cancel unsubscribes and closes the channel. Safe for repeated calls
	Cancel()
	// Watch starts a goroutine that calls cb on each event.
	// When parentCtx finishes, the subscription is automatically cancelled
	Watch(parentCtx context.Context, cb func(Event)) ISubscription
}

// ISubscriptionManager defines the contract for managing subscriptions
type ISubscriptionManager interface {
	// Subscribe creates a new subscription and returns it
	Subscribe() ISubscription
	// Emit sends the event to all subscribers (non-blocking if their channel is full)
	Emit(ctx context.Context, event Event)
}

type Subscription struct {
	ch     chan Event
	mgr    *SubscriptionManager
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling events.
func (s *Subscription) Chan() <-chan Event { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mgr.unsubscribe(s.ch)
	})
}

// Watch starts a goroutine that calls cb on each event.
// When parentCtx finishes, the subscription is automatically cancelled.
func (s *Subscription) Watch(parentCtx context.Context, cb func(Event)) ISubscription {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	go func(ctx context.Context) {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-s.ch:
				if !ok {
					return
				}
				cb(event)
			}
		}
	}(ctx)

	return s
}

type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[chan Event]struct{}),
	}
}

func (m *SubscriptionManager) Subscribe() ISubscription {
	ch := make(chan Event, subscriberBuffer)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &Subscription{ch: ch, mgr: m}
}

func (m *SubscriptionManager) unsubscribe(ch chan Event) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Count returns the number of active subscriptions
func (m *SubscriptionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// Emit sends the event to all subscribers (non-blocking if their channel is full).
func (m *SubscriptionManager) Emit(ctx context.Context, event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		select {
		case <-ctx.Done():
			return
		case sub <- event:
		default:
			// Subscriber is behind; drop rather than block the emitter
		}
	}
}
