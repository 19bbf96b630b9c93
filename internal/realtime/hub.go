package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 64

// Subscriber receives events for the trips it is subscribed to, in the
// order they were published per trip.
type Subscriber struct {
	send   chan Event
	closed bool
	mu     sync.Mutex
}

func NewSubscriber() *Subscriber {
	return &Subscriber{send: make(chan Event, subscriberBuffer)}
}

// Events is the receive side of the subscriber's queue. The channel is
// closed when the subscriber is dropped from the hub.
func (s *Subscriber) Events() <-chan Event {
	return s.send
}

// push enqueues without blocking. A full buffer means the client is not
// draining; it gets cut off instead of stalling every other subscriber.
func (s *Subscriber) push(evt Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- evt:
		return true
	default:
		return false
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// Hub is the in-process subscription table of the real-time bus. Publish
// runs on the mutating request's goroutine after commit, while it still
// holds the service layer's per-trip lock, so arrival order here is
// commit order.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe(tripID uuid.UUID, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[tripID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subs[tripID] = set
	}
	set[sub] = struct{}{}
}

func (h *Hub) Unsubscribe(tripID uuid.UUID, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[tripID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, tripID)
		}
	}
}

// Drop removes the subscriber from every trip and closes its queue.
func (h *Hub) Drop(sub *Subscriber) {
	h.mu.Lock()
	for tripID, set := range h.subs {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, tripID)
		}
	}
	h.mu.Unlock()
	sub.close()
}

// Publish fans the event out to every subscriber of its trip. Subscribers
// that cannot keep up are dropped.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	set := h.subs[evt.TripID]
	targets := make([]*Subscriber, 0, len(set))
	for sub := range set {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if !sub.push(evt) {
			slog.Warn("dropping slow realtime subscriber", "trip_id", evt.TripID, "kind", evt.Kind)
			h.Drop(sub)
		}
	}
}

// SubscriberCount reports how many subscribers a trip currently has.
func (h *Hub) SubscriberCount(tripID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[tripID])
}
