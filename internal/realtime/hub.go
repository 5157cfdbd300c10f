package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// subscriberBuffer bounds how far a slow subscriber may lag before
// events are dropped. Delivery is best-effort, no replay.
const subscriberBuffer = 16

// Hub maps dashboard identifiers to subscribed connections and fans
// mutation events out to them.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
	log  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
		log:  log,
	}
}

// Subscription is one client's registration for a dashboard's events.
type Subscription struct {
	// C delivers events until Close.
	C chan Event

	hub       *Hub
	dashboard string
	once      sync.Once
}

// Subscribe registers a new subscriber for the given dashboard.
func (h *Hub) Subscribe(dashboardID string) *Subscription {
	sub := &Subscription{
		C:         make(chan Event, subscriberBuffer),
		hub:       h,
		dashboard: dashboardID,
	}
	h.mu.Lock()
	set, ok := h.subs[dashboardID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[dashboardID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Close removes the subscription from the hub and closes its channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.dashboard]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.dashboard)
			}
		}
		close(s.C)
		h.mu.Unlock()
	})
}

// Publish delivers the event to every subscriber of its dashboard.
// Sends never block: a subscriber with a full buffer misses the event.
func (h *Hub) Publish(ctx context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[ev.Dashboard()] {
		select {
		case sub.C <- ev:
		default:
			h.log.Warn("dropping event for slow subscriber",
				zap.String("dashboard", ev.Dashboard()),
				zap.String("topic", ev.Topic()))
		}
	}
	return nil
}

// Subscribers reports the current subscriber count for a dashboard.
func (h *Hub) Subscribers(dashboardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[dashboardID])
}
