// Package broadcast fans live state changes out to connected subscribers.
package broadcast

import (
	"context"
	"log"
	"sync"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

// Event names carried on the live channel
const (
	EventSensorUpdate   = "sensor_update"
	EventActuatorUpdate = "actuator_update"
	EventPing           = "ping"
	EventPong           = "pong"
)

// Event is one message on the live channel
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Subscriber receives published events. Send must not block.
type Subscriber interface {
	ID() string
	Send(Event) error
}

// LatestReader provides the reading pushed to new subscribers
type LatestReader interface {
	GetLatestReading(ctx context.Context) (*models.SensorReading, error)
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithCountHook registers a callback invoked with the subscriber count after
// every subscribe and unsubscribe
func WithCountHook(hook func(int)) HubOption {
	return func(h *Hub) {
		h.countHook = hook
	}
}

// Hub maintains the set of active subscribers and attached forwarders
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	forwarders  map[string]Subscriber
	latest      LatestReader
	countHook   func(int)
}

// NewHub creates a hub; latest may be nil when no on-connect push is wanted
func NewHub(latest LatestReader, opts ...HubOption) *Hub {
	h := &Hub{
		subscribers: make(map[string]Subscriber),
		forwarders:  make(map[string]Subscriber),
		latest:      latest,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers s and pushes the latest reading, if any, to s only.
// Publishes wait until the push is done, so s never sees the snapshot after a
// newer event.
func (h *Hub) Subscribe(ctx context.Context, s Subscriber) {
	h.mu.Lock()
	h.pushLatest(ctx, s)
	h.subscribers[s.ID()] = s
	count := len(h.subscribers)
	h.mu.Unlock()

	log.Printf("✓ Subscriber %s connected (%d active)", s.ID(), count)
	h.notifyCount(count)
}

// pushLatest must be called with h.mu held
func (h *Hub) pushLatest(ctx context.Context, s Subscriber) {
	if h.latest == nil {
		return
	}

	reading, err := h.latest.GetLatestReading(ctx)
	if err != nil {
		log.Printf("⚠ Failed to load latest reading for %s: %v", s.ID(), err)
		return
	}
	if reading == nil {
		return
	}

	if err := s.Send(Event{Name: EventSensorUpdate, Data: reading.View()}); err != nil {
		log.Printf("⚠ Failed to push latest reading to %s: %v", s.ID(), err)
	}
}

// Attach registers a forwarder such as the MQTT relay or the Influx mirror.
// Forwarders receive every published event but are not live subscribers:
// they are left out of Count and get no latest reading on attach.
func (h *Hub) Attach(s Subscriber) {
	h.mu.Lock()
	h.forwarders[s.ID()] = s
	h.mu.Unlock()

	log.Printf("✓ Forwarder %s attached", s.ID())
}

// Detach drops a forwarder registered with Attach
func (h *Hub) Detach(s Subscriber) {
	h.mu.Lock()
	delete(h.forwarders, s.ID())
	h.mu.Unlock()
}

// Unsubscribe drops s; unknown subscribers are ignored
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s.ID()]
	delete(h.subscribers, s.ID())
	count := len(h.subscribers)
	h.mu.Unlock()

	if !ok {
		return
	}

	log.Printf("Subscriber %s disconnected (%d active)", s.ID(), count)
	h.notifyCount(count)
}

// Publish delivers the event to every current subscriber and returns how many
// accepted it. Failed deliveries are logged and skipped.
func (h *Hub) Publish(name string, data any) int {
	event := Event{Name: name, Data: data}

	delivered := 0
	for _, s := range h.snapshot() {
		if err := s.Send(event); err != nil {
			log.Printf("⚠ Dropped %s for subscriber %s: %v", name, s.ID(), err)
			continue
		}
		delivered++
	}
	return delivered
}

// Count returns the number of active subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) snapshot() []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := make([]Subscriber, 0, len(h.subscribers)+len(h.forwarders))
	for _, s := range h.subscribers {
		subs = append(subs, s)
	}
	for _, s := range h.forwarders {
		subs = append(subs, s)
	}
	return subs
}

func (h *Hub) notifyCount(count int) {
	if h.countHook != nil {
		h.countHook(count)
	}
}
