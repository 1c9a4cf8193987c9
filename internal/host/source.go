// Package host abstracts the host environment's event delivery. The engine
// never talks to a UI toolkit directly: any host that can deliver the four
// notification kinds (interaction, scroll, navigation, error) can drive it
// by implementing Source, or by publishing into the in-memory Dispatcher.
package host

import (
	"sync"
	"time"
)

// EventKind is one of the four notification kinds a host can deliver.
type EventKind string

const (
	KindInteraction EventKind = "interaction"
	KindScroll      EventKind = "scroll"
	KindNavigation  EventKind = "navigation"
	KindError       EventKind = "error"
)

// Event is a single host notification. Fields are populated depending on
// the kind; unrelated fields stay zero.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// Interaction fields. Success reflects the host's click-success
	// heuristic (absence of error markers on the target).
	Element string `json:"element,omitempty"`
	Success bool   `json:"success,omitempty"`

	// Navigation fields.
	Path string `json:"path,omitempty"`
	Back bool   `json:"back,omitempty"`

	// Error fields.
	ErrorType    string `json:"error_type,omitempty"`
	ErrorContext string `json:"error_context,omitempty"`
}

// Handler receives events for a subscribed kind.
type Handler func(Event)

// Source delivers host events to subscribers. Subscribe returns an
// unsubscribe closure; callers collect these and invoke them on teardown
// so listeners never leak across engine instances.
type Source interface {
	Subscribe(kind EventKind, h Handler) (unsubscribe func())
}

// Dispatcher is an in-memory Source. Hosts publish events into it and the
// signal tracker subscribes. It is safe for concurrent use.
type Dispatcher struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventKind]map[int]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[EventKind]map[int]Handler)}
}

// Subscribe registers h for events of the given kind.
func (d *Dispatcher) Subscribe(kind EventKind, h Handler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.subs[kind] == nil {
		d.subs[kind] = make(map[int]Handler)
	}
	id := d.nextID
	d.nextID++
	d.subs[kind][id] = h

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs[kind], id)
	}
}

// Publish delivers e to all handlers subscribed to its kind. Handlers run
// synchronously on the caller's goroutine, in unspecified order.
func (d *Dispatcher) Publish(e Event) {
	d.mu.Lock()
	handlers := make([]Handler, 0, len(d.subs[e.Kind]))
	for _, h := range d.subs[e.Kind] {
		handlers = append(handlers, h)
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// SubscriberCount returns how many handlers are registered for kind.
func (d *Dispatcher) SubscriberCount(kind EventKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs[kind])
}
