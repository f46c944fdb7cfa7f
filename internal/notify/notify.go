// internal/notify/notify.go
//
// Workspace-changed notification. The editor runs on a single cooperative
// thread, so delivery is a synchronous callback walk rather than the
// buffered-channel fan-out a multi-threaded host would need.

package notify

import "sync"

// Event describes a workspace transition.
type Event struct {
	// Path is the storage location of the now-active workspace.
	Path string
	// Label is the workspace display label, when known.
	Label string
}

// Handler receives workspace-changed events.
type Handler func(Event)

// Subscription represents an active handler registration.
type Subscription struct {
	cancel func()
}

// Close terminates the subscription.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Hub delivers workspace-changed events to subscribers in registration
// order. Components that cannot receive push notifications keep polling
// as a fallback.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{handlers: map[int]Handler{}}
}

// Subscribe registers a handler for workspace-changed events.
func (h *Hub) Subscribe(handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = handler
	h.order = append(h.order, id)
	h.mu.Unlock()
	return Subscription{cancel: func() { h.remove(id) }}
}

// Publish delivers the event to every subscriber.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.order))
	for _, id := range h.order {
		if handler, ok := h.handlers[id]; ok {
			handlers = append(handlers, handler)
		}
	}
	h.mu.Unlock()
	for _, handler := range handlers {
		handler(event)
	}
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, id)
	for i, existing := range h.order {
		if existing == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}
