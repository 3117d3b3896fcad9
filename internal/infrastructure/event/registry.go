package event

import (
	"sync"

	"github.com/rentfold/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to their subscribed handlers. A
// handler registered without event types subscribes to everything.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register subscribes a handler to the given event types, or to all
// events when none are named.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.catchAll = append(r.catchAll, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.byType[eventType] = append(r.byType[eventType], handler)
	}
}

// Unregister drops a handler from every subscription it holds.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.catchAll = without(r.catchAll, handler)
	for eventType, handlers := range r.byType {
		remaining := without(handlers, handler)
		if len(remaining) == 0 {
			delete(r.byType, eventType)
			continue
		}
		r.byType[eventType] = remaining
	}
}

// GetHandlers returns the handlers subscribed to eventType, with the
// catch-all handlers appended.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.byType[eventType]
	all := make([]shared.EventHandler, 0, len(matched)+len(r.catchAll))
	all = append(all, matched...)
	return append(all, r.catchAll...)
}

// GetAllHandlers returns every registered handler once, regardless of
// how many subscriptions it holds.
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]bool)
	var unique []shared.EventHandler
	collect := func(handlers []shared.EventHandler) {
		for _, h := range handlers {
			if seen[h] {
				continue
			}
			seen[h] = true
			unique = append(unique, h)
		}
	}

	collect(r.catchAll)
	for _, handlers := range r.byType {
		collect(handlers)
	}
	return unique
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	kept := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			kept = append(kept, h)
		}
	}
	return kept
}
