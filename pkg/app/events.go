package app

import (
	"log/slog"
	"sync"

	"github.com/aretw0/enhance/internal/logging"
)

// Handler receives the payload of an emitted event.
type Handler func(payload any)

// Subscription identifies a registered handler so it can be removed with Off.
type Subscription struct {
	event string
	id    uint64
}

type subscriber struct {
	id   uint64
	fn   Handler
	once bool
}

// Emitter is a synchronous, in-process event emitter.
// Handlers run in subscription order on the emitting goroutine.
// Safe for concurrent use.
type Emitter struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber
	logger *slog.Logger
}

// NewEmitter creates an emitter. A nil logger discards output.
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Emitter{
		subs:   make(map[string][]subscriber),
		logger: logger,
	}
}

// On registers fn for every emission of event.
func (e *Emitter) On(event string, fn Handler) Subscription {
	return e.add(event, fn, false)
}

// Once registers fn for the next emission of event only.
func (e *Emitter) Once(event string, fn Handler) Subscription {
	return e.add(event, fn, true)
}

func (e *Emitter) add(event string, fn Handler, once bool) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	e.subs[event] = append(e.subs[event], subscriber{id: e.nextID, fn: fn, once: once})
	return Subscription{event: event, id: e.nextID}
}

// Off removes a subscription. It reports whether the subscription was active.
func (e *Emitter) Off(sub Subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.subs[sub.event]
	for i, s := range list {
		if s.id == sub.id {
			e.subs[sub.event] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of handlers subscribed to event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs[event])
}

// Emit delivers payload to every handler of event and returns how many ran.
// A panicking handler is recovered and logged; the remaining handlers still run.
func (e *Emitter) Emit(event string, payload any) int {
	e.mu.Lock()
	list := e.subs[event]
	handlers := make([]Handler, 0, len(list))
	kept := list[:0:0]
	for _, s := range list {
		handlers = append(handlers, s.fn)
		if !s.once {
			kept = append(kept, s)
		}
	}
	e.subs[event] = kept
	e.mu.Unlock()

	if len(handlers) == 0 {
		e.logger.Debug("event dropped, no listeners", "event", event)
		return 0
	}

	for _, fn := range handlers {
		e.deliver(event, fn, payload)
	}
	return len(handlers)
}

func (e *Emitter) deliver(event string, fn Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event handler panicked", "event", event, "panic", r)
		}
	}()
	fn(payload)
}
