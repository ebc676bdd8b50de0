package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/pawmart/backend/internal/domain/shared"
)

// CapturingEventHandler records every domain event it receives. Use it to
// assert that services publish the expected events.
type CapturingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewCapturingEventHandler creates a handler subscribed to the given
// event types.
func NewCapturingEventHandler(eventTypes ...string) *CapturingEventHandler {
	return &CapturingEventHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

// EventTypes returns the event types this handler subscribes to.
func (h *CapturingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records the event and returns the configured error, if any.
func (h *CapturingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of all recorded events.
func (h *CapturingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.DomainEvent, len(h.handled))
	copy(result, h.handled)
	return result
}

// HandledCount returns the number of recorded events.
func (h *CapturingEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// SetError makes subsequent Handle calls fail with err.
func (h *CapturingEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitForEvents blocks until the handler has recorded at least n events
// or the timeout elapses. Returns true when the count was reached.
func (h *CapturingEventHandler) WaitForEvents(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if h.HandledCount() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return h.HandledCount() >= n
}
