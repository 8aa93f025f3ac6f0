package bookmap

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// NewChangesHook is called with the new events of a poll cycle, add events
// first. It is never called with an empty slice.
type NewChangesHook func(ctx context.Context, events []books.ChangeEvent)

// Hooks provides event callback registration.
type Hooks interface {
	// OnNewChanges registers a callback for new change events
	OnNewChanges(fn NewChangesHook)
}

// OnNewChanges registers a callback for new change events.
func (c *client) OnNewChanges(fn NewChangesHook) {
	c.hooks.OnNewChanges(fn)
}

// hooks manages event callbacks.
type hooks struct {
	mu           sync.RWMutex
	onNewChanges []NewChangesHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnNewChanges registers fn. Nil hooks are ignored.
func (h *hooks) OnNewChanges(fn NewChangesHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNewChanges = append(h.onNewChanges, fn)
}

// triggerNewChanges calls every hook in registration order. A panicking
// hook is logged and does not prevent the others from running.
func (h *hooks) triggerNewChanges(ctx context.Context, events []books.ChangeEvent) {
	if len(events) == 0 {
		return
	}
	h.mu.RLock()
	fns := append([]NewChangesHook{}, h.onNewChanges...)
	h.mu.RUnlock()

	for i, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.FromContext(ctx).Error().
						Int("hook", i).
						Str("panic", fmt.Sprint(r)).
						Msg("New changes hook panicked")
				}
			}()
			fn(ctx, append([]books.ChangeEvent{}, events...))
		}()
	}
}
