// ==============================================================================
// RUN CONTROLLER - internal/pipeline/controller.go
// ==============================================================================
package pipeline

import (
	"context"
	"sync"

	"verid/internal/domain"
	"verid/internal/session"
	veriderrors "verid/pkg/errors"
)

// Controller serializes runs per session with generation tokens. When a user
// resubmits before the previous run settles, the stale run's context is
// cancelled and its results are discarded rather than merged.
type Controller struct {
	pipe *Pipeline

	mu      sync.Mutex
	entries map[string]*runEntry
}

type runEntry struct {
	gen    uint64
	cancel context.CancelFunc
}

func NewController(pipe *Pipeline) *Controller {
	return &Controller{
		pipe:    pipe,
		entries: make(map[string]*runEntry),
	}
}

// Submit starts a new run for the session, superseding any in-flight one.
// It returns ErrRunSuperseded when this run was itself overtaken before it
// settled; the stale outcome is dropped.
func (c *Controller) Submit(ctx context.Context, sessionID string, tier domain.Tier, draft *domain.Draft, sess session.Context, sink Sink) (*domain.Outcome, error) {
	if sink == nil {
		sink = NopSink
	}

	c.mu.Lock()
	entry, ok := c.entries[sessionID]
	if !ok {
		entry = &runEntry{}
		c.entries[sessionID] = entry
	}
	if entry.cancel != nil {
		entry.cancel()
	}
	entry.gen++
	gen := entry.gen
	runCtx, cancel := context.WithCancel(ctx)
	entry.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	guarded := SinkFunc(func(result domain.PartialResult) {
		if c.current(sessionID) == gen {
			sink.Publish(result)
		}
	})

	outcome := c.pipe.Run(runCtx, sessionID, tier, draft, sess, guarded)

	if c.current(sessionID) != gen {
		return nil, veriderrors.ErrRunSuperseded
	}
	return outcome, nil
}

func (c *Controller) current(sessionID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[sessionID]; ok {
		return entry.gen
	}
	return 0
}
