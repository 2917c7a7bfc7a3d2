package datastore

import (
	"context"
	"sync"
)

type running struct {
	kind   Kind
	seq    uint64
	cancel context.CancelFunc
}

// Executor keeps the cancel funcs of in-flight fetches. Starting a stats
// fetch cancels every older stats fetch still running; their responses would
// be dropped by the store anyway.
type Executor struct {
	mu        sync.Mutex
	contexts  map[string]running
	closed    bool
	closeOnce sync.Once
}

func NewExecutor() *Executor {
	return &Executor{contexts: make(map[string]running)}
}

// Context derives the context req runs under. After Close it returns an
// already cancelled context.
func (e *Executor) Context(parent context.Context, req Request) context.Context {
	ctx, cancel := context.WithCancel(parent)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		cancel()
		return ctx
	}
	if req.Kind == KindStats {
		for id, r := range e.contexts {
			if r.kind == KindStats && r.seq < req.Seq {
				r.cancel()
				delete(e.contexts, id)
			}
		}
	}
	e.contexts[req.ID] = running{kind: req.Kind, seq: req.Seq, cancel: cancel}
	return ctx
}

// Done releases req's context.
func (e *Executor) Done(req Request) {
	e.mu.Lock()
	r, ok := e.contexts[req.ID]
	delete(e.contexts, req.ID)
	e.mu.Unlock()

	if ok {
		r.cancel()
	}
}

// CancelAll cancels every tracked request.
func (e *Executor) CancelAll() {
	e.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(e.contexts))
	for id, r := range e.contexts {
		cancels = append(cancels, r.cancel)
		delete(e.contexts, id)
	}
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Close cancels everything and refuses new work.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		e.CancelAll()
	})
}

// Active is the number of tracked requests.
func (e *Executor) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.contexts)
}
