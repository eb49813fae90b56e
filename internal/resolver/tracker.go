package resolver

import (
	"context"
	"sync"
)

// Ticket identifies one in-flight fetch.
type Ticket struct {
	scope string
	level Level
	gen   uint64
}

type token struct {
	gen    uint64
	cancel context.CancelFunc
}

// Tracker hands out abort tokens per scope and level. Starting a fetch
// cancels any in-flight fetch of the same scope at the same or a deeper
// level; a cancelled fetch's result is no longer current.
type Tracker struct {
	mu       sync.Mutex
	gen      uint64
	inflight map[string]map[Level]token
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{inflight: make(map[string]map[Level]token)}
}

// Begin registers a fetch and returns the context it must run under.
func (t *Tracker) Begin(ctx context.Context, scope string, level Level) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.invalidateLocked(scope, level)
	t.gen++
	levels := t.inflight[scope]
	if levels == nil {
		levels = make(map[Level]token)
		t.inflight[scope] = levels
	}
	levels[level] = token{gen: t.gen, cancel: cancel}
	return ctx, Ticket{scope: scope, level: level, gen: t.gen}
}

// Current reports whether tk is still the latest fetch for its scope and level.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, ok := t.inflight[tk.scope][tk.level]
	return ok && tok.gen == tk.gen
}

// Done releases tk. Its context is cancelled either way.
func (t *Tracker) Done(tk Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	levels := t.inflight[tk.scope]
	tok, ok := levels[tk.level]
	if !ok || tok.gen != tk.gen {
		return
	}
	tok.cancel()
	delete(levels, tk.level)
	if len(levels) == 0 {
		delete(t.inflight, tk.scope)
	}
}

// Invalidate cancels every in-flight fetch of scope at level or deeper.
func (t *Tracker) Invalidate(scope string, level Level) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalidateLocked(scope, level)
}

// Forget cancels everything in flight for scope.
func (t *Tracker) Forget(scope string) {
	t.Invalidate(scope, LevelPathway)
}

// InFlight returns the number of fetches currently running for scope.
func (t *Tracker) InFlight(scope string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight[scope])
}

func (t *Tracker) invalidateLocked(scope string, level Level) {
	levels := t.inflight[scope]
	for l, tok := range levels {
		if l >= level {
			tok.cancel()
			delete(levels, l)
		}
	}
	if len(levels) == 0 {
		delete(t.inflight, scope)
	}
}
