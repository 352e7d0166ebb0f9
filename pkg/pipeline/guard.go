package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// RunGuard tracks the most recent generation run for one interactive
// session. Slow text responses from a superseded run are recognized by
// comparing their run id against the guard and discarded instead of
// overwriting newer output.
//
// The zero value is ready to use. Safe for concurrent use.
type RunGuard struct {
	mu     sync.Mutex
	latest uuid.UUID
}

// Begin starts a new run and returns its identity token. Any run begun
// earlier is superseded from this point on.
func (g *RunGuard) Begin() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest = uuid.New()
	return g.latest
}

// Current reports whether id identifies the most recent run.
func (g *RunGuard) Current(id uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest == id
}
