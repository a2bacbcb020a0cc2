package dag

import "sync"

// Guarded shares a graph between goroutines. Readers and writers obtain
// the graph only inside a callback, so the lock is held exactly for the
// duration of the callback and released on every return path.
type Guarded struct {
	mu sync.RWMutex
	g  *DAG
}

// NewGuarded wraps g. The caller must not use g directly afterwards.
func NewGuarded(g *DAG) *Guarded {
	if g == nil {
		g = New(nil)
	}
	return &Guarded{g: g}
}

// Read calls fn with the graph under a shared lock. fn must not modify
// the graph or retain it after returning.
func (s *Guarded) Read(fn func(*DAG) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.g)
}

// Replace swaps in g under the exclusive lock. A nil g installs an empty
// graph.
func (s *Guarded) Replace(g *DAG) {
	if g == nil {
		g = New(nil)
	}
	s.mu.Lock()
	s.g = g
	s.mu.Unlock()
}

// Write calls fn with the graph under an exclusive lock.
func (s *Guarded) Write(fn func(*DAG) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.g)
}
