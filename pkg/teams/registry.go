package teams

import (
	"slices"
	"sync"
)

// Registry keeps the sessions of runs that are still in progress, so their labels can be read while tagging goes on
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Start creates and registers a new session. An existing session with the same id is replaced.
func (r *Registry) Start(id string, p Params) *Session {
	s := NewSession(id, p)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Finish removes a session from the registry
func (r *Registry) Finish(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// IDs returns the ids of all live sessions, sorted
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
