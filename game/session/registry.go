package session

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a room id has no live session.
var ErrNotFound = errors.New("session not found")

// Registry is the process-wide store of live sessions, keyed by room id.
// It owns session lifecycle: create on first join, remove on last leave.
type Registry struct {
	sessions map[string]*Session
	mu       sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, creating an Idle one if absent.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[id]; ok {
		return sess
	}

	sess := New(id)
	r.sessions[id] = sess
	return sess
}

// Get returns the session for id, or ErrNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Remove deletes the session for id from the map. Callers mark the session
// destroyed under its own lock before removing it, so racing operations that
// already hold the pointer can tell it is gone.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// List returns all live sessions in no particular order.
func (r *Registry) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		result = append(result, sess)
	}
	return result
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
