package authflowrepo

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrStateNotFound = errors.New("login state not found")
	ErrStateExpired  = errors.New("login state expired")
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.Mutex
	states map[string]LoginState
}

// NewInMemoryRepo creates a new in-memory login state repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		states: make(map[string]LoginState),
	}
}

// Upsert stores a login state, dropping any that have already expired
func (r *InMemoryRepo) Upsert(state *LoginState) error {
	if state == nil {
		return errors.New("state cannot be nil")
	}
	if state.ID == "" {
		return errors.New("state id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.states {
		if !state.CreatedAt.Before(s.ExpiresAt) {
			delete(r.states, id)
		}
	}
	// Stored by value to prevent external modifications
	r.states[state.ID] = *state
	return nil
}

func (r *InMemoryRepo) Take(id string, now time.Time) (*LoginState, error) {
	if id == "" {
		return nil, errors.New("state id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.states[id]
	if !exists {
		return nil, ErrStateNotFound
	}
	delete(r.states, id)

	if !now.Before(state.ExpiresAt) {
		return nil, ErrStateExpired
	}
	return &state, nil
}

// Len is the number of stored states
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
