package snapshot

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/moneyflow/internal/core/ports/repositories"
)

// Registry keeps one Manager per open user session.
type Registry struct {
	reader repositories.LedgerReader
	opts   []ManagerOption

	mu       sync.RWMutex
	managers map[string]*Manager
}

// NewRegistry creates an empty registry. opts are applied to every manager it creates.
func NewRegistry(reader repositories.LedgerReader, opts ...ManagerOption) *Registry {
	return &Registry{
		reader:   reader,
		opts:     opts,
		managers: make(map[string]*Manager),
	}
}

// Open returns the user's manager, creating it and loading the first snapshot if the
// session is new. opened reports whether this call created the session.
func (r *Registry) Open(ctx context.Context, userID string) (m *Manager, opened bool, err error) {
	if m, ok := r.Get(userID); ok {
		return m, false, nil
	}

	m = NewManager(userID, r.reader, r.opts...)
	if _, err := m.Refresh(ctx); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.managers[userID]; ok {
		// a concurrent Open won the race
		return existing, false, nil
	}
	r.managers[userID] = m
	return m, true, nil
}

// Get returns the manager of an already open session.
func (r *Registry) Get(userID string) (*Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[userID]
	return m, ok
}

// Close drops a user's session.
func (r *Registry) Close(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, userID)
}

// Sessions returns every open manager ordered by user id.
func (r *Registry) Sessions() []*Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Manager, 0, len(r.managers))
	for _, m := range r.managers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].userID < out[j].userID })
	return out
}
