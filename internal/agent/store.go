package agent

import (
	"context"
	"sync"

	"github.com/eleven-am/mesh-router/internal/shared"
)

// Store is the agent registry backend. Update applies fn to the stored record
// atomically; if fn returns an error nothing is written.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, r *Record) error
	Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, shared.ErrAgentNotFound
	}
	return r.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[r.ID]; ok {
		return shared.ErrDuplicateAgent
	}
	s.records[r.ID] = r.Clone()
	s.order = append(s.order, r.ID)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return nil, shared.ErrAgentNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	s.records[id] = next
	return next.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out, nil
}
