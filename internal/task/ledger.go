package task

import (
	"context"
	"sync"

	"github.com/eleven-am/mesh-router/internal/shared"
)

// Ledger keeps every task ever routed. Records are never deleted.
type Ledger interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, r *Record) error
	Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Count(ctx context.Context) (int64, error)
}

type MemoryLedger struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]*Record)}
}

func (l *MemoryLedger) Get(_ context.Context, id string) (*Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.records[id]
	if !ok {
		return nil, shared.ErrTaskNotFound
	}
	return r.Clone(), nil
}

func (l *MemoryLedger) Put(_ context.Context, r *Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.records[r.ID]; !ok {
		l.order = append(l.order, r.ID)
	}
	l.records[r.ID] = r.Clone()
	return nil
}

func (l *MemoryLedger) Update(_ context.Context, id string, fn func(*Record) error) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.records[id]
	if !ok {
		return nil, shared.ErrTaskNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	l.records[id] = next
	return next.Clone(), nil
}

func (l *MemoryLedger) List(_ context.Context) ([]*Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Record, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id].Clone())
	}
	return out, nil
}

func (l *MemoryLedger) Count(_ context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.records)), nil
}
