package mesh

import (
	"sync"
	"time"

	"github.com/eleven-am/mesh-router/internal/router"
)

type HistoryEntry struct {
	TaskID     string
	AgentID    string
	Strategy   router.Strategy
	Candidates int
	Timestamp  time.Time
}

// History is a fixed-size ring of routing decisions, oldest first on read.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	next    int
	full    bool
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{entries: make([]HistoryEntry, limit)}
}

func (h *History) Append(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lenLocked()
}

func (h *History) lenLocked() int {
	if h.full {
		return len(h.entries)
	}
	return h.next
}

func (h *History) Snapshot() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, 0, h.lenLocked())
	if h.full {
		out = append(out, h.entries[h.next:]...)
	}
	return append(out, h.entries[:h.next]...)
}
