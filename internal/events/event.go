package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	AgentRegistered Type = "agent.registered"
	AgentUpdated    Type = "agent.updated"
	AgentUnhealthy  Type = "agent.unhealthy"
	AgentFailed     Type = "agent.failed"
	TaskRouted      Type = "task.routed"
	TaskRerouted    Type = "task.rerouted"
	TaskStatus      Type = "task.status"
	TaskOrphaned    Type = "task.orphaned"
)

type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	AgentID   string         `json:"agent_id,omitempty"`
	TaskID    string         `json:"task_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

func New(t Type, agentID, taskID string, at time.Time, data map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		AgentID:   agentID,
		TaskID:    taskID,
		Timestamp: at,
		Data:      data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}
