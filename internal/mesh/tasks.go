package mesh

import (
	"context"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/task"
)

type TaskStatusUpdate struct {
	TaskID  string
	Status  string
	Success *bool
}

// UpdateTaskStatus moves a task through its lifecycle. A terminal status
// releases the task's load from its agent and feeds the outcome, if given,
// into the agent's confidence. Updates to an already terminal task are
// ignored.
func (c *Coordinator) UpdateTaskStatus(ctx context.Context, upd TaskStatusUpdate) (*task.Record, error) {
	status, err := task.ParseStatus(upd.Status)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	rec, changed, err := c.updateTaskStatusLocked(ctx, upd, status)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if changed {
		data := map[string]any{"status": string(rec.Status)}
		if rec.Success != nil {
			data["outcome_success"] = *rec.Success
		}
		c.emit(ctx, []events.Event{c.event(events.TaskStatus, rec.AgentID, rec.ID, data)})
	}
	return rec, nil
}

func (c *Coordinator) updateTaskStatusLocked(ctx context.Context, upd TaskStatusUpdate, status task.Status) (*task.Record, bool, error) {
	current, err := c.tasks.Get(ctx, upd.TaskID)
	if err != nil {
		return nil, false, err
	}
	if current.Status.Terminal() {
		return current, false, nil
	}

	if status.Terminal() {
		held := true
		_, err := c.agents.Update(ctx, current.AgentID, func(a *agent.Record) error {
			held = a.HasTask(current.ID)
			if !held {
				return nil
			}
			a.Release(current.ID, current.BaseLoad)
			if upd.Success != nil {
				a.RecordOutcome(*upd.Success)
			}
			return nil
		})
		if err != nil {
			return nil, false, err
		}
		if !held && upd.Success != nil {
			c.logger.Debug("outcome not applied, agent no longer holds task",
				"task_id", current.ID,
				"agent_id", current.AgentID,
				"outcome_success", *upd.Success)
		}
	}

	rec, err := c.tasks.Update(ctx, upd.TaskID, func(r *task.Record) error {
		r.Status = status
		r.UpdatedAt = c.now()
		if status.Terminal() && upd.Success != nil {
			ok := *upd.Success
			r.Success = &ok
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (c *Coordinator) GetTask(ctx context.Context, taskID string) (*task.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasks.Get(ctx, taskID)
}

// ListTasks returns tasks in routing order, optionally filtered by status and agent.
func (c *Coordinator) ListTasks(ctx context.Context, status task.Status, agentID string) ([]*task.Record, error) {
	c.mu.RLock()
	all, err := c.tasks.List(ctx)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if status == "" && agentID == "" {
		return all, nil
	}

	out := make([]*task.Record, 0, len(all))
	for _, t := range all {
		if status != "" && t.Status != status {
			continue
		}
		if agentID != "" && t.AgentID != agentID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
