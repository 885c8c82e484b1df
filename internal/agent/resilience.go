package agent

import "time"

const (
	InitialConfidence = 1.0
	SuccessReward     = 0.01
	FailurePenalty    = 0.05
	AgentFailureCost  = 0.2
)

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// RecordOutcome feeds a task result into the agent's confidence.
func (r *Record) RecordOutcome(success bool) {
	if success {
		r.Confidence = clampConfidence(r.Confidence + SuccessReward)
		return
	}
	r.Confidence = clampConfidence(r.Confidence - FailurePenalty)
}

// MarkFailed drains the record, applies the agent failure penalty and stamps
// RecoveredAt. It returns the task ids the agent held.
func (r *Record) MarkFailed(at time.Time) []string {
	drained := r.TaskIDs.Clone()
	r.Status = StatusFailed
	r.CurrentLoad = 0
	r.TaskIDs = nil
	r.Confidence = clampConfidence(r.Confidence - AgentFailureCost)
	r.RecoveredAt = &at
	return drained
}

// Assign adds a task and its load contribution.
func (r *Record) Assign(taskID string, load float64) {
	if !r.HasTask(taskID) {
		r.TaskIDs = append(r.TaskIDs, taskID)
	}
	r.CurrentLoad += load
}

// Release removes a task and its load contribution, flooring load at zero.
func (r *Record) Release(taskID string, load float64) {
	r.TaskIDs = r.TaskIDs.Without(taskID)
	r.CurrentLoad -= load
	if r.CurrentLoad < 0 {
		r.CurrentLoad = 0
	}
}
