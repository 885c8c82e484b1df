package task

import (
	"fmt"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/shared"
)

type Status string

const (
	StatusRouted    Status = "routed"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRouted, StatusRunning, StatusCompleted, StatusFailed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown task status %q: %w", s, shared.ErrInvalidInput)
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

const (
	MinPriority = 0
	MaxPriority = 10
)

// BaseLoad is the load a task of the given priority adds to its agent.
func BaseLoad(priority int) float64 {
	return 10 * float64(priority) / 5
}

type Record struct {
	ID                   string             `json:"id"`
	AgentID              string             `json:"agent_id"`
	Status               Status             `json:"status"`
	Priority             int                `json:"priority"`
	BaseLoad             float64            `json:"base_load"`
	IndustryTags         shared.StringSlice `json:"industry_tags,omitempty"`
	RequiredCapabilities shared.StringSlice `json:"required_capabilities,omitempty"`
	Strategy             string             `json:"routing_strategy"`
	EdgeRequirements     shared.FloatMap    `json:"edge_requirements,omitempty"`
	Location             *agent.Location    `json:"location,omitempty"`
	PreviousAgentIDs     shared.StringSlice `json:"previous_agent_ids,omitempty"`
	RerouteCount         int                `json:"reroute_count"`
	Success              *bool              `json:"outcome_success,omitempty"`
	RoutedAt             time.Time          `json:"routing_timestamp"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.IndustryTags = r.IndustryTags.Clone()
	c.RequiredCapabilities = r.RequiredCapabilities.Clone()
	c.EdgeRequirements = r.EdgeRequirements.Clone()
	c.PreviousAgentIDs = r.PreviousAgentIDs.Clone()
	if r.Location != nil {
		loc := *r.Location
		c.Location = &loc
	}
	if r.Success != nil {
		ok := *r.Success
		c.Success = &ok
	}
	return &c
}
