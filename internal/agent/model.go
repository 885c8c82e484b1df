package agent

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eleven-am/mesh-router/internal/shared"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusUnhealthy Status = "unhealthy"
	StatusFailed    Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusUnhealthy, StatusFailed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown agent status %q: %w", s, shared.ErrInvalidInput)
}

type ResilienceMode string

const (
	ModePrimary  ResilienceMode = "primary"
	ModeBackup   ResilienceMode = "backup"
	ModeStandard ResilienceMode = "standard"
)

// ParseResilienceMode maps "" to standard.
func ParseResilienceMode(s string) (ResilienceMode, error) {
	switch ResilienceMode(s) {
	case "":
		return ModeStandard, nil
	case ModePrimary, ModeBackup, ModeStandard:
		return ResilienceMode(s), nil
	}
	return "", fmt.Errorf("unknown resilience mode %q: %w", s, shared.ErrInvalidInput)
}

type Location struct {
	Region    string `json:"region,omitempty" yaml:"region" example:"us-east-1"`
	Country   string `json:"country,omitempty" yaml:"country" example:"US"`
	Continent string `json:"continent,omitempty" yaml:"continent" example:"NA"`
}

func (l *Location) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *Location) Scan(value any) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Location", value)
	}
	return json.Unmarshal(bytes, l)
}

type Record struct {
	ID               string             `json:"id"`
	Status           Status             `json:"status"`
	Capabilities     shared.StringSlice `json:"capabilities"`
	Capacity         float64            `json:"capacity"`
	CurrentLoad      float64            `json:"current_load"`
	TaskIDs          shared.StringSlice `json:"task_ids"`
	IntelligenceRole string             `json:"intelligence_role,omitempty"`
	CoordinationRole string             `json:"mesh_coordination_role,omitempty"`
	ResilienceMode   ResilienceMode     `json:"resilience_mode"`
	EdgeProfile      shared.FloatMap    `json:"edge_behavior_profile,omitempty"`
	IndustryTags     shared.StringSlice `json:"industry_tags,omitempty"`
	Location         *Location          `json:"location,omitempty"`
	Latency          LatencyProfile     `json:"latency"`
	Confidence       float64            `json:"resilience_confidence"`
	RegisteredAt     time.Time          `json:"registered_at"`
	LastHeartbeat    time.Time          `json:"last_heartbeat"`
	// RecoveredAt is set once failure recovery has drained the agent and
	// cleared when the agent leaves the failed status.
	RecoveredAt      *time.Time         `json:"recovered_at,omitempty"`
}

func (r *Record) HasTask(taskID string) bool {
	return r.TaskIDs.Contains(taskID)
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Capabilities = r.Capabilities.Clone()
	c.TaskIDs = r.TaskIDs.Clone()
	c.EdgeProfile = r.EdgeProfile.Clone()
	c.IndustryTags = r.IndustryTags.Clone()
	c.Latency = r.Latency.Clone()
	if r.Location != nil {
		loc := *r.Location
		c.Location = &loc
	}
	if r.RecoveredAt != nil {
		at := *r.RecoveredAt
		c.RecoveredAt = &at
	}
	return &c
}
