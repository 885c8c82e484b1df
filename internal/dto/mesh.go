package dto

type Location struct {
	Region    string `json:"region,omitempty" example:"us-east-1"`
	Country   string `json:"country,omitempty" example:"US"`
	Continent string `json:"continent,omitempty" example:"NA"`
}

type RegisterAgentRequest struct {
	ID                   string             `json:"id" example:"agent-eu-1"`
	Capabilities         []string           `json:"capabilities" example:"text_generation,classification"`
	Capacity             float64            `json:"capacity" example:"100"`
	ResilienceMode       string             `json:"resilience_mode,omitempty" example:"standard" enums:"primary,backup,standard"`
	EdgeBehaviorProfile  map[string]float64 `json:"edge_behavior_profile,omitempty"`
	IntelligenceRole     string             `json:"intelligence_role,omitempty" example:"reasoner"`
	MeshCoordinationRole string             `json:"mesh_coordination_role,omitempty" example:"worker"`
	IndustryTags         []string           `json:"industry_tags,omitempty" example:"classification"`
	Location             *Location          `json:"location,omitempty"`
}

type AgentResponse struct {
	ID                   string             `json:"id" example:"agent-eu-1"`
	Status               string             `json:"status" example:"active" enums:"active,unhealthy,failed"`
	Capabilities         []string           `json:"capabilities" example:"text_generation"`
	Capacity             float64            `json:"capacity" example:"100"`
	CurrentLoad          float64            `json:"current_load" example:"10"`
	TaskIDs              []string           `json:"task_ids" example:"t1"`
	IntelligenceRole     string             `json:"intelligence_role,omitempty" example:"reasoner"`
	MeshCoordinationRole string             `json:"mesh_coordination_role,omitempty" example:"worker"`
	ResilienceMode       string             `json:"resilience_mode" example:"standard"`
	EdgeBehaviorProfile  map[string]float64 `json:"edge_behavior_profile,omitempty"`
	IndustryTags         []string           `json:"industry_tags,omitempty"`
	Location             *Location          `json:"location,omitempty"`
	ResilienceConfidence float64            `json:"resilience_confidence" example:"1"`
	AvgLatencyMs         *float64           `json:"avg_latency_ms,omitempty" example:"12.5"`
	LatencySamples       int                `json:"latency_samples" example:"4"`
	RegisteredAt         string             `json:"registered_at" example:"2024-01-15T10:30:00Z"`
	LastHeartbeat        string             `json:"last_heartbeat" example:"2024-01-15T10:31:00Z"`
}

type AgentListResponse struct {
	Agents []AgentResponse `json:"agents"`
}

type UpdateAgentStatusRequest struct {
	Status      string   `json:"status" example:"active" enums:"active,unhealthy,failed"`
	CurrentLoad *float64 `json:"current_load,omitempty" example:"25"`
	LatencyMs   *float64 `json:"latency_ms,omitempty" example:"18.4"`
}

type RecoveryResponse struct {
	AgentID  string   `json:"agent_id" example:"agent-eu-1"`
	Rerouted []string `json:"rerouted" example:"t1,t2"`
	Failed   []string `json:"failed" example:"t3"`
}

type RouteTaskRequest struct {
	TaskID               string             `json:"task_id,omitempty" example:"t1"`
	RequiredCapabilities []string           `json:"required_capabilities,omitempty" example:"text_generation"`
	PreferredAgents      []string           `json:"preferred_agents,omitempty" example:"agent-eu-1"`
	Priority             *int               `json:"priority" example:"5" minimum:"0" maximum:"10"`
	IndustryTags         []string           `json:"industry_tags,omitempty" example:"finance"`
	Strategy             string             `json:"strategy,omitempty" example:"balanced" enums:"balanced,latency-optimized,resilience-optimized,edge-aware"`
	EdgeRequirements     map[string]float64 `json:"edge_requirements,omitempty"`
	Location             *Location          `json:"location,omitempty"`
}

type RouteTaskResponse struct {
	TaskID     string `json:"task_id" example:"t1"`
	AgentID    string `json:"agent_id" example:"agent-eu-1"`
	Strategy   string `json:"strategy" example:"balanced"`
	Candidates int    `json:"candidates" example:"2"`
}

type RoutingFailureDetails struct {
	TaskID string `json:"task_id" example:"t1"`
	Reason string `json:"reason" example:"NoEligibleAgents" enums:"NoEligibleAgents,StrategySelectionFailed,InvalidPriority"`
}

type TaskResponse struct {
	ID                   string             `json:"id" example:"t1"`
	AgentID              string             `json:"agent_id" example:"agent-eu-1"`
	Status               string             `json:"status" example:"routed" enums:"routed,running,completed,failed"`
	Priority             int                `json:"priority" example:"5"`
	BaseLoad             float64            `json:"base_load" example:"10"`
	IndustryTags         []string           `json:"industry_tags,omitempty"`
	RequiredCapabilities []string           `json:"required_capabilities,omitempty"`
	RoutingStrategy      string             `json:"routing_strategy" example:"balanced"`
	EdgeRequirements     map[string]float64 `json:"edge_requirements,omitempty"`
	Location             *Location          `json:"location,omitempty"`
	PreviousAgentIDs     []string           `json:"previous_agent_ids,omitempty"`
	RerouteCount         int                `json:"reroute_count" example:"0"`
	OutcomeSuccess       *bool              `json:"outcome_success,omitempty"`
	RoutingTimestamp     string             `json:"routing_timestamp" example:"2024-01-15T10:30:00Z"`
	UpdatedAt            string             `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type UpdateTaskStatusRequest struct {
	Status         string `json:"status" example:"completed" enums:"routed,running,completed,failed"`
	OutcomeSuccess *bool  `json:"outcome_success,omitempty" example:"true"`
}

type HealthScanResponse struct {
	Unhealthy []string `json:"unhealthy" example:"agent-eu-2"`
}

type AgentMetricsResponse struct {
	ID                   string   `json:"id" example:"agent-eu-1"`
	Status               string   `json:"status" example:"active"`
	CurrentLoad          float64  `json:"current_load" example:"10"`
	Capacity             float64  `json:"capacity" example:"100"`
	ResilienceConfidence float64  `json:"resilience_confidence" example:"0.99"`
	AvgLatencyMs         *float64 `json:"avg_latency_ms,omitempty" example:"12.5"`
	ActiveTasks          int      `json:"active_tasks" example:"1"`
}

type RoutingMetricsResponse struct {
	TotalTasks       int64                  `json:"total_tasks" example:"42"`
	TotalAgents      int                    `json:"total_agents" example:"3"`
	ActiveAgents     int                    `json:"active_agents" example:"2"`
	UnhealthyAgents  int                    `json:"unhealthy_agents" example:"1"`
	FailedAgents     int                    `json:"failed_agents" example:"0"`
	AvgLoad          float64                `json:"avg_load" example:"12.5"`
	StrategyCounts   map[string]int         `json:"strategy_counts"`
	RoutingDecisions int                    `json:"routing_decisions" example:"42"`
	AvgCandidates    float64                `json:"avg_candidates" example:"2.5"`
	Agents           []AgentMetricsResponse `json:"agents"`
}
