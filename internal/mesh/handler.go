package mesh

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/dto"
	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	coord  *Coordinator
	logger *slog.Logger
}

func NewHandler(coord *Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		coord:  coord,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/agents", h.ListAgents)
	g.POST("/agents", h.RegisterAgent)
	g.GET("/agents/:id", h.GetAgent)
	g.POST("/agents/:id/heartbeat", h.Heartbeat)
	g.PUT("/agents/:id/status", h.UpdateAgentStatus)
	g.POST("/agents/:id/failure", h.HandleAgentFailure)

	g.POST("/tasks/route", h.RouteTask)
	g.GET("/tasks", h.ListTasks)
	g.GET("/tasks/:id", h.GetTask)
	g.PUT("/tasks/:id/status", h.UpdateTaskStatus)

	g.POST("/health/scan", h.CheckAgentHealth)
	g.GET("/metrics", h.GetRoutingMetrics)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func locationToDTO(l *agent.Location) *dto.Location {
	if l == nil {
		return nil
	}
	return &dto.Location{Region: l.Region, Country: l.Country, Continent: l.Continent}
}

func locationFromDTO(l *dto.Location) *agent.Location {
	if l == nil {
		return nil
	}
	return &agent.Location{Region: l.Region, Country: l.Country, Continent: l.Continent}
}

func agentToResponse(a *agent.Record) dto.AgentResponse {
	resp := dto.AgentResponse{
		ID:                   a.ID,
		Status:               string(a.Status),
		Capabilities:         a.Capabilities,
		Capacity:             a.Capacity,
		CurrentLoad:          a.CurrentLoad,
		TaskIDs:              a.TaskIDs,
		IntelligenceRole:     a.IntelligenceRole,
		MeshCoordinationRole: a.CoordinationRole,
		ResilienceMode:       string(a.ResilienceMode),
		EdgeBehaviorProfile:  a.EdgeProfile,
		IndustryTags:         a.IndustryTags,
		Location:             locationToDTO(a.Location),
		ResilienceConfidence: a.Confidence,
		LatencySamples:       len(a.Latency.Samples),
		RegisteredAt:         formatTime(a.RegisteredAt),
		LastHeartbeat:        formatTime(a.LastHeartbeat),
	}
	if resp.Capabilities == nil {
		resp.Capabilities = []string{}
	}
	if resp.TaskIDs == nil {
		resp.TaskIDs = []string{}
	}
	if avg, ok := a.Latency.Average(); ok {
		resp.AvgLatencyMs = &avg
	}
	return resp
}

func taskToResponse(t *task.Record) dto.TaskResponse {
	return dto.TaskResponse{
		ID:                   t.ID,
		AgentID:              t.AgentID,
		Status:               string(t.Status),
		Priority:             t.Priority,
		BaseLoad:             t.BaseLoad,
		IndustryTags:         t.IndustryTags,
		RequiredCapabilities: t.RequiredCapabilities,
		RoutingStrategy:      t.Strategy,
		EdgeRequirements:     t.EdgeRequirements,
		Location:             locationToDTO(t.Location),
		PreviousAgentIDs:     t.PreviousAgentIDs,
		RerouteCount:         t.RerouteCount,
		OutcomeSuccess:       t.Success,
		RoutingTimestamp:     formatTime(t.RoutedAt),
		UpdatedAt:            formatTime(t.UpdatedAt),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// httpError maps coordinator errors onto API errors. Anything unrecognised is
// logged and reported as an internal error with the given code.
func (h *Handler) httpError(err error, code, message string, attrs ...any) error {
	if reason := shared.ReasonOf(err); reason != "" {
		var re *shared.RoutingError
		errors.As(err, &re)
		details := dto.RoutingFailureDetails{TaskID: re.TaskID, Reason: string(reason)}
		switch reason {
		case shared.ReasonInvalidPriority:
			return shared.WithDetails(shared.BadRequest("invalid_priority", "priority must be between 0 and 10"), details)
		case shared.ReasonNoEligibleAgents:
			return shared.WithDetails(shared.Unprocessable("no_eligible_agents", "no agent satisfies the task requirements"), details)
		default:
			return shared.WithDetails(shared.Unprocessable("strategy_selection_failed", re.Err.Error()), details)
		}
	}

	switch {
	case errors.Is(err, shared.ErrAgentNotFound):
		return shared.NotFound("agent_not_found", "agent not found")
	case errors.Is(err, shared.ErrTaskNotFound):
		return shared.NotFound("task_not_found", "task not found")
	case errors.Is(err, shared.ErrDuplicateAgent):
		return shared.Conflict("duplicate_agent", "agent already registered")
	case errors.Is(err, shared.ErrTaskAlreadyRouted):
		return shared.Conflict("task_already_routed", "task already routed")
	case errors.Is(err, shared.ErrInvalidInput):
		return shared.BadRequest("invalid_request", err.Error())
	}

	h.logger.Error("failed to "+message, append([]any{"error", err}, attrs...)...)
	return shared.InternalError(code, "failed to "+message)
}

// RegisterAgent godoc
// @Summary      Register agent
// @Description  Adds an agent to the mesh registry with status active
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RegisterAgentRequest  true  "Agent registration"
// @Success      201      {object}  dto.AgentResponse
// @Failure      400      {object}  shared.APIError
// @Failure      409      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /agents [post]
func (h *Handler) RegisterAgent(c echo.Context) error {
	var req dto.RegisterAgentRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	if req.ID == "" {
		return shared.BadRequest("missing_id", "id is required")
	}

	rec, err := h.coord.RegisterAgent(c.Request().Context(), Registration{
		ID:               req.ID,
		Capabilities:     req.Capabilities,
		Capacity:         req.Capacity,
		ResilienceMode:   req.ResilienceMode,
		EdgeProfile:      req.EdgeBehaviorProfile,
		IntelligenceRole: req.IntelligenceRole,
		CoordinationRole: req.MeshCoordinationRole,
		IndustryTags:     req.IndustryTags,
		Location:         locationFromDTO(req.Location),
	})
	if err != nil {
		return h.httpError(err, "register_failed", "register agent", "agent_id", req.ID)
	}

	return c.JSON(http.StatusCreated, agentToResponse(rec))
}

// ListAgents godoc
// @Summary      List agents
// @Description  Returns every registered agent in registration order
// @Tags         agents
// @Produce      json
// @Success      200  {object}  dto.AgentListResponse
// @Failure      500  {object}  shared.APIError
// @Router       /agents [get]
func (h *Handler) ListAgents(c echo.Context) error {
	agents, err := h.coord.ListAgents(c.Request().Context())
	if err != nil {
		return h.httpError(err, "list_failed", "list agents")
	}

	response := make([]dto.AgentResponse, len(agents))
	for i, a := range agents {
		response[i] = agentToResponse(a)
	}

	return c.JSON(http.StatusOK, dto.AgentListResponse{Agents: response})
}

// GetAgent godoc
// @Summary      Get agent
// @Tags         agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  dto.AgentResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /agents/{id} [get]
func (h *Handler) GetAgent(c echo.Context) error {
	id := c.Param("id")
	rec, err := h.coord.GetAgent(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err, "get_failed", "get agent", "agent_id", id)
	}
	return c.JSON(http.StatusOK, agentToResponse(rec))
}

// Heartbeat godoc
// @Summary      Agent heartbeat
// @Description  Refreshes the agent's last heartbeat and revives it if it was marked unhealthy
// @Tags         agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  dto.AgentResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /agents/{id}/heartbeat [post]
func (h *Handler) Heartbeat(c echo.Context) error {
	id := c.Param("id")
	rec, err := h.coord.Heartbeat(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err, "heartbeat_failed", "record heartbeat", "agent_id", id)
	}
	return c.JSON(http.StatusOK, agentToResponse(rec))
}

// UpdateAgentStatus godoc
// @Summary      Update agent status
// @Description  Sets the agent's status and optionally its load and a latency sample
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Agent ID"
// @Param        request  body      dto.UpdateAgentStatusRequest  true  "Status update"
// @Success      200      {object}  dto.AgentResponse
// @Failure      400      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /agents/{id}/status [put]
func (h *Handler) UpdateAgentStatus(c echo.Context) error {
	id := c.Param("id")

	var req dto.UpdateAgentStatusRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	rec, err := h.coord.UpdateAgentStatus(c.Request().Context(), StatusUpdate{
		AgentID:   id,
		Status:    req.Status,
		Load:      req.CurrentLoad,
		LatencyMs: req.LatencyMs,
	})
	if err != nil {
		return h.httpError(err, "update_failed", "update agent status", "agent_id", id)
	}
	return c.JSON(http.StatusOK, agentToResponse(rec))
}

// HandleAgentFailure godoc
// @Summary      Fail agent
// @Description  Marks the agent failed and re-routes its tasks with the resilience-optimized strategy
// @Tags         agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  dto.RecoveryResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /agents/{id}/failure [post]
func (h *Handler) HandleAgentFailure(c echo.Context) error {
	id := c.Param("id")
	res, err := h.coord.HandleAgentFailure(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err, "recovery_failed", "handle agent failure", "agent_id", id)
	}
	return c.JSON(http.StatusOK, dto.RecoveryResponse{
		AgentID:  res.AgentID,
		Rerouted: nonNil(res.Rerouted),
		Failed:   nonNil(res.Failed),
	})
}

// RouteTask godoc
// @Summary      Route task
// @Description  Selects an eligible agent for the task using the requested strategy
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RouteTaskRequest  true  "Task to route"
// @Success      200      {object}  dto.RouteTaskResponse
// @Failure      400      {object}  shared.APIError
// @Failure      409      {object}  shared.APIError
// @Failure      422      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /tasks/route [post]
func (h *Handler) RouteTask(c echo.Context) error {
	var req dto.RouteTaskRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	if req.Priority == nil {
		return shared.BadRequest("missing_priority", "priority is required")
	}

	res, err := h.coord.RouteTask(c.Request().Context(), RouteRequest{
		TaskID:               req.TaskID,
		RequiredCapabilities: req.RequiredCapabilities,
		PreferredAgents:      req.PreferredAgents,
		Priority:             *req.Priority,
		IndustryTags:         req.IndustryTags,
		Strategy:             req.Strategy,
		EdgeRequirements:     req.EdgeRequirements,
		Location:             locationFromDTO(req.Location),
	})
	if err != nil {
		return h.httpError(err, "route_failed", "route task", "task_id", req.TaskID)
	}

	return c.JSON(http.StatusOK, dto.RouteTaskResponse{
		TaskID:     res.TaskID,
		AgentID:    res.AgentID,
		Strategy:   string(res.Strategy),
		Candidates: res.Candidates,
	})
}

// ListTasks godoc
// @Summary      List tasks
// @Description  Returns ledger entries in routing order, optionally filtered
// @Tags         tasks
// @Produce      json
// @Param        status    query     string  false  "Task status"  Enums(routed, running, completed, failed)
// @Param        agent_id  query     string  false  "Assigned agent"
// @Success      200       {object}  dto.TaskListResponse
// @Failure      400       {object}  shared.APIError
// @Failure      500       {object}  shared.APIError
// @Router       /tasks [get]
func (h *Handler) ListTasks(c echo.Context) error {
	var status task.Status
	if s := c.QueryParam("status"); s != "" {
		parsed, err := task.ParseStatus(s)
		if err != nil {
			return shared.BadRequest("invalid_status", "unknown task status")
		}
		status = parsed
	}

	tasks, err := h.coord.ListTasks(c.Request().Context(), status, c.QueryParam("agent_id"))
	if err != nil {
		return h.httpError(err, "list_failed", "list tasks")
	}

	response := make([]dto.TaskResponse, len(tasks))
	for i, t := range tasks {
		response[i] = taskToResponse(t)
	}

	return c.JSON(http.StatusOK, dto.TaskListResponse{Tasks: response})
}

// GetTask godoc
// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /tasks/{id} [get]
func (h *Handler) GetTask(c echo.Context) error {
	id := c.Param("id")
	rec, err := h.coord.GetTask(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err, "get_failed", "get task", "task_id", id)
	}
	return c.JSON(http.StatusOK, taskToResponse(rec))
}

// UpdateTaskStatus godoc
// @Summary      Update task status
// @Description  Moves a task through its lifecycle; terminal statuses release the agent's load
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Task ID"
// @Param        request  body      dto.UpdateTaskStatusRequest  true  "Status update"
// @Success      200      {object}  dto.TaskResponse
// @Failure      400      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /tasks/{id}/status [put]
func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	id := c.Param("id")

	var req dto.UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	rec, err := h.coord.UpdateTaskStatus(c.Request().Context(), TaskStatusUpdate{
		TaskID:  id,
		Status:  req.Status,
		Success: req.OutcomeSuccess,
	})
	if err != nil {
		return h.httpError(err, "update_failed", "update task status", "task_id", id)
	}
	return c.JSON(http.StatusOK, taskToResponse(rec))
}

// CheckAgentHealth godoc
// @Summary      Scan agent health
// @Description  Marks agents whose heartbeat is older than the threshold as unhealthy
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthScanResponse
// @Failure      500  {object}  shared.APIError
// @Router       /health/scan [post]
func (h *Handler) CheckAgentHealth(c echo.Context) error {
	ids, err := h.coord.CheckAgentHealth(c.Request().Context())
	if err != nil {
		return h.httpError(err, "scan_failed", "check agent health")
	}
	return c.JSON(http.StatusOK, dto.HealthScanResponse{Unhealthy: nonNil(ids)})
}

// GetRoutingMetrics godoc
// @Summary      Routing metrics
// @Description  Aggregate statistics over the registry, the ledger and recent routing decisions
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  dto.RoutingMetricsResponse
// @Failure      500  {object}  shared.APIError
// @Router       /metrics [get]
func (h *Handler) GetRoutingMetrics(c echo.Context) error {
	m, err := h.coord.GetRoutingMetrics(c.Request().Context())
	if err != nil {
		return h.httpError(err, "metrics_failed", "compute routing metrics")
	}

	agents := make([]dto.AgentMetricsResponse, len(m.Agents))
	for i, a := range m.Agents {
		agents[i] = dto.AgentMetricsResponse{
			ID:                   a.ID,
			Status:               string(a.Status),
			CurrentLoad:          a.CurrentLoad,
			Capacity:             a.Capacity,
			ResilienceConfidence: a.Confidence,
			AvgLatencyMs:         a.AvgLatencyMs,
			ActiveTasks:          a.ActiveTasks,
		}
	}

	return c.JSON(http.StatusOK, dto.RoutingMetricsResponse{
		TotalTasks:       m.TotalTasks,
		TotalAgents:      m.TotalAgents,
		ActiveAgents:     m.ActiveAgents,
		UnhealthyAgents:  m.UnhealthyAgents,
		FailedAgents:     m.FailedAgents,
		AvgLoad:          m.AvgLoad,
		StrategyCounts:   m.StrategyCounts,
		RoutingDecisions: m.RoutingDecisions,
		AvgCandidates:    m.AvgCandidates,
		Agents:           agents,
	})
}
