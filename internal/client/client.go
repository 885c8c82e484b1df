package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eleven-am/mesh-router/internal/dto"
	"github.com/eleven-am/mesh-router/internal/gateway"
	"github.com/eleven-am/mesh-router/internal/shared"
)

// Error is a non-2xx response from the router API.
type Error struct {
	Status int
	API    shared.APIError
}

func (e *Error) Error() string {
	return fmt.Sprintf("mesh api %d: %s: %s", e.Status, e.API.Code, e.API.Message)
}

// Client calls the router's /v1 API on behalf of a single agent.
type Client struct {
	baseURL    string
	agentID    string
	httpClient *http.Client
}

func New(baseURL, agentID string) *Client {
	return &Client{
		baseURL: baseURL,
		agentID: agentID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) AgentID() string { return c.agentID }

func (c *Client) Register(ctx context.Context, req dto.RegisterAgentRequest) (*dto.AgentResponse, error) {
	req.ID = c.agentID
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/agents", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

func (c *Client) Heartbeat(ctx context.Context) (*dto.AgentResponse, error) {
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/agents/"+c.agentID+"/heartbeat", nil, &resp); err != nil {
		return nil, fmt.Errorf("heartbeat: %w", err)
	}
	return &resp, nil
}

func (c *Client) ReportStatus(ctx context.Context, req dto.UpdateAgentStatusRequest) (*dto.AgentResponse, error) {
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodPut, "/v1/agents/"+c.agentID+"/status", req, &resp); err != nil {
		return nil, fmt.Errorf("report status: %w", err)
	}
	return &resp, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskStatusRequest) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPut, "/v1/tasks/"+taskID+"/status", req, &resp); err != nil {
		return nil, fmt.Errorf("update task %s: %w", taskID, err)
	}
	return &resp, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/"+taskID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(gateway.AgentIDHeader, c.agentID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		if err := json.Unmarshal(data, &apiErr.API); err != nil {
			apiErr.API.Message = string(data)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
