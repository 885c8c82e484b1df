package shared

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewAPIError(t *testing.T) {
	err := NewAPIError("test_code", "test message")
	if err.Code != "test_code" {
		t.Errorf("expected code 'test_code', got '%s'", err.Code)
	}
	if err.Message != "test message" {
		t.Errorf("expected message 'test message', got '%s'", err.Message)
	}
	if err.Details != nil {
		t.Errorf("expected nil details, got %v", err.Details)
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	err := NewAPIError("code", "message")
	details := map[string]string{"field": "value"}
	err = err.WithDetails(details)

	if err.Details == nil {
		t.Fatal("expected details to be set")
	}
	d, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatal("expected details to be map[string]string")
	}
	if d["field"] != "value" {
		t.Errorf("expected field 'value', got '%s'", d["field"])
	}
}

func TestAPIError_ToHTTP(t *testing.T) {
	apiErr := NewAPIError("code", "message")
	httpErr := apiErr.ToHTTP(http.StatusBadRequest)

	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, httpErr.Code)
	}
	msg, ok := httpErr.Message.(*APIError)
	if !ok {
		t.Fatal("expected message to be *APIError")
	}
	if msg.Code != "code" {
		t.Errorf("expected code 'code', got '%s'", msg.Code)
	}
}

func TestBadRequest(t *testing.T) {
	err := BadRequest("bad", "bad request")
	assertHTTPError(t, err, http.StatusBadRequest, "bad", "bad request")
}

func TestNotFound(t *testing.T) {
	err := NotFound("notfound", "not found")
	assertHTTPError(t, err, http.StatusNotFound, "notfound", "not found")
}

func TestConflict(t *testing.T) {
	err := Conflict("conflict", "conflict error")
	assertHTTPError(t, err, http.StatusConflict, "conflict", "conflict error")
}

func TestUnprocessable(t *testing.T) {
	err := Unprocessable("no_eligible_agents", "no eligible agents")
	assertHTTPError(t, err, http.StatusUnprocessableEntity, "no_eligible_agents", "no eligible agents")
}

func TestWithDetails(t *testing.T) {
	details := map[string]string{"task_id": "t1", "reason": "NoEligibleAgents"}
	err := WithDetails(Unprocessable("no_eligible_agents", "no eligible agents"), details)
	assertHTTPError(t, err, http.StatusUnprocessableEntity, "no_eligible_agents", "no eligible agents")

	got, ok := err.Message.(*APIError).Details.(map[string]string)
	if !ok || got["reason"] != "NoEligibleAgents" {
		t.Errorf("expected details attached, got %v", err.Message.(*APIError).Details)
	}

	plain := WithDetails(echo.NewHTTPError(http.StatusTeapot, "short and stout"), details)
	if plain.Message != "short and stout" {
		t.Errorf("expected non-API message untouched, got %v", plain.Message)
	}
}

func TestTooManyRequests(t *testing.T) {
	err := TooManyRequests("rate_limited", "slow down")
	assertHTTPError(t, err, http.StatusTooManyRequests, "rate_limited", "slow down")
}

func TestInternalError(t *testing.T) {
	err := InternalError("internal", "internal error")
	assertHTTPError(t, err, http.StatusInternalServerError, "internal", "internal error")
}

func assertHTTPError(t *testing.T, err *echo.HTTPError, expectedStatus int, expectedCode, expectedMessage string) {
	t.Helper()
	if err.Code != expectedStatus {
		t.Errorf("expected status %d, got %d", expectedStatus, err.Code)
	}
	apiErr, ok := err.Message.(*APIError)
	if !ok {
		t.Fatal("expected message to be *APIError")
	}
	if apiErr.Code != expectedCode {
		t.Errorf("expected code '%s', got '%s'", expectedCode, apiErr.Code)
	}
	if apiErr.Message != expectedMessage {
		t.Errorf("expected message '%s', got '%s'", expectedMessage, apiErr.Message)
	}
}

func TestSentinelWrapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"agent not found", ErrAgentNotFound, ErrNotFound},
		{"task not found", ErrTaskNotFound, ErrNotFound},
		{"duplicate agent", ErrDuplicateAgent, ErrConflict},
		{"already routed", ErrTaskAlreadyRouted, ErrConflict},
		{"invalid priority", ErrInvalidPriority, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("expected %v to wrap %v", tt.err, tt.target)
			}
		})
	}
}

func TestRoutingError(t *testing.T) {
	tests := []struct {
		reason RoutingReason
		target error
	}{
		{ReasonNoEligibleAgents, ErrNoEligibleAgents},
		{ReasonStrategySelectionFailed, ErrStrategySelectionFailed},
		{ReasonInvalidPriority, ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			var err error = NewRoutingError("t1", tt.reason)
			if !errors.Is(err, tt.target) {
				t.Errorf("expected errors.Is(%v, %v)", err, tt.target)
			}
			if got := ReasonOf(err); got != tt.reason {
				t.Errorf("expected reason %s, got %s", tt.reason, got)
			}
		})
	}

	if got := ReasonOf(ErrAgentNotFound); got != "" {
		t.Errorf("expected empty reason for non-routing error, got %s", got)
	}
}
