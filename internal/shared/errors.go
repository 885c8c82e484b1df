package shared

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

var (
	ErrAgentNotFound           = fmt.Errorf("agent %w", ErrNotFound)
	ErrDuplicateAgent          = fmt.Errorf("agent already registered: %w", ErrConflict)
	ErrTaskNotFound            = fmt.Errorf("task %w", ErrNotFound)
	ErrTaskAlreadyRouted       = fmt.Errorf("task already routed: %w", ErrConflict)
	ErrNoEligibleAgents        = errors.New("no eligible agents")
	ErrStrategySelectionFailed = errors.New("strategy selection failed")
	ErrInvalidPriority         = fmt.Errorf("priority must be between 0 and 10: %w", ErrInvalidInput)
)

// RoutingReason is the machine-readable cause attached to a failed RouteTask.
type RoutingReason string

const (
	ReasonNoEligibleAgents        RoutingReason = "NoEligibleAgents"
	ReasonStrategySelectionFailed RoutingReason = "StrategySelectionFailed"
	ReasonInvalidPriority         RoutingReason = "InvalidPriority"
)

type RoutingError struct {
	TaskID string
	Reason RoutingReason
	Err    error
}

func NewRoutingError(taskID string, reason RoutingReason) *RoutingError {
	var err error
	switch reason {
	case ReasonNoEligibleAgents:
		err = ErrNoEligibleAgents
	case ReasonInvalidPriority:
		err = ErrInvalidPriority
	default:
		err = ErrStrategySelectionFailed
	}
	return &RoutingError{TaskID: taskID, Reason: reason, Err: err}
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("route task %s: %s", e.TaskID, e.Err)
}

func (e *RoutingError) Unwrap() error { return e.Err }

// ReasonOf returns the routing reason carried by err, or "" if err is not a routing failure.
func ReasonOf(err error) RoutingReason {
	var re *RoutingError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

type APIError struct {
	Code    string `json:"code" example:"invalid_request"`
	Message string `json:"message" example:"Invalid request body"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func Conflict(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusConflict)
}

func Unprocessable(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusUnprocessableEntity)
}

func TooManyRequests(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusTooManyRequests)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}

// WithDetails attaches details to an error built by the helpers above.
func WithDetails(he *echo.HTTPError, details any) *echo.HTTPError {
	if apiErr, ok := he.Message.(*APIError); ok {
		apiErr.WithDetails(details)
	}
	return he
}
