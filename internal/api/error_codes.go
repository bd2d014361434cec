package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable error class for structured output.
type ErrorCode string

const (
	ErrBadRequest       ErrorCode = "bad_request"
	ErrUnauthorized     ErrorCode = "unauthorized"
	ErrForbidden        ErrorCode = "forbidden"
	ErrNotFound         ErrorCode = "not_found"
	ErrThrottled        ErrorCode = "throttled"
	ErrServerError      ErrorCode = "server_error"
	ErrTimeout          ErrorCode = "timeout"
	ErrArgument         ErrorCode = "invalid_argument"
	ErrUnsupportedOp    ErrorCode = "unsupported_operation"
	ErrWriteNotAccepted ErrorCode = "write_not_accepted"
	ErrUnknown          ErrorCode = "unknown"
)

// Suggestion returns a human-readable hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Run 'li auth login' to authenticate"
	case ErrForbidden:
		return "The granted scopes do not cover this call; log in again with the required --scope"
	case ErrNotFound:
		return "Verify the member id or profile URL"
	case ErrThrottled:
		return "LinkedIn throttled this application; wait before retrying"
	case ErrArgument:
		return "Check the command arguments"
	case ErrUnsupportedOp:
		return "Run 'li oauth operations' to list available operations"
	case ErrServerError:
		return "LinkedIn encountered an error; try again later"
	case ErrTimeout:
		return "The request timed out; check network connectivity and retry"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError converts err to a StructuredError, or returns
// nil for nil and for errors it cannot classify.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code := ErrorCodeFromStatus(apiErr.StatusCode)
		ctx := map[string]any{"status_code": apiErr.StatusCode}
		if apiErr.RequestID != "" {
			ctx["request_id"] = apiErr.RequestID
		}
		if apiErr.ErrorCode != 0 {
			ctx["error_code"] = apiErr.ErrorCode
		}
		return &StructuredError{Code: code, Message: apiErr.Message, Suggestion: code.Suggestion(), Context: ctx}
	}

	var opErr *UnknownOperationError
	if errors.As(err, &opErr) {
		se := NewStructuredError(ErrUnsupportedOp, opErr.Error())
		se.Context = map[string]any{"operation": opErr.Name}
		if len(opErr.Suggestions) > 0 {
			se.Context["did_you_mean"] = opErr.Suggestions
		}
		return se
	}

	if errors.Is(err, ErrInvalidArgument) {
		return NewStructuredError(ErrArgument, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewStructuredError(ErrTimeout, err.Error())
	}

	return nil
}
