package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidArgument marks argument errors raised before any request.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownOperation marks dispatch to a name neither the client nor
	// its delegate provides.
	ErrUnknownOperation = errors.New("unknown operation")
)

// APIError is a LinkedIn error document returned with a non-2xx status.
type APIError struct {
	StatusCode int
	ErrorCode  int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// ArgumentError reports an invalid call argument.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// UnknownOperationError names the operation that could not be dispatched.
type UnknownOperationError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownOperationError) Error() string {
	msg := fmt.Sprintf("invalid method %s called", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *UnknownOperationError) Unwrap() error {
	return ErrUnknownOperation
}

// IsAuthError reports a 401 API error.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbiddenError reports a 403 API error.
func IsForbiddenError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
