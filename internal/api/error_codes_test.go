package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeFromStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       ErrorCode
	}{
		{"400 Bad Request", 400, ErrBadRequest},
		{"401 Unauthorized", 401, ErrUnauthorized},
		{"403 Forbidden", 403, ErrForbidden},
		{"404 Not Found", 404, ErrNotFound},
		{"429 Throttled", 429, ErrThrottled},
		{"500 Server Error", 500, ErrServerError},
		{"503 Service Unavailable", 503, ErrServerError},
		{"200 OK (unknown)", 200, ErrUnknown},
		{"418 Teapot (unknown)", 418, ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorCodeFromStatus(tt.statusCode)
			if got != tt.want {
				t.Errorf("ErrorCodeFromStatus(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestErrorCode_Suggestion(t *testing.T) {
	if ErrUnauthorized.Suggestion() != "Run 'li auth login' to authenticate" {
		t.Errorf("unexpected suggestion %q", ErrUnauthorized.Suggestion())
	}
	if ErrUnknown.Suggestion() != "" {
		t.Error("expected no suggestion for unknown errors")
	}
}

func TestStructuredErrorFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantNil  bool
		wantCode ErrorCode
		check    func(t *testing.T, se *StructuredError)
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "unclassified", err: errors.New("boom"), wantNil: true},
		{
			name:     "api error",
			err:      fmt.Errorf("profile: %w", &APIError{StatusCode: 401, ErrorCode: 0, Message: "Invalid access token.", RequestID: "R1"}),
			wantCode: ErrUnauthorized,
			check: func(t *testing.T, se *StructuredError) {
				if se.Message != "Invalid access token." {
					t.Errorf("unexpected message %q", se.Message)
				}
				if se.Context["request_id"] != "R1" {
					t.Errorf("expected request id in context, got %v", se.Context)
				}
				if _, ok := se.Context["error_code"]; ok {
					t.Error("expected zero error code to be omitted")
				}
			},
		},
		{
			name:     "unknown operation",
			err:      &UnknownOperationError{Name: "x", Suggestions: []string{"y"}},
			wantCode: ErrUnsupportedOp,
			check: func(t *testing.T, se *StructuredError) {
				if se.Context["operation"] != "x" {
					t.Errorf("unexpected context %v", se.Context)
				}
			},
		},
		{name: "argument", err: &ArgumentError{Arg: "a", Reason: "b"}, wantCode: ErrArgument},
		{name: "timeout", err: fmt.Errorf("get: %w", context.DeadlineExceeded), wantCode: ErrTimeout},
		{name: "already structured", err: NewStructuredError(ErrWriteNotAccepted, "nope"), wantCode: ErrWriteNotAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := StructuredErrorFromError(tt.err)
			if tt.wantNil {
				if se != nil {
					t.Fatalf("expected nil, got %+v", se)
				}
				return
			}
			if se == nil {
				t.Fatal("expected structured error")
			}
			if se.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, se.Code)
			}
			if tt.check != nil {
				tt.check(t, se)
			}
		})
	}
}

func TestStructuredError_JSON(t *testing.T) {
	se := NewStructuredError(ErrNotFound, "member not found")
	data, err := json.Marshal(se)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out["code"] != "not_found" || out["message"] != "member not found" {
		t.Errorf("unexpected JSON %s", data)
	}
	if se.Error() != "[not_found] member not found" {
		t.Errorf("unexpected Error() %q", se.Error())
	}
}
