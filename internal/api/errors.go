package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrRequestCancelled is returned when the caller's context is cancelled
// before or during a request, including during a retry backoff wait.
// Check with errors.Is; a cancellation is never retried and never
// confused with a server-side failure.
var ErrRequestCancelled = errors.New("request cancelled")

// APIError represents an HTTP error from the Matchpoint API. The status
// code is carried as a structured field so retry classification never
// has to parse it back out of a message string.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// NetworkError represents a transport-level failure: connection refused,
// reset, malformed response body, and similar. It carries the attempt
// index at which the failure was observed.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CancelledError wraps a context cancellation so callers can match both
// ErrRequestCancelled and the underlying context error.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return "request cancelled"
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for the cancellation sentinel.
func (e *CancelledError) Is(target error) bool {
	return target == ErrRequestCancelled
}

func cancelled(err error) error {
	return &CancelledError{Err: err}
}

// parseErrorResponse builds an APIError from a non-2xx response body.
func parseErrorResponse(statusCode int, body []byte, requestID string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    extractErrorMessage(body, http.StatusText(statusCode)),
		RequestID:  requestID,
	}
}

// extractErrorMessage pulls a human-readable message out of the error
// body shapes the backend is known to produce:
//
//	{"detail": "message"}
//	{"detail": [{"msg": "..."}, ...]}   (validation list, joined with " | ")
//	{"message": "..."} / {"error": "..."} / {"msg": "..."}
//
// Anything else parseable is stringified as compact JSON; an unparseable
// or empty body falls back to the HTTP status text.
func extractErrorMessage(body []byte, statusText string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return statusText
	}

	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return statusText
	}

	if detail, ok := payload["detail"]; ok {
		switch v := detail.(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			if msg := joinValidationMessages(v); msg != "" {
				return msg
			}
		case map[string]any:
			if msg := firstMessageField(v); msg != "" {
				return msg
			}
		}
	}

	if msg := firstMessageField(payload); msg != "" {
		return msg
	}

	compact, err := json.Marshal(payload)
	if err != nil || string(compact) == "{}" {
		return statusText
	}
	return string(compact)
}

// joinValidationMessages flattens a validation-error list into a single
// " | "-separated string.
func joinValidationMessages(items []any) string {
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				msgs = append(msgs, v)
			}
		case map[string]any:
			if msg := firstMessageField(v); msg != "" {
				msgs = append(msgs, msg)
			}
		}
	}
	return strings.Join(msgs, " | ")
}

// firstMessageField returns the first populated message-like field.
func firstMessageField(m map[string]any) string {
	for _, key := range []string{"msg", "detail", "message", "error"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
