package matchpoint

import (
	"errors"
	"testing"

	"github.com/matchpoint/client-go/internal/api"
)

func TestAPIError_SentinelMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     *APIError
		target  error
		matches bool
	}{
		{"401 unauthorized", &APIError{StatusCode: 401}, ErrUnauthorized, true},
		{"404 profile", &APIError{StatusCode: 404, ResourceType: ResourceProfile}, ErrProfileNotFound, true},
		{"404 profile not conversation", &APIError{StatusCode: 404, ResourceType: ResourceProfile}, ErrConversationNotFound, false},
		{"404 conversation", &APIError{StatusCode: 404, ResourceType: ResourceConversation}, ErrConversationNotFound, true},
		{"404 unknown matches profile", &APIError{StatusCode: 404}, ErrProfileNotFound, true},
		{"404 unknown matches conversation", &APIError{StatusCode: 404}, ErrConversationNotFound, true},
		{"422 validation", &APIError{StatusCode: 422}, ErrValidation, true},
		{"429 rate limited", &APIError{StatusCode: 429}, ErrRateLimited, true},
		{"500 matches nothing", &APIError{StatusCode: 500}, ErrUnauthorized, false},
		{"403 matches nothing", &APIError{StatusCode: 403}, ErrValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.matches {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.matches)
			}
		})
	}
}

func TestAPIError_ErrorString(t *testing.T) {
	err := &APIError{StatusCode: 422, Message: "bad email", RequestID: "req-1"}
	want := "API error 422: bad email (request_id: req-1)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapError_ConvertsInternalErrors(t *testing.T) {
	internal := &api.APIError{StatusCode: 404, Message: "gone", RequestID: "req-2"}
	wrapped := wrapError(internal, ResourceProfile)

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatalf("wrapError() = %T, want *APIError", wrapped)
	}
	if apiErr.StatusCode != 404 || apiErr.Message != "gone" || apiErr.RequestID != "req-2" {
		t.Errorf("wrapped = %+v", apiErr)
	}
	if apiErr.ResourceType != ResourceProfile {
		t.Errorf("ResourceType = %q, want profile", apiErr.ResourceType)
	}
	if !errors.Is(wrapped, ErrProfileNotFound) {
		t.Error("wrapped 404 does not match ErrProfileNotFound")
	}
}

func TestWrapError_ConvertsNetworkErrors(t *testing.T) {
	cause := errors.New("connection refused")
	internal := &api.NetworkError{Err: cause, URL: "http://x/api/me", Attempt: 2}
	wrapped := wrapError(internal, ResourceUnknown)

	var netErr *NetworkError
	if !errors.As(wrapped, &netErr) {
		t.Fatalf("wrapError() = %T, want *NetworkError", wrapped)
	}
	if netErr.Attempt != 2 || netErr.URL != "http://x/api/me" {
		t.Errorf("wrapped = %+v", netErr)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped network error does not unwrap to its cause")
	}
}

func TestWrapError_PassesThroughOtherErrors(t *testing.T) {
	if wrapError(nil, ResourceUnknown) != nil {
		t.Error("wrapError(nil) != nil")
	}

	plain := errors.New("something else")
	if got := wrapError(plain, ResourceUnknown); got != plain {
		t.Errorf("wrapError(plain) = %v, want passthrough", got)
	}

	cancelled := &api.CancelledError{}
	if got := wrapError(cancelled, ResourceUnknown); !errors.Is(got, ErrRequestCancelled) {
		t.Errorf("cancelled error lost its sentinel: %v", got)
	}
}

func TestMarkerInterface(t *testing.T) {
	var _ MatchpointError = (*APIError)(nil)
	var _ MatchpointError = (*NetworkError)(nil)
}
