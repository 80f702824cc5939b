package matchpoint

import (
	"errors"
	"fmt"

	"github.com/matchpoint/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingBaseURL is returned when no base URL is provided.
	ErrMissingBaseURL = errors.New("base URL is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrUnauthorized is returned when the session token is missing, invalid, or expired.
	ErrUnauthorized = errors.New("invalid or expired session")

	// ErrProfileNotFound is returned when a profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrConversationNotFound is returned when a conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrValidation is returned when the backend rejects a request body.
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRequestCancelled is returned when the caller's context is
	// cancelled before or during a request, including during a retry
	// backoff wait.
	ErrRequestCancelled = api.ErrRequestCancelled
)

// MatchpointError is implemented by all SDK errors.
type MatchpointError interface {
	error
	MatchpointError() // marker method
}

// ResourceType indicates which kind of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown ResourceType = ""
	// ResourceProfile indicates the error relates to a profile.
	ResourceProfile ResourceType = "profile"
	// ResourceConversation indicates the error relates to a conversation.
	ResourceConversation ResourceType = "conversation"
)

// APIError represents an HTTP error from the Matchpoint API. The status
// code is a structured field; retry classification and sentinel mapping
// never parse it out of the message.
type APIError struct {
	StatusCode   int
	Message      string
	RequestID    string
	ResourceType ResourceType
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

// MatchpointError implements the MatchpointError interface.
func (e *APIError) MatchpointError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 404:
		switch e.ResourceType {
		case ResourceProfile:
			return target == ErrProfileNotFound
		case ResourceConversation:
			return target == ErrConversationNotFound
		default:
			return target == ErrProfileNotFound || target == ErrConversationNotFound
		}
	case 422:
		return target == ErrValidation
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MatchpointError implements the MatchpointError interface.
func (e *NetworkError) MatchpointError() {}

// wrapError converts internal API errors to public errors so that
// errors.Is() checks work with the public sentinels.
func wrapError(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:   apiErr.StatusCode,
			Message:      apiErr.Message,
			RequestID:    apiErr.RequestID,
			ResourceType: rt,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
