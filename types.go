package matchpoint

import "github.com/matchpoint/client-go/internal/api"

// Wire types shared with the API layer.
type (
	// User represents an authenticated account.
	User = api.User
	// Profile represents a user's public matching profile.
	Profile = api.Profile
	// UpdateProfileRequest updates the authenticated user's profile.
	// Nil pointer fields are left unchanged server-side.
	UpdateProfileRequest = api.UpdateProfileRequest
	// DiscoverPage is a page of candidate profiles.
	DiscoverPage = api.DiscoverPage
	// LikeResult reports whether a like produced a mutual match.
	LikeResult = api.LikeResult
	// Match represents a mutual match between two profiles.
	Match = api.Match
	// Conversation represents a chat thread attached to a match.
	Conversation = api.Conversation
	// Message represents a single chat message.
	Message = api.Message
	// MessagesPage is a cursor-paginated page of messages.
	MessagesPage = api.MessagesPage
	// HealthStatus reports API availability.
	HealthStatus = api.HealthStatus
)

// RequestLogger is the pluggable logging interface used by the client.
// Implementations should redact credentials before persisting output.
type RequestLogger = api.RequestLogger

// NoopLogger discards all log output. It is the default logger.
type NoopLogger = api.NoopLogger

// RetryPolicy governs retry behavior for failed requests. Invalid
// values are clamped to defaults.
type RetryPolicy = api.RetryPolicy

// DefaultRetryPolicy returns the default retry policy: three retries,
// exponential backoff from 500ms, retrying on 408/429/5xx.
func DefaultRetryPolicy() *RetryPolicy {
	return api.DefaultRetryPolicy()
}
