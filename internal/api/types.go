package api

import "time"

// User represents an authenticated account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile represents a user's public matching profile.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Headline    string    `json:"headline,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	Location    string    `json:"location,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RegisterRequest represents the POST /api/auth/register request.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest represents the POST /api/auth/login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login, and refresh.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// HealthStatus represents the GET /health response.
type HealthStatus struct {
	Status string `json:"status"`
}

// UpdateProfileRequest represents the PATCH /api/profiles/me request.
// Nil pointer fields are omitted and left unchanged server-side.
type UpdateProfileRequest struct {
	DisplayName *string   `json:"displayName,omitempty"`
	Headline    *string   `json:"headline,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Interests   *[]string `json:"interests,omitempty"`
	Location    *string   `json:"location,omitempty"`
}

// DiscoverPage is a page of candidate profiles.
type DiscoverPage struct {
	Profiles   []Profile `json:"profiles"`
	NextOffset int       `json:"nextOffset"`
	HasMore    bool      `json:"hasMore"`
}

// LikeResult reports the outcome of liking a profile.
type LikeResult struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"matchId,omitempty"`
}

// Match represents a mutual match between two profiles.
type Match struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation represents a chat thread attached to a match.
type Conversation struct {
	ID           string    `json:"id"`
	MatchID      string    `json:"matchId"`
	Participants []string  `json:"participants"`
	LastMessage  *Message  `json:"lastMessage,omitempty"`
	UnreadCount  int       `json:"unreadCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Message represents a single chat message. ClientID is the
// client-generated identifier used for idempotent optimistic sends.
type Message struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"clientId,omitempty"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	Body           string     `json:"body"`
	SentAt         time.Time  `json:"sentAt"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}

// SendMessageRequest represents the POST .../messages request.
type SendMessageRequest struct {
	ClientID string `json:"clientId"`
	Body     string `json:"body"`
}

// MessagesPage is a cursor-paginated page of messages.
type MessagesPage struct {
	Messages   []Message `json:"messages"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// ConversationSync represents the lightweight per-conversation sync
// state used by the polling strategy to detect changes cheaply.
type ConversationSync struct {
	MessageCount int    `json:"messageCount"`
	MessagesHash string `json:"messagesHash"`
}

// MessageEvent is a realtime event announcing a new message.
type MessageEvent struct {
	ConversationID string  `json:"conversationId"`
	Message        Message `json:"message"`
}
