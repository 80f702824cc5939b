package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Health checks API availability. No authentication is required, so no
// Authorization header is sent when no session is active.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var result HealthStatus
	if err := c.Do(ctx, "GET", "/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.Do(ctx, "POST", "/api/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.Do(ctx, "POST", "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, "POST", "/api/auth/logout", nil, nil)
}

// RefreshToken exchanges the current token for a fresh one. Refresh is
// always an explicit call; the client never schedules one itself.
func (c *Client) RefreshToken(ctx context.Context) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.Do(ctx, "POST", "/api/auth/refresh", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser returns the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var result User
	if err := c.Do(ctx, "GET", "/api/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProfile retrieves a profile by ID.
func (c *Client) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	path := fmt.Sprintf("/api/profiles/%s", url.PathEscape(profileID))
	var result Profile
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProfile updates the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	var result Profile
	if err := c.Do(ctx, "PATCH", "/api/profiles/me", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover returns a page of candidate profiles.
func (c *Client) Discover(ctx context.Context, offset, limit int) (*DiscoverPage, error) {
	query := url.Values{}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/discover"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result DiscoverPage
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LikeProfile records interest in a profile and reports whether it
// produced a mutual match.
func (c *Client) LikeProfile(ctx context.Context, profileID string) (*LikeResult, error) {
	path := fmt.Sprintf("/api/profiles/%s/like", url.PathEscape(profileID))
	var result LikeResult
	if err := c.Do(ctx, "POST", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PassProfile dismisses a profile from discovery.
func (c *Client) PassProfile(ctx context.Context, profileID string) error {
	path := fmt.Sprintf("/api/profiles/%s/pass", url.PathEscape(profileID))
	return c.Do(ctx, "POST", path, nil, nil)
}

// Matches lists the user's mutual matches.
func (c *Client) Matches(ctx context.Context) ([]Match, error) {
	var result []Match
	if err := c.Do(ctx, "GET", "/api/matches", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Conversations lists the user's chat threads.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var result []Conversation
	if err := c.Do(ctx, "GET", "/api/conversations", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Messages returns a page of messages for a conversation, newest first.
// An empty cursor starts at the latest message.
func (c *Client) Messages(ctx context.Context, conversationID, cursor string, limit int) (*MessagesPage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := fmt.Sprintf("/api/conversations/%s/messages", url.PathEscape(conversationID))
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result MessagesPage
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendMessage posts a message to a conversation. The client-generated
// ClientID makes resends after a retried request idempotent.
func (c *Client) SendMessage(ctx context.Context, conversationID string, req SendMessageRequest) (*Message, error) {
	path := fmt.Sprintf("/api/conversations/%s/messages", url.PathEscape(conversationID))
	var result Message
	if err := c.Do(ctx, "POST", path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkRead marks all messages up to and including messageID as read.
func (c *Client) MarkRead(ctx context.Context, conversationID, messageID string) error {
	path := fmt.Sprintf("/api/conversations/%s/read", url.PathEscape(conversationID))
	return c.Do(ctx, "POST", path, map[string]string{"messageId": messageID}, nil)
}

// GetConversationSync returns the lightweight sync state for a
// conversation, used by polling to detect changes before fetching.
func (c *Client) GetConversationSync(ctx context.Context, conversationID string) (*ConversationSync, error) {
	path := fmt.Sprintf("/api/conversations/%s/sync", url.PathEscape(conversationID))
	var result ConversationSync
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
