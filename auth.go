package matchpoint

import (
	"context"
	"errors"

	"github.com/matchpoint/client-go/internal/api"
)

// RegisterParams are the inputs for creating an account.
type RegisterParams struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates a new account and starts a session. On success the
// issued token is written to the token store.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	resp, err := c.apiClient.Register(ctx, api.RegisterRequest{
		Email:       params.Email,
		Password:    params.Password,
		DisplayName: params.DisplayName,
	})
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}

	if err := c.session.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates with email and password. On success the issued
// token is written to the token store and attached as a bearer
// credential to every subsequent request.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}

	if err := c.session.SetToken(resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout ends the session. The stored token is erased even when the
// server-side invalidation fails; the call's error is still returned so
// callers can log it.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	callErr := c.apiClient.Logout(ctx)
	if err := c.session.ClearToken(); err != nil {
		return err
	}
	if callErr != nil {
		wrapped := c.wrap(callErr, ResourceUnknown)
		if !errors.Is(wrapped, ErrUnauthorized) {
			return wrapped
		}
	}
	return nil
}

// RefreshToken exchanges the current session token for a fresh one and
// stores it. Refresh is always explicit; the client never schedules one.
func (c *Client) RefreshToken(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	resp, err := c.apiClient.RefreshToken(ctx)
	if err != nil {
		return c.wrap(err, ResourceUnknown)
	}
	return c.session.SetToken(resp.Token)
}

// CurrentUser returns the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	user, err := c.apiClient.CurrentUser(ctx)
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}
	return user, nil
}

// Health checks API availability. No session is required.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	status, err := c.apiClient.Health(ctx)
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}
	return status, nil
}

// Token returns the stored session token, if any.
func (c *Client) Token() (string, bool) {
	token, err := c.session.Token()
	return token, err == nil && token != ""
}

// SetToken stores a session token directly, for callers that obtained
// one out of band.
func (c *Client) SetToken(token string) error {
	return c.session.SetToken(token)
}

// ClearToken erases the stored session token without a server call.
func (c *Client) ClearToken() error {
	return c.session.ClearToken()
}
