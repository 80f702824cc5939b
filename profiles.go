package matchpoint

import "context"

// GetProfile retrieves a profile by ID.
func (c *Client) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	profile, err := c.apiClient.GetProfile(ctx, profileID)
	if err != nil {
		return nil, c.wrap(err, ResourceProfile)
	}
	return profile, nil
}

// UpdateProfile updates the authenticated user's profile. Nil fields in
// req are left unchanged.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	profile, err := c.apiClient.UpdateProfile(ctx, req)
	if err != nil {
		return nil, c.wrap(err, ResourceProfile)
	}
	return profile, nil
}

// Discover returns a page of candidate profiles starting at offset.
// limit <= 0 lets the server choose the page size.
func (c *Client) Discover(ctx context.Context, offset, limit int) (*DiscoverPage, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	page, err := c.apiClient.Discover(ctx, offset, limit)
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}
	return page, nil
}

// Like records interest in a profile. The result reports whether the
// like produced a mutual match.
func (c *Client) Like(ctx context.Context, profileID string) (*LikeResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	result, err := c.apiClient.LikeProfile(ctx, profileID)
	if err != nil {
		return nil, c.wrap(err, ResourceProfile)
	}
	return result, nil
}

// Pass dismisses a profile from discovery.
func (c *Client) Pass(ctx context.Context, profileID string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	return c.wrap(c.apiClient.PassProfile(ctx, profileID), ResourceProfile)
}

// Matches lists the user's mutual matches.
func (c *Client) Matches(ctx context.Context) ([]Match, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	matches, err := c.apiClient.Matches(ctx)
	if err != nil {
		return nil, c.wrap(err, ResourceUnknown)
	}
	return matches, nil
}
