package upstream

import (
	"context"

	"github.com/fikertekiflu/hospital/pkg/types"
)

// AuthClient talks to the API server's authentication endpoints. Login is the
// one call sent without a bearer token.
type AuthClient struct {
	core *Client
}

// NewAuthClient creates an auth client over the shared core
func NewAuthClient(core *Client) *AuthClient {
	return &AuthClient{core: core}
}

// Login exchanges credentials for a bearer token
func (c *AuthClient) Login(ctx context.Context, creds types.Credentials) (*types.AuthToken, error) {
	var token types.AuthToken
	if err := c.core.post(ctx, "/auth/login", creds, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Logout revokes the current token server-side; callers clear local session
// state regardless of the outcome
func (c *AuthClient) Logout(ctx context.Context) error {
	return c.core.post(ctx, "/auth/logout", nil, nil)
}

// LogoutWithToken revokes an explicit token. The session store clears its
// state before calling this, so the token is no longer reachable through the
// usual TokenSource.
func (c *AuthClient) LogoutWithToken(ctx context.Context, token string) error {
	return c.core.WithToken(token).post(ctx, "/auth/logout", nil, nil)
}
