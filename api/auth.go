package api

import (
	"context"
	"errors"
)

// ErrNoToken is returned when the backend accepts a login but sends no token.
var ErrNoToken = errors.New("api: login response carried no access_token")

// Login exchanges credentials for an access token. It does not store the
// token; that is the caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/login", &LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &resp, nil
}

// Health checks backend connectivity.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var resp HealthStatus
	if err := c.get(ctx, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
