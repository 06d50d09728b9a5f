package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vovakirdan/sweeper/internal/proto"
)

// Connect authenticates with the session credentials and stores the returned token.
// A rejected authentication leaves any previous token in place.
func (c *Client) Connect(ctx context.Context) (*Result[proto.AuthResponse], error) {
	c.actions.Lock()
	defer c.actions.Unlock()

	return c.connect(ctx)
}

func (c *Client) connect(ctx context.Context) (*Result[proto.AuthResponse], error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	res, err := roundTrip[proto.AuthResponse](ctx, c, http.MethodPost, proto.PathAuthenticate, c.creds)
	if err != nil {
		return nil, err
	}
	if res.OK() {
		c.setToken(res.Data.Token)
		c.log.Debug().Str("email", c.creds.Email).Msg("got session token")
	}
	return res, nil
}

// Register creates the account and, when the server accepts it, authenticates
// right away so a successful registration leaves the session connected.
// The returned result is the registration's; a rejected follow-up
// authentication is logged and leaves the session without a token.
func (c *Client) Register(ctx context.Context) (*Result[proto.RegisterResponse], error) {
	c.actions.Lock()
	defer c.actions.Unlock()

	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	res, err := roundTrip[proto.RegisterResponse](ctx, c, http.MethodPost, proto.PathRegister, c.creds)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return res, nil
	}

	auth, err := c.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect after register: %w", err)
	}
	if !auth.OK() {
		c.log.Warn().Str("email", c.creds.Email).Int("status", auth.Status).Msg("registered but authentication failed")
	}
	return res, nil
}

// Token returns the current session token, or "" before a successful Connect.
func (c *Client) Token() string {
	return c.currentToken()
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// Credentials returns the credentials the client was created with.
func (c *Client) Credentials() proto.Credentials {
	return c.creds
}
