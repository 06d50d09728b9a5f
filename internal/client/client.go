package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/proto"
)

// Client is the session and game-state controller for one player.
// Round trips are serialised: a call issued while another is in flight waits
// for it, so server responses are installed in the order calls were made.
// Local reads never wait on a round trip.
type Client struct {
	baseURL string
	creds   proto.Credentials
	http    *http.Client
	log     *zerolog.Logger

	// actions is held for a whole round trip.
	actions sync.Mutex

	// state guards token and game. It is only held to read or swap them.
	state sync.RWMutex
	token string
	game  *proto.Game
}

// New creates a controller for the given server and credentials.
// A nil httpClient falls back to http.DefaultClient and a nil logger discards output.
func New(serverURL string, creds proto.Credentials, httpClient *http.Client, logger *zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		creds:   creds,
		http:    httpClient,
		log:     logger,
	}
}

// newRequest builds a JSON request for path. The token header is attached
// when a token is held.
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, transportError("encode request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, transportError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set(proto.TokenHeader, token)
	}
	return req, nil
}

// do performs one round trip. On 200 the body is decoded into out; any other
// status is returned as a ServerError built from the body's message.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) (int, *ServerError, error) {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, transportError(method+" "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError("read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, c.serverError(method, path, resp.StatusCode, data), nil
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, nil, transportError("decode response", err)
		}
	}
	return resp.StatusCode, nil, nil
}

func (c *Client) serverError(method, path string, status int, body []byte) *ServerError {
	var resp proto.ErrorResponse
	// The message is optional; an undecodable body still yields the status.
	_ = json.Unmarshal(body, &resp)

	c.log.Warn().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Str("message", resp.Message).
		Msg("server rejected request")

	return &ServerError{Status: status, Message: resp.Message}
}

func roundTrip[T any](ctx context.Context, c *Client, method, path string, payload any) (*Result[T], error) {
	var data T
	status, failure, err := c.do(ctx, method, path, payload, &data)
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return &Result[T]{Status: status, Err: failure}, nil
	}
	return &Result[T]{Status: status, Data: data}, nil
}

func (c *Client) requireAuth() error {
	if c.baseURL == "" || c.creds.Email == "" || c.creds.Password == "" {
		c.log.Warn().Msg("missing server url or credentials, cannot continue")
		return ErrConfiguration
	}
	return nil
}

func (c *Client) requireToken() error {
	if c.baseURL == "" || c.currentToken() == "" {
		c.log.Warn().Msg("no session token, cannot continue")
		return ErrNotAuthenticated
	}
	return nil
}

func (c *Client) requireGame() error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if c.currentGame() == nil {
		c.log.Warn().Msg("no game loaded")
		return ErrGameNotLoaded
	}
	return nil
}

func (c *Client) currentToken() string {
	c.state.RLock()
	defer c.state.RUnlock()

	return c.token
}

// currentGame returns the cached snapshot. Snapshots are replaced, never
// mutated, so the pointer is safe to read after the lock is released.
func (c *Client) currentGame() *proto.Game {
	c.state.RLock()
	defer c.state.RUnlock()

	return c.game
}

func (c *Client) setToken(token string) {
	c.state.Lock()
	c.token = token
	c.state.Unlock()
}

func (c *Client) setGame(game *proto.Game) {
	c.state.Lock()
	c.game = game
	c.state.Unlock()
}

// IsLocal reports whether err is a precondition failure raised before any request.
func IsLocal(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrGameNotLoaded) ||
		errors.Is(err, ErrMissingGameID)
}
