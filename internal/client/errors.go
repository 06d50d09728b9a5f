package client

import (
	"errors"
	"fmt"
)

// Local precondition failures. None of them reaches the network.
var (
	// ErrConfiguration is returned when the server URL or credentials are missing.
	ErrConfiguration = errors.New("missing server url or credentials")
	// ErrNotAuthenticated is returned when an operation needs a token and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrGameNotLoaded is returned when a game action is attempted with no current game.
	ErrGameNotLoaded = errors.New("game not loaded")
	// ErrMissingGameID is returned when a game is loaded without an id.
	ErrMissingGameID = errors.New("missing game id")
)

// ServerError describes a non-200 response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// TransportError wraps network failures, cancelled contexts and undecodable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
