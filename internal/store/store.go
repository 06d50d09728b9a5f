package store

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/sweeper/internal/proto"
)

var (
	// ErrNotFound is wrapped by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is wrapped by inserts that violate a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
)

// User represents a registered player.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Game represents a persisted game. State is the engine's serialised board.
type Game struct {
	ID        string // UUID
	UserID    int64
	Rows      int
	Columns   int
	Mines     int
	MinesLeft int
	Status    proto.Status
	State     []byte
	StartTime time.Time
	EndTime   *time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// GameStore handles game persistence.
type GameStore interface {
	// CreateGame inserts a new game.
	CreateGame(ctx context.Context, game *Game) error

	// UpdateGame overwrites the mutable fields of an existing game.
	UpdateGame(ctx context.Context, game *Game) error

	// GetGame retrieves a game by ID.
	GetGame(ctx context.Context, id string) (*Game, error)

	// ListGames lists a user's games, newest first.
	ListGames(ctx context.Context, userID int64) ([]*Game, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	GameStore

	// Close closes the underlying database connection.
	Close() error
}
