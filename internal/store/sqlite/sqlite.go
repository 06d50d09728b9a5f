package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/sweeper/internal/proto"
	"github.com/vovakirdan/sweeper/internal/store"
)

// Schema creates every table the store needs.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	num_rows   INTEGER NOT NULL,
	num_cols   INTEGER NOT NULL,
	mines      INTEGER NOT NULL,
	mines_left INTEGER NOT NULL,
	status     TEXT NOT NULL,
	state      BLOB NOT NULL,
	start_time DATETIME NOT NULL,
	end_time   DATETIME,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_games_user ON games(user_id, start_time DESC);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, Migrate)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply schema without touching disk.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with single connection; it also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate applies Schema.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %w", store.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var user store.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// ==== GameStore implementation ====

// CreateGame inserts a new game.
func (s *SQLiteStore) CreateGame(ctx context.Context, game *store.Game) error {
	query := `
		INSERT INTO games (id, user_id, num_rows, num_cols, mines, mines_left, status, state, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		game.ID,
		game.UserID,
		game.Rows,
		game.Columns,
		game.Mines,
		game.MinesLeft,
		string(game.Status),
		game.State,
		game.StartTime.UTC(),
		nullTime(game.EndTime),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("game %w", store.ErrAlreadyExists)
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// UpdateGame overwrites the mutable fields of an existing game.
func (s *SQLiteStore) UpdateGame(ctx context.Context, game *store.Game) error {
	query := `
		UPDATE games
		SET mines_left = ?, status = ?, state = ?, end_time = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		game.MinesLeft,
		string(game.Status),
		game.State,
		nullTime(game.EndTime),
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("game %w", store.ErrNotFound)
	}
	return nil
}

// GetGame retrieves a game by ID.
func (s *SQLiteStore) GetGame(ctx context.Context, id string) (*store.Game, error) {
	query := `
		SELECT id, user_id, num_rows, num_cols, mines, mines_left, status, state, start_time, end_time
		FROM games
		WHERE id = ?
	`
	game, err := scanGame(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("query game: %w", err)
	}
	return game, nil
}

// ListGames lists a user's games, newest first.
func (s *SQLiteStore) ListGames(ctx context.Context, userID int64) ([]*store.Game, error) {
	query := `
		SELECT id, user_id, num_rows, num_cols, mines, mines_left, status, state, start_time, end_time
		FROM games
		WHERE user_id = ?
		ORDER BY start_time DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := make([]*store.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*store.Game, error) {
	var (
		game    store.Game
		status  string
		endTime sql.NullTime
	)
	err := row.Scan(
		&game.ID,
		&game.UserID,
		&game.Rows,
		&game.Columns,
		&game.Mines,
		&game.MinesLeft,
		&status,
		&game.State,
		&game.StartTime,
		&endTime,
	)
	if err != nil {
		return nil, err
	}
	game.Status = proto.Status(status)
	if endTime.Valid {
		t := endTime.Time
		game.EndTime = &t
	}
	return &game, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
