package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/game"
	"github.com/vovakirdan/sweeper/internal/proto"
	"github.com/vovakirdan/sweeper/internal/store"
)

// ErrGameNotFound is returned for unknown games and for games owned by someone else.
var ErrGameNotFound = errors.New("game not found")

// Service provides game business logic on top of the board engine.
type Service struct {
	store store.GameStore
	log   *zerolog.Logger
	locks *keyedMutex
	now   func() time.Time
}

// New creates a new game service.
func New(st store.GameStore, logger *zerolog.Logger) *Service {
	return &Service{
		store: st,
		log:   logger,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
}

// Start creates a game for the user with a fresh random layout.
func (s *Service) Start(ctx context.Context, userID int64, rows, columns, mines int) (*proto.Game, error) {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	board, err := game.NewBoard(rows, columns, mines, rng)
	if err != nil {
		return nil, err
	}

	state, err := json.Marshal(board)
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}

	rec := &store.Game{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rows:      rows,
		Columns:   columns,
		Mines:     mines,
		MinesLeft: board.MinesLeft(),
		Status:    board.Status,
		State:     state,
		StartTime: s.now().UTC(),
	}
	if err := s.store.CreateGame(ctx, rec); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.log.Info().Str("game_id", rec.ID).Int64("user_id", userID).Int("rows", rows).Int("columns", columns).Int("mines", mines).Msg("game started")
	return snapshot(rec, board), nil
}

// Get returns the user's game.
func (s *Service) Get(ctx context.Context, userID int64, id string) (*proto.Game, error) {
	rec, board, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return snapshot(rec, board), nil
}

// List returns summaries of the user's games, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]proto.GameSummary, error) {
	recs, err := s.store.ListGames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]proto.GameSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, proto.GameSummary{
			ID:        rec.ID,
			Status:    rec.Status,
			MinesLeft: rec.MinesLeft,
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
		})
	}
	return out, nil
}

// Clear reveals a cell of the user's game.
func (s *Service) Clear(ctx context.Context, userID int64, id string, row, column int) (*proto.Game, error) {
	return s.apply(ctx, userID, id, func(b *game.Board) error {
		return b.Clear(row, column)
	})
}

// Toggle cycles the mark on a cell of the user's game.
func (s *Service) Toggle(ctx context.Context, userID int64, id string, row, column int) (*proto.Game, error) {
	return s.apply(ctx, userID, id, func(b *game.Board) error {
		return b.Toggle(row, column)
	})
}

// apply runs one engine action and persists the result. Actions on the same
// game are serialised so concurrent requests cannot lose updates.
func (s *Service) apply(ctx context.Context, userID int64, id string, action func(*game.Board) error) (*proto.Game, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	rec, board, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := action(board); err != nil {
		return nil, err
	}

	state, err := json.Marshal(board)
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}

	wasFinished := rec.Status.Finished()
	rec.State = state
	rec.Status = board.Status
	rec.MinesLeft = board.MinesLeft()
	if !wasFinished && board.Status.Finished() {
		end := s.now().UTC()
		rec.EndTime = &end
		s.log.Info().Str("game_id", rec.ID).Str("status", string(board.Status)).Msg("game finished")
	}

	if err := s.store.UpdateGame(ctx, rec); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}
	return snapshot(rec, board), nil
}

func (s *Service) load(ctx context.Context, userID int64, id string) (*store.Game, *game.Board, error) {
	rec, err := s.store.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, fmt.Errorf("get game: %w", err)
	}
	if rec.UserID != userID {
		return nil, nil, ErrGameNotFound
	}

	var board game.Board
	if err := json.Unmarshal(rec.State, &board); err != nil {
		return nil, nil, fmt.Errorf("decode board: %w", err)
	}
	return rec, &board, nil
}

func snapshot(rec *store.Game, board *game.Board) *proto.Game {
	return &proto.Game{
		ID:        rec.ID,
		Board:     board.View(),
		Status:    rec.Status,
		Rows:      rec.Rows,
		Columns:   rec.Columns,
		Mines:     rec.Mines,
		MinesLeft: rec.MinesLeft,
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
	}
}
