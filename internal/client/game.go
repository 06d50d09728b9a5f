package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vovakirdan/sweeper/internal/proto"
)

// ListGames returns the player's games. The current game is not touched.
func (c *Client) ListGames(ctx context.Context) (*Result[[]proto.GameSummary], error) {
	c.actions.Lock()
	defer c.actions.Unlock()

	if err := c.requireToken(); err != nil {
		return nil, err
	}

	res, err := roundTrip[proto.GamesResponse](ctx, c, http.MethodGet, proto.PathGames, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return &Result[[]proto.GameSummary]{Status: res.Status, Err: res.Err}, nil
	}

	c.log.Debug().Int("count", len(res.Data.Games)).Msg("games retrieved")
	return &Result[[]proto.GameSummary]{Status: res.Status, Data: res.Data.Games}, nil
}

// StartNewGame creates a game on the server and makes it the current one.
func (c *Client) StartNewGame(ctx context.Context, rows, columns, mines int) (*Result[*proto.Game], error) {
	c.actions.Lock()
	defer c.actions.Unlock()

	if err := c.requireToken(); err != nil {
		return nil, err
	}

	req := proto.NewGameRequest{Rows: rows, Columns: columns, Mines: mines}
	return c.refresh(ctx, http.MethodPost, proto.PathGames, req)
}

// LoadGame fetches the game with the given id and makes it the current one.
func (c *Client) LoadGame(ctx context.Context, id string) (*Result[*proto.Game], error) {
	c.actions.Lock()
	defer c.actions.Unlock()

	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrMissingGameID
	}

	return c.refresh(ctx, http.MethodGet, gamePath(id), nil)
}

// ClearCell reveals a cell of the current game.
func (c *Client) ClearCell(ctx context.Context, row, column int) (*Result[*proto.Game], error) {
	return c.cellAction(ctx, "/clear", row, column)
}

// ToggleCell cycles the mark on a cell of the current game.
func (c *Client) ToggleCell(ctx context.Context, row, column int) (*Result[*proto.Game], error) {
	return c.cellAction(ctx, "/toggle", row, column)
}

func (c *Client) cellAction(ctx context.Context, action string, row, column int) (*Result[*proto.Game], error) {
	c.actions.Lock()
	defer c.actions.Unlock()

	if err := c.requireGame(); err != nil {
		return nil, err
	}

	req := proto.CellRequest{Row: row, Column: column}
	return c.refresh(ctx, http.MethodPost, gamePath(c.currentGame().ID)+action, req)
}

// refresh is the single response rule of every game mutation: a 200 replaces
// the current game with the server's snapshot, anything else leaves it as is.
// Callers hold c.actions.
func (c *Client) refresh(ctx context.Context, method, path string, payload any) (*Result[*proto.Game], error) {
	res, err := roundTrip[proto.Game](ctx, c, method, path, payload)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return &Result[*proto.Game]{Status: res.Status, Err: res.Err}, nil
	}

	game := res.Data
	c.setGame(&game)
	return &Result[*proto.Game]{Status: res.Status, Data: game.Clone()}, nil
}

// IsFinished reports whether the current game has reached a terminal status.
// It is a local check and does not wait for an operation in flight.
func (c *Client) IsFinished() (bool, error) {
	if err := c.requireGame(); err != nil {
		return false, err
	}
	return c.currentGame().Status.Finished(), nil
}

// Game returns a copy of the current game.
func (c *Client) Game() (*proto.Game, bool) {
	game := c.currentGame()
	if game == nil {
		return nil, false
	}
	return game.Clone(), true
}

func gamePath(id string) string {
	return proto.PathGames + "/" + url.PathEscape(id)
}
