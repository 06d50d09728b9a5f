package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/game"
	"github.com/vovakirdan/sweeper/internal/proto"
	"github.com/vovakirdan/sweeper/internal/service/games"
)

// GameHandlers serves the authenticated game routes.
type GameHandlers struct {
	games *games.Service
	log   *zerolog.Logger
}

// NewGameHandlers creates a new game handlers instance.
func NewGameHandlers(gameService *games.Service, logger *zerolog.Logger) *GameHandlers {
	return &GameHandlers{
		games: gameService,
		log:   logger,
	}
}

// List returns the caller's games.
// GET /games
func (h *GameHandlers) List(c *gin.Context) {
	userID := c.GetInt64(ContextKeyUserID)

	list, err := h.games.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, proto.GamesResponse{Games: list})
}

// Start creates a game.
// POST /games
func (h *GameHandlers) Start(c *gin.Context) {
	var req proto.NewGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid new game request")
		writeMessage(c, http.StatusBadRequest, "rows, columns and mines are required")
		return
	}

	g, err := h.games.Start(c.Request.Context(), c.GetInt64(ContextKeyUserID), req.Rows, req.Columns, req.Mines)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Get returns one game.
// GET /games/:id
func (h *GameHandlers) Get(c *gin.Context) {
	g, err := h.games.Get(c.Request.Context(), c.GetInt64(ContextKeyUserID), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Clear reveals a cell.
// POST /games/:id/clear
func (h *GameHandlers) Clear(c *gin.Context) {
	h.cellAction(c, h.games.Clear)
}

// Toggle cycles the mark on a cell.
// POST /games/:id/toggle
func (h *GameHandlers) Toggle(c *gin.Context) {
	h.cellAction(c, h.games.Toggle)
}

func (h *GameHandlers) cellAction(c *gin.Context, action func(context.Context, int64, string, int, int) (*proto.Game, error)) {
	var req proto.CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid cell request")
		writeMessage(c, http.StatusBadRequest, "row and column are required")
		return
	}

	g, err := action(c.Request.Context(), c.GetInt64(ContextKeyUserID), c.Param("id"), req.Row, req.Column)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GameHandlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, games.ErrGameNotFound):
		writeMessage(c, http.StatusNotFound, "game not found")
	case errors.Is(err, game.ErrInvalidSettings),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrAlreadyRevealed):
		writeMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrFinished):
		writeMessage(c, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("game request failed")
		writeMessage(c, http.StatusInternalServerError, "internal server error")
	}
}
