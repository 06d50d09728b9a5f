package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the outcome of a game.
type Status string

const (
	StatusStarted Status = "started"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Finished reports whether the status is terminal.
func (s Status) Finished() bool {
	return s != StatusStarted
}

// Cell is the visible value of one board square.
// Revealed squares hold the adjacent mine count (0..8) or CellMine.
// Hidden squares hold one of the marker values.
type Cell int

const (
	CellMine      Cell = -1
	CellCovered   Cell = 100
	CellFlagged   Cell = 101
	CellUncertain Cell = 102
)

const (
	markerCovered   = "C"
	markerFlagged   = "F"
	markerUncertain = "?"
)

// Revealed reports whether the cell shows a count or a mine.
func (c Cell) Revealed() bool {
	return c >= CellMine && c <= 8
}

// MarshalJSON encodes counts and mines as numbers and markers as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c {
	case CellCovered:
		return json.Marshal(markerCovered)
	case CellFlagged:
		return json.Marshal(markerFlagged)
	case CellUncertain:
		return json.Marshal(markerUncertain)
	}
	if !c.Revealed() {
		return nil, fmt.Errorf("invalid cell value %d", int(c))
	}
	return json.Marshal(int(c))
}

// UnmarshalJSON accepts 0..8, -1, "C", "F" and "?".
func (c *Cell) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		switch marker {
		case markerCovered:
			*c = CellCovered
		case markerFlagged:
			*c = CellFlagged
		case markerUncertain:
			*c = CellUncertain
		default:
			return fmt.Errorf("unknown cell marker %q", marker)
		}
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode cell: %w", err)
	}
	if v := Cell(n); v.Revealed() {
		*c = v
		return nil
	}
	return fmt.Errorf("cell value %d out of range", n)
}

// Game is the server-authoritative snapshot of one game.
type Game struct {
	ID        string     `json:"id"`
	Board     [][]Cell   `json:"board"`
	Status    Status     `json:"status"`
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	Mines     int        `json:"mines"`
	MinesLeft int        `json:"mines_left"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g
	if g.Board != nil {
		out.Board = make([][]Cell, len(g.Board))
		for i, row := range g.Board {
			out.Board[i] = append([]Cell(nil), row...)
		}
	}
	if g.EndTime != nil {
		end := *g.EndTime
		out.EndTime = &end
	}
	return &out
}

// UnmarshalJSON accepts the id as a JSON string or a JSON number.
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	aux := struct {
		*plain
		ID gameID `json:"id"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.ID = string(aux.ID)
	return nil
}

// GameSummary is one entry of the games list.
type GameSummary struct {
	ID        string     `json:"id"`
	Status    Status     `json:"status"`
	MinesLeft int        `json:"mines_left"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON string or a JSON number.
func (g *GameSummary) UnmarshalJSON(data []byte) error {
	type plain GameSummary
	aux := struct {
		*plain
		ID gameID `json:"id"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.ID = string(aux.ID)
	return nil
}

// gameID is an opaque game identifier. Servers may send it as a string or
// as a number; either way it is kept as text.
type gameID string

func (id *gameID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = gameID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("game id must be a string or a number: %w", err)
	}
	*id = gameID(n.String())
	return nil
}
