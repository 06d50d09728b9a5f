package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/vovakirdan/sweeper/internal/proto"
)

var (
	flagColor      = color.New(color.FgYellow, color.Bold)
	uncertainColor = color.New(color.FgMagenta)
	mineColor      = color.New(color.FgRed, color.Bold)
	numberColor    = color.New(color.FgCyan)
)

// Glyph returns the one-character symbol painted for a cell.
func Glyph(c proto.Cell) string {
	switch {
	case c == proto.CellCovered:
		return "#"
	case c == proto.CellFlagged:
		return "F"
	case c == proto.CellUncertain:
		return "?"
	case c == proto.CellMine:
		return "*"
	case c == 0:
		return "."
	default:
		return strconv.Itoa(int(c))
	}
}

func paint(c proto.Cell, padded string) string {
	switch {
	case c == proto.CellFlagged:
		return flagColor.Sprint(padded)
	case c == proto.CellUncertain:
		return uncertainColor.Sprint(padded)
	case c == proto.CellMine:
		return mineColor.Sprint(padded)
	case c > 0 && c.Revealed():
		return numberColor.Sprint(padded)
	default:
		return padded
	}
}

// RenderBoard writes the grid with row and column indices.
func RenderBoard(w io.Writer, board [][]proto.Cell) error {
	if len(board) == 0 {
		_, err := fmt.Fprintln(w, "(empty board)")
		return err
	}

	var b strings.Builder
	b.WriteString("   ")
	for c := range board[0] {
		fmt.Fprintf(&b, "%3d", c)
	}
	b.WriteByte('\n')

	for r, row := range board {
		fmt.Fprintf(&b, "%3d", r)
		for _, cell := range row {
			b.WriteString(paint(cell, fmt.Sprintf("%3s", Glyph(cell))))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderStatus writes the mines left, the outcome and the game's timestamps.
func RenderStatus(w io.Writer, g *proto.Game) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Game: %s (%dx%d, %d mines)\n", g.ID, g.Rows, g.Columns, g.Mines)
	fmt.Fprintf(&b, "Mines left: %d\n", g.MinesLeft)
	fmt.Fprintf(&b, "Outcome: %s\n", outcome(g.Status))
	fmt.Fprintf(&b, "Started on: %s\n", g.StartTime.Local().Format(time.DateTime))
	if g.EndTime != nil {
		fmt.Fprintf(&b, "Ended on: %s\n", g.EndTime.Local().Format(time.DateTime))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderGame writes the status block followed by the board.
func RenderGame(w io.Writer, g *proto.Game) error {
	if err := RenderStatus(w, g); err != nil {
		return err
	}
	return RenderBoard(w, g.Board)
}

func outcome(s proto.Status) string {
	switch s {
	case proto.StatusWon:
		return "won"
	case proto.StatusLost:
		return "lost"
	default:
		return "in progress"
	}
}
