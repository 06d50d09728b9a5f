package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/vovakirdan/sweeper/internal/proto"
)

// Board size limits.
const (
	MinSize = 2
	MaxSize = 50
)

var (
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrOutOfBounds     = errors.New("cell out of bounds")
	ErrFinished        = errors.New("game is already finished")
	ErrAlreadyRevealed = errors.New("cell is already revealed")
)

// Mark is the player's annotation on a hidden cell.
type Mark int

const (
	MarkNone Mark = iota
	MarkFlag
	MarkUncertain
)

// Cell is the full server-side state of one square.
type Cell struct {
	Mine      bool `json:"mine"`
	Revealed  bool `json:"revealed"`
	Mark      Mark `json:"mark"`
	Neighbors int  `json:"neighbors"`
}

// Board holds the hidden layout and the progress of one game.
// It serialises to JSON for storage.
type Board struct {
	Rows    int          `json:"rows"`
	Columns int          `json:"columns"`
	Mines   int          `json:"mines"`
	Status  proto.Status `json:"status"`
	Cells   [][]Cell     `json:"cells"`
}

// Validate checks board dimensions and mine count.
func Validate(rows, columns, mines int) error {
	if rows < MinSize || rows > MaxSize || columns < MinSize || columns > MaxSize {
		return fmt.Errorf("%w: board must be between %dx%d and %dx%d", ErrInvalidSettings, MinSize, MinSize, MaxSize, MaxSize)
	}
	if mines < 1 || mines >= rows*columns {
		return fmt.Errorf("%w: mines must be between 1 and %d", ErrInvalidSettings, rows*columns-1)
	}
	return nil
}

// NewBoard lays out mines uniformly at random.
func NewBoard(rows, columns, mines int, rng *rand.Rand) (*Board, error) {
	if err := Validate(rows, columns, mines); err != nil {
		return nil, err
	}
	positions := rng.Perm(rows * columns)[:mines]
	return newBoard(rows, columns, positions), nil
}

// newBoard builds a board with mines at the given row-major positions.
func newBoard(rows, columns int, positions []int) *Board {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, columns)
	}
	b := &Board{
		Rows:    rows,
		Columns: columns,
		Mines:   len(positions),
		Status:  proto.StatusStarted,
		Cells:   cells,
	}
	for _, p := range positions {
		b.Cells[p/columns][p%columns].Mine = true
	}
	b.calculateNeighbors()
	return b
}

func (b *Board) calculateNeighbors() {
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Columns; c++ {
			if b.Cells[r][c].Mine {
				continue
			}
			count := 0
			b.eachNeighbor(r, c, func(nr, nc int) {
				if b.Cells[nr][nc].Mine {
					count++
				}
			})
			b.Cells[r][c].Neighbors = count
		}
	}
}

func (b *Board) eachNeighbor(r, c int, fn func(nr, nc int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if b.inBounds(nr, nc) {
				fn(nr, nc)
			}
		}
	}
}

func (b *Board) inBounds(r, c int) bool {
	return r >= 0 && r < b.Rows && c >= 0 && c < b.Columns
}

func (b *Board) checkAction(r, c int) error {
	if b.Status.Finished() {
		return ErrFinished
	}
	if !b.inBounds(r, c) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, r, c)
	}
	return nil
}

// Clear reveals a cell. A mine loses the game and exposes every mine; a cell
// with no adjacent mines opens its neighbours recursively. Marked and
// already revealed cells are left alone.
func (b *Board) Clear(r, c int) error {
	if err := b.checkAction(r, c); err != nil {
		return err
	}

	cell := &b.Cells[r][c]
	if cell.Revealed || cell.Mark != MarkNone {
		return nil
	}

	if cell.Mine {
		b.Status = proto.StatusLost
		for i := range b.Cells {
			for j := range b.Cells[i] {
				if b.Cells[i][j].Mine {
					b.Cells[i][j].Revealed = true
				}
			}
		}
		return nil
	}

	b.flood(r, c)
	if b.revealedCount() == b.Rows*b.Columns-b.Mines {
		b.Status = proto.StatusWon
	}
	return nil
}

func (b *Board) flood(r, c int) {
	queue := [][2]int{{r, c}}
	b.Cells[r][c].Revealed = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if b.Cells[cur[0]][cur[1]].Neighbors != 0 {
			continue
		}
		b.eachNeighbor(cur[0], cur[1], func(nr, nc int) {
			n := &b.Cells[nr][nc]
			if n.Revealed || n.Mine || n.Mark != MarkNone {
				return
			}
			n.Revealed = true
			queue = append(queue, [2]int{nr, nc})
		})
	}
}

func (b *Board) revealedCount() int {
	count := 0
	for i := range b.Cells {
		for j := range b.Cells[i] {
			if b.Cells[i][j].Revealed && !b.Cells[i][j].Mine {
				count++
			}
		}
	}
	return count
}

// Toggle cycles the mark of a hidden cell: none, flag, uncertain, none.
func (b *Board) Toggle(r, c int) error {
	if err := b.checkAction(r, c); err != nil {
		return err
	}

	cell := &b.Cells[r][c]
	if cell.Revealed {
		return ErrAlreadyRevealed
	}
	switch cell.Mark {
	case MarkNone:
		cell.Mark = MarkFlag
	case MarkFlag:
		cell.Mark = MarkUncertain
	default:
		cell.Mark = MarkNone
	}
	return nil
}

// MinesLeft is the mine count minus placed flags. It goes negative when the
// player over-flags.
func (b *Board) MinesLeft() int {
	flags := 0
	for i := range b.Cells {
		for j := range b.Cells[i] {
			if b.Cells[i][j].Mark == MarkFlag {
				flags++
			}
		}
	}
	return b.Mines - flags
}

// View renders the board as the player sees it.
func (b *Board) View() [][]proto.Cell {
	view := make([][]proto.Cell, b.Rows)
	for i := range b.Cells {
		view[i] = make([]proto.Cell, b.Columns)
		for j, cell := range b.Cells[i] {
			view[i][j] = cell.view()
		}
	}
	return view
}

func (c Cell) view() proto.Cell {
	switch {
	case c.Revealed && c.Mine:
		return proto.CellMine
	case c.Revealed:
		return proto.Cell(c.Neighbors)
	case c.Mark == MarkFlag:
		return proto.CellFlagged
	case c.Mark == MarkUncertain:
		return proto.CellUncertain
	default:
		return proto.CellCovered
	}
}
