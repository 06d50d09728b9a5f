package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/client"
	"github.com/vovakirdan/sweeper/internal/proto"
)

// Controller is the part of client.Client the shell drives.
type Controller interface {
	StartNewGame(ctx context.Context, rows, columns, mines int) (*client.Result[*proto.Game], error)
	LoadGame(ctx context.Context, id string) (*client.Result[*proto.Game], error)
	ClearCell(ctx context.Context, row, column int) (*client.Result[*proto.Game], error)
	ToggleCell(ctx context.Context, row, column int) (*client.Result[*proto.Game], error)
	ListGames(ctx context.Context) (*client.Result[[]proto.GameSummary], error)
	IsFinished() (bool, error)
	Game() (*proto.Game, bool)
}

var _ Controller = (*client.Client)(nil)

const helpText = `Commands:
  new ROWS COLUMNS MINES   start a game
  load ID                  resume a game
  games                    list games you can resume
  clear ROW COLUMN  (c)    reveal a cell
  toggle ROW COLUMN (t)    cycle flag / uncertain / none on a cell
  show                     print the current game
  help                     show this help
  quit                     leave
`

var errQuit = errors.New("quit")

// Shell is a line-oriented command loop over a Controller.
type Shell struct {
	ctrl Controller
	in   io.Reader
	out  io.Writer
	log  *zerolog.Logger
}

// NewShell creates a shell reading commands from in and painting to out.
func NewShell(ctrl Controller, in io.Reader, out io.Writer, logger *zerolog.Logger) *Shell {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Shell{ctrl: ctrl, in: in, out: out, log: logger}
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type help for the list of commands.")
	if g, ok := s.ctrl.Game(); ok {
		s.render(g)
	}

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.Execute(ctx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

// Execute runs one command line. Only quitting and a cancelled context end
// the loop; every other failure is reported to the player.
func (s *Shell) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	s.log.Debug().Str("command", cmd).Strs("args", args).Msg("shell command")

	var err error
	switch cmd {
	case "new":
		err = s.newGame(ctx, args)
	case "load":
		err = s.load(ctx, args)
	case "games":
		err = s.games(ctx)
	case "clear", "c":
		err = s.move(ctx, args, s.ctrl.ClearCell)
	case "toggle", "t":
		err = s.move(ctx, args, s.ctrl.ToggleCell)
	case "show":
		if g, ok := s.ctrl.Game(); ok {
			s.render(g)
		} else {
			fmt.Fprintln(s.out, "No game loaded. Use new or load.")
		}
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "quit", "exit", "q":
		return errQuit
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type help for the list of commands.\n", cmd)
	}

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.report(err)
	}
	return nil
}

func (s *Shell) newGame(ctx context.Context, args []string) error {
	nums, err := parseInts(args, "new ROWS COLUMNS MINES")
	if err != nil {
		return err
	}
	res, err := s.ctrl.StartNewGame(ctx, nums[0], nums[1], nums[2])
	return s.show(res, err)
}

func (s *Shell) load(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load ID")
	}
	res, err := s.ctrl.LoadGame(ctx, args[0])
	return s.show(res, err)
}

func (s *Shell) games(ctx context.Context) error {
	res, err := s.ctrl.ListGames(ctx)
	if err != nil {
		return err
	}
	if !res.OK() {
		return res.Err
	}

	var currentID string
	if g, ok := s.ctrl.Game(); ok {
		currentID = g.ID
	}

	resumable := Resumable(res.Data, currentID)
	if len(resumable) == 0 {
		fmt.Fprintln(s.out, "No games to resume.")
		return nil
	}
	fmt.Fprintln(s.out, "Games in progress:")
	for _, g := range resumable {
		fmt.Fprintf(s.out, "  %s  mines left %d  started %s\n", g.ID, g.MinesLeft, g.StartTime.Local().Format(time.DateTime))
	}
	return nil
}

func (s *Shell) move(ctx context.Context, args []string, action func(context.Context, int, int) (*client.Result[*proto.Game], error)) error {
	nums, err := parseInts(args, "clear|toggle ROW COLUMN")
	if err != nil {
		return err
	}

	finished, err := s.ctrl.IsFinished()
	if err != nil {
		return err
	}
	if finished {
		fmt.Fprintln(s.out, "This game is over. Start a new one with new or resume another with load.")
		return nil
	}

	res, err := action(ctx, nums[0], nums[1])
	return s.show(res, err)
}

func (s *Shell) show(res *client.Result[*proto.Game], err error) error {
	if err != nil {
		return err
	}
	if !res.OK() {
		return res.Err
	}
	s.render(res.Data)
	return nil
}

func (s *Shell) render(g *proto.Game) {
	if err := RenderGame(s.out, g); err != nil {
		s.log.Warn().Err(err).Msg("render game")
	}
}

func (s *Shell) report(err error) {
	var serverErr *client.ServerError
	switch {
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			fmt.Fprintf(s.out, "Server said: %s\n", serverErr.Message)
		} else {
			fmt.Fprintf(s.out, "Server answered %d.\n", serverErr.Status)
		}
	case errors.Is(err, client.ErrGameNotLoaded):
		fmt.Fprintln(s.out, "No game loaded. Use new or load.")
	case errors.Is(err, client.ErrNotAuthenticated):
		fmt.Fprintln(s.out, "Not connected to the server.")
	default:
		s.log.Debug().Err(err).Msg("command failed")
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// Resumable filters a games list down to started games other than currentID.
func Resumable(games []proto.GameSummary, currentID string) []proto.GameSummary {
	out := make([]proto.GameSummary, 0, len(games))
	for _, g := range games {
		if g.Status == proto.StatusStarted && g.ID != currentID {
			out = append(out, g)
		}
	}
	return out
}

func parseInts(args []string, usage string) ([]int, error) {
	want := len(strings.Fields(usage)) - 1
	if len(args) != want {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number; usage: %s", a, usage)
		}
		nums[i] = n
	}
	return nums, nil
}
