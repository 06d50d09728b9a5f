package games

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/game"
	"github.com/vovakirdan/sweeper/internal/proto"
	"github.com/vovakirdan/sweeper/internal/store/sqlite"
)

type fixture struct {
	svc   *Service
	store *sqlite.SQLiteStore
	alice int64
	bob   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	alice, err := st.CreateUser(ctx, "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	bob, err := st.CreateUser(ctx, "bob@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	logger := zerolog.Nop()
	svc := New(st, &logger)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return &fixture{svc: svc, store: st, alice: alice.ID, bob: bob.ID}
}

// board reads the hidden layout of a stored game.
func (f *fixture) board(t *testing.T, id string) *game.Board {
	t.Helper()

	rec, err := f.store.GetGame(context.Background(), id)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	var b game.Board
	if err := json.Unmarshal(rec.State, &b); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	return &b
}

func findCell(b *game.Board, mine bool) (int, int) {
	for r := range b.Cells {
		for c := range b.Cells[r] {
			if b.Cells[r][c].Mine == mine {
				return r, c
			}
		}
	}
	return -1, -1
}

func TestStartCreatesCoveredGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Start(ctx, f.alice, 10, 10, 25)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if g.ID == "" || g.Status != proto.StatusStarted || g.MinesLeft != 25 || g.EndTime != nil {
		t.Fatalf("unexpected game %+v", g)
	}
	if len(g.Board) != 10 || len(g.Board[0]) != 10 {
		t.Fatalf("unexpected board size %dx%d", len(g.Board), len(g.Board[0]))
	}
	for _, row := range g.Board {
		for _, c := range row {
			if c != proto.CellCovered {
				t.Fatalf("expected covered board, found %d", c)
			}
		}
	}

	loaded, err := f.svc.Get(ctx, f.alice, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ID != g.ID || !loaded.StartTime.Equal(g.StartTime) {
		t.Fatalf("unexpected loaded game %+v", loaded)
	}
}

func TestStartRejectsInvalidSettings(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Start(context.Background(), f.alice, 3, 3, 9); !errors.Is(err, game.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestGamesAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Start(ctx, f.alice, 5, 5, 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.svc.Get(ctx, f.bob, g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := f.svc.Clear(ctx, f.bob, g.ID, 0, 0); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := f.svc.Get(ctx, f.alice, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}

	list, err := f.svc.List(ctx, f.bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no games for bob, got %d", len(list))
	}

	list, err = f.svc.List(ctx, f.alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != g.ID || list[0].Status != proto.StatusStarted {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestClearMineLosesGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Start(ctx, f.alice, 5, 5, 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	r, c := findCell(f.board(t, g.ID), true)

	lost, err := f.svc.Clear(ctx, f.alice, g.ID, r, c)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if lost.Status != proto.StatusLost || lost.EndTime == nil || lost.Board[r][c] != proto.CellMine {
		t.Fatalf("unexpected lost game %+v", lost)
	}

	if _, err := f.svc.Clear(ctx, f.alice, g.ID, 0, 0); !errors.Is(err, game.ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}

	list, err := f.svc.List(ctx, f.alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Status != proto.StatusLost || list[0].EndTime == nil {
		t.Fatalf("summary not updated: %+v", list[0])
	}
}

func TestClearSafeCellPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Start(ctx, f.alice, 6, 6, 5)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	r, c := findCell(f.board(t, g.ID), false)

	after, err := f.svc.Clear(ctx, f.alice, g.ID, r, c)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !after.Board[r][c].Revealed() || after.Board[r][c] == proto.CellMine {
		t.Fatalf("expected revealed safe cell, got %d", after.Board[r][c])
	}

	reloaded, err := f.svc.Get(ctx, f.alice, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Board[r][c] != after.Board[r][c] {
		t.Fatalf("clear was not persisted")
	}
}

func TestToggleUpdatesMinesLeft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Start(ctx, f.alice, 4, 4, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	flagged, err := f.svc.Toggle(ctx, f.alice, g.ID, 0, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if flagged.Board[0][0] != proto.CellFlagged || flagged.MinesLeft != 1 {
		t.Fatalf("unexpected game after flag %+v", flagged)
	}

	if _, err := f.svc.Toggle(ctx, f.alice, g.ID, 4, 0); !errors.Is(err, game.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestConcurrentActionsDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Start(ctx, f.alice, 4, 4, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	const toggles = 10
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Toggle(ctx, f.alice, g.ID, 1, 1); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	// Ten steps through a three-state cycle end on the flag.
	final, err := f.svc.Get(ctx, f.alice, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Board[1][1] != proto.CellFlagged {
		t.Fatalf("expected flagged after %d toggles, got %d", toggles, final.Board[1][1])
	}
	if len(f.svc.locks.locks) != 0 {
		t.Fatalf("expected game locks released, %d left", len(f.svc.locks.locks))
	}
}
