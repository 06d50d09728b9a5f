package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/sweeper/internal/client"
	"github.com/vovakirdan/sweeper/internal/proto"
	"github.com/vovakirdan/sweeper/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Printf("smoke: %v", err)
		os.Exit(1)
	}
}

// run registers a throwaway account, plays a few moves and prints every snapshot.
func run() error {
	addr := flag.String("addr", "http://localhost:5000", "game service URL")
	rows := flag.Int("rows", 8, "board rows")
	columns := flag.Int("columns", 8, "board columns")
	mines := flag.Int("mines", 10, "mine count")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	creds := proto.Credentials{
		Email:    "smoke-" + uuid.NewString()[:8] + "@example.com",
		Password: "smoke-password",
	}
	c := client.New(*addr, creds, nil, nil)

	reg, err := c.Register(ctx)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if !reg.OK() || !c.Authenticated() {
		return fmt.Errorf("register: status %d: %v", reg.Status, reg.Err)
	}
	fmt.Printf("Registered %s\n", reg.Data.Email)

	if err := expect(c.StartNewGame(ctx, *rows, *columns, *mines)); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := expect(c.ToggleCell(ctx, 0, 0)); err != nil {
		return fmt.Errorf("toggle: %w", err)
	}
	if err := expect(c.ClearCell(ctx, *rows-1, *columns-1)); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	list, err := c.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if !list.OK() {
		return fmt.Errorf("list: %w", list.Err)
	}
	fmt.Printf("Account holds %d game(s)\n", len(list.Data))
	return nil
}

func expect(res *client.Result[*proto.Game], err error) error {
	if err != nil {
		return err
	}
	if !res.OK() {
		return res.Err
	}
	return tui.RenderGame(os.Stdout, res.Data)
}
