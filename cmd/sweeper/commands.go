package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweeper/internal/tui"
)

func newRegisterCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and connect with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := opts.session(cmd)
			if err != nil {
				return err
			}

			res, err := c.Register(cmd.Context())
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if !res.OK() {
				return fmt.Errorf("register: %w", res.Err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Data.Message, res.Data.Email)
			if c.Authenticated() {
				fmt.Fprintf(out, "Logged in as %s\n", res.Data.Email)
			}
			return nil
		},
	}
}

func newGamesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List your games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := opts.session(cmd)
			if err != nil {
				return err
			}
			if err := connect(cmd.Context(), c); err != nil {
				return err
			}

			res, err := c.ListGames(cmd.Context())
			if err != nil {
				return fmt.Errorf("list games: %w", err)
			}
			if !res.OK() {
				return fmt.Errorf("list games: %w", res.Err)
			}

			out := cmd.OutOrStdout()
			if len(res.Data) == 0 {
				fmt.Fprintln(out, "No games yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tMINES LEFT\tSTARTED")
			for _, g := range res.Data {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", g.ID, g.Status, g.MinesLeft, g.StartTime.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play [game-id]",
		Short: "Play interactively, optionally resuming a game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := opts.session(cmd)
			if err != nil {
				return err
			}
			if err := connect(cmd.Context(), c); err != nil {
				return err
			}

			if len(args) == 1 {
				res, err := c.LoadGame(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load game: %w", err)
				}
				if !res.OK() {
					return fmt.Errorf("load game: %w", res.Err)
				}
			}

			return tui.NewShell(c, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(cmd.Context())
		},
	}
}
