package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/sweeper/internal/client"
	"github.com/vovakirdan/sweeper/internal/config"
	"github.com/vovakirdan/sweeper/internal/log"
	"github.com/vovakirdan/sweeper/internal/proto"
)

// options carries the state shared by every subcommand.
type options struct {
	configPath string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:          "sweeper",
		Short:        "Play Minesweeper against a sweepd game service",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file")
	flags.String("server", "", "game service URL")
	flags.String("email", "", "account email")
	flags.String("password", "", "account password")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	for key, name := range map[string]string{
		"client.server_url": "server",
		"client.email":      "email",
		"client.password":   "password",
		"log_level":         "log-level",
	} {
		cobra.CheckErr(opts.v.BindPFlag(key, flags.Lookup(name)))
	}

	root.AddCommand(newRegisterCmd(opts), newGamesCmd(opts), newPlayCmd(opts))
	return root
}

// session loads configuration and builds a client for it. Logs go to the
// command's stderr so they never interleave with the board.
func (o *options) session(cmd *cobra.Command) (*client.Client, *zerolog.Logger, error) {
	bootstrap := log.NewWithWriter("warn", cmd.ErrOrStderr())

	cfg, _, err := config.LoadWith(o.v, bootstrap, o.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithWriter(cfg.LogLevel, cmd.ErrOrStderr())
	creds := proto.Credentials{Email: cfg.Client.Email, Password: cfg.Client.Password}
	logger.Debug().Str("server", cfg.Client.ServerURL).Str("email", creds.Email).Msg("session configured")

	return client.New(cfg.Client.ServerURL, creds, nil, logger), logger, nil
}

func connect(ctx context.Context, c *client.Client) error {
	res, err := c.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("connect: %w", res.Err)
	}
	return nil
}
