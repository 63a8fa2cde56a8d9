package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"relay-bot/config"
)

func newChatCmd() *cobra.Command {
	var (
		verbose bool
		withAPI bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot in this terminal",
		Long: `Starts an interactive session where every line is sent as a message from the
"console" sender. Type /reset to clear the history, /quit or Ctrl-D to leave.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Transport.Kind = config.TransportConsole
			cfg.HTTPServer.Enabled = withAPI
			if !verbose {
				cfg.Logger.Level = "error"
			}

			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs while chatting")
	cmd.Flags().BoolVar(&withAPI, "http", false, "also serve the HTTP API")
	return cmd
}
