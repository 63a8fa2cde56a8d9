package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"relay-bot/config"
	"relay-bot/pkg/log"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot on a messaging transport",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Transport.Kind = transport
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info(ctx, "Starting relay bot...")
			logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
			logger.Infof(ctx, "Transport: %s, backend: %s, model: %s", cfg.Transport.Kind, cfg.Gemini.Backend, cfg.Gemini.Model)

			if err := run(ctx, cfg, logger); err != nil {
				logger.Errorf(ctx, "Bot stopped with error: %v", err)
				return err
			}

			logger.Info(ctx, "Bot stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&transport, "transport", "t", "", "transport to use: whatsapp, telegram or console")
	return cmd
}

func newLogger(cfg *config.Config) log.Logger {
	return log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
}
