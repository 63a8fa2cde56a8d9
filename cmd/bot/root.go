package main

import "github.com/spf13/cobra"

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "Chat relay bot backed by Gemini",
		Long: `Relays chat messages from WhatsApp, Telegram or the terminal to Gemini and sends the
replies back, keeping a short rolling history per sender.

Examples:
  bot serve                       # transport from config (whatsapp by default)
  bot serve --transport telegram
  bot chat                        # talk to the bot in this terminal
  bot key set                     # store the Gemini API key in the OS keyring`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newKeyCmd(),
	)

	return rootCmd
}
