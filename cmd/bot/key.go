package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"relay-bot/config"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Gemini API key in the OS keyring",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [api-key]",
			Short: "Store the API key (prompts when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				apiKey := ""
				if len(args) == 1 {
					apiKey = args[0]
				} else {
					entered, err := readSecret("Gemini API key: ")
					if err != nil {
						return err
					}
					apiKey = entered
				}

				apiKey = strings.TrimSpace(apiKey)
				if apiKey == "" {
					return errors.New("empty API key")
				}
				if err := config.StoreAPIKey(apiKey); err != nil {
					return fmt.Errorf("store in keyring: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "API key stored in the OS keyring (service %q)\n", config.KeyringService)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := config.DeleteAPIKey(); err != nil {
					return fmt.Errorf("delete from keyring: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed from the OS keyring")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether a key is stored",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				if config.KeyringAPIKey() == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "no API key in the OS keyring")
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key present in the OS keyring")
			},
		},
	)

	return cmd
}

func readSecret(prompt string) (string, error) {
	rl, err := readline.New("")
	if err != nil {
		return "", fmt.Errorf("open terminal: %w", err)
	}
	defer rl.Close()

	secret, err := rl.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
