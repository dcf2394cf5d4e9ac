package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bullsctl",
		Short: "CLI tool for the bulls & cows server",
		Long: `bullsctl is a CLI tool for interacting with the bulls & cows JSON API.

It covers guest registration, room management, match actions
(guesses, attempts, completion, scores) and real-time SSE event streaming.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load guest id from file if not provided via flag/env
			if err := cfg.LoadGuest(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.GuestID)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: BULLSCOWS_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.GuestID, "guest", cfg.GuestID, "Guest id sent as X-Guest-ID (env: BULLSCOWS_GUEST)")
	rootCmd.PersistentFlags().StringVar(&cfg.GuestFile, "guest-file", cfg.GuestFile, "Guest id file path (env: BULLSCOWS_GUEST_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGuestCmd())
	rootCmd.AddCommand(newRoomCmd())
	rootCmd.AddCommand(newGuessCmd())
	rootCmd.AddCommand(newAttemptCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// output returns a formatter bound to the command's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
