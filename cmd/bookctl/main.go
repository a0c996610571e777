package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tripbook/internal/adapters/observability"
	"tripbook/internal/shared"
)

var cfg shared.Config

var rootCmd = &cobra.Command{
	Use:   "bookctl",
	Short: "Book trip packages and browse the hotel catalog",
	Long: `bookctl runs the booking flow in-process against the configured
inventory and flight providers, and queries the local hotel catalog.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = shared.Load()
		log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	},
}

func main() {
	rootCmd.AddCommand(bookCmd, hotelsCmd, summaryCmd, destinationsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
