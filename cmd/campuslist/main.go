// Package main is the entry point for the campuslist CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campuslist/campuslist/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campuslist",
		Short: "Campuslist university data server",
		Long:  `Campuslist aggregates university data from trending searches, place lookups and AI fact passes, and serves it over a REST API.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(fetchTrendsCmd())
	cmd.AddCommand(fetchFactsCmd())
	cmd.AddCommand(scoreCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from a .env file and environment
// variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
