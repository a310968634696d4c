package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelstore",
	Short: "Reelstore - movie rental schema and reporting toolkit",
	Long: `Reelstore manages a PostgreSQL movie rental schema: customers, movies,
rentals, and an append-only late-return log populated by a database trigger.

Features:
  - Versioned schema migrations with transactional apply/rollback
  - Late-return trigger installed alongside the tables
  - Analytic reports (rentals per customer, rental durations, genres)
  - Interactive TUI for browsing the late-return log`,
	Version: "1.2.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (required for most commands)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
