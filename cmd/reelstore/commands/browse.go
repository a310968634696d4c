package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/reelstore/cmd/reelstore/tui"
)

// browseCmd starts the interactive late-return browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the late-return log interactively",
	Long: `Open an interactive TUI over the late-return log, with a summary line
showing the most-rented genre and the longest average rental.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dbURL == "" {
			return fmt.Errorf("--db flag is required")
		}
		return tui.RunBrowseUI(dbURL)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
