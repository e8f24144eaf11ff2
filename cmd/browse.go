// ABOUTME: Browse command launching the full-screen store interface
// ABOUTME: Thin wrapper that hands the shared client and session to the TUI

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shopfront/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the store in a full-screen interface",
	Long: `Open the interactive storefront: catalog browsing, cart management,
profile editing, and (for admin accounts) catalog editing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runBrowse(ctx); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse starts the TUI and returns an exit code
func runBrowse(ctx context.Context) int {
	cfg, api, sessions, err := newEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if err := tui.Run(ctx, cfg, api, sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
