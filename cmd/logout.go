// ABOUTME: Logout command clearing the stored token and session
// ABOUTME: Always succeeds, with no server round-trip

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored token",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns an exit code
func runLogout(w io.Writer) int {
	_, _, sessions, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	sessions.Logout()
	fmt.Fprintln(w, "Logged out.")
	return 0
}
