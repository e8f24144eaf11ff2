// ABOUTME: Whoami command showing the identity behind the stored token
// ABOUTME: Hydrates the session from the token slot before reading it

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shopfront/internal/client"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami hydrates the session and prints the identity
func runWhoami(ctx context.Context, w io.Writer) int {
	_, _, sessions, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := sessions.Hydrate(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	ident := sessions.Current()
	if ident == nil {
		fmt.Fprintln(w, "Not logged in.")
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatIdentityJSON(ident))
	} else {
		fmt.Fprintln(w, formatIdentityHuman(ident))
	}
	return 0
}

// formatIdentityHuman formats an identity for human readability
func formatIdentityHuman(ident *client.Identity) string {
	role := "customer"
	if ident.IsAdmin {
		role = "admin"
	}
	return fmt.Sprintf(`Name:   %s
Email:  %s
Role:   %s`, ident.Name, ident.Email, role)
}

// formatIdentityJSON formats an identity as JSON
func formatIdentityJSON(ident *client.Identity) string {
	data, _ := json.MarshalIndent(ident, "", "  ")
	return string(data)
}
