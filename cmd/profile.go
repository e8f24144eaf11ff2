// ABOUTME: Profile commands for viewing and updating account details
// ABOUTME: Name changes go through the store's update-user endpoint

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var profileName string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or update your account profile",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your display name",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runProfileUpdate(ctx, os.Stdout, profileName); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	_ = profileUpdateCmd.MarkFlagRequired("name")
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

// runProfileUpdate changes the display name for the logged-in account
func runProfileUpdate(ctx context.Context, w io.Writer, name string) int {
	_, api, sessions, err := newEnv()
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

	if err := api.UpdateUser(ctx, ident.Email, name); err != nil {
		fmt.Fprintf(w, "Update failed: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Display name changed to %s\n", name)
	return 0
}
