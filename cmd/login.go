// ABOUTME: Login command exchanging credentials for a stored session token
// ABOUTME: Prompts for missing credentials with a huh form

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the store",
	Long:  `Exchange your email and password for a session token, stored locally for later commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogin(ctx, os.Stdout, loginEmail, loginPassword); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// runLogin executes the login flow and returns an exit code
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	if email == "" || password == "" {
		var err error
		email, password, err = promptCredentials(email)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	_, _, sessions, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	ident, err := sessions.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(w, "Login failed: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Logged in as %s <%s>\n", ident.Name, ident.Email)
	if ident.IsAdmin {
		fmt.Fprintln(w, "Admin commands are available under \"shopfront admin\".")
	}
	return 0
}

// promptCredentials asks for whichever credential was not passed as a flag
func promptCredentials(email string) (string, string, error) {
	var password string
	fields := []huh.Field{}
	if email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&email))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password))

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return email, password, nil
}
