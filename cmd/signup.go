// ABOUTME: Signup command creating a new non-admin account
// ABOUTME: Validates password confirmation before any network call

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
	signupName     string
	signupEmail    string
	signupPassword string
	signupConfirm  string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long: `Create a new store account. Signing up does not log you in;
run "shopfront login" afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runSignup(ctx, os.Stdout, signupName, signupEmail, signupPassword, signupConfirm); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "Display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupConfirm, "confirm", "", "Password confirmation (prompted when omitted)")
	rootCmd.AddCommand(signupCmd)
}

// runSignup executes the signup flow and returns an exit code
func runSignup(ctx context.Context, w io.Writer, name, email, password, confirm string) int {
	if name == "" || email == "" || password == "" {
		var err error
		name, email, password, confirm, err = promptSignup(name, email)
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

	if err := sessions.Signup(ctx, name, email, password, confirm); err != nil {
		fmt.Fprintf(w, "Signup failed: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Account created for %s. Run \"shopfront login\" to sign in.\n", email)
	return 0
}

// promptSignup asks for the fields not passed as flags
func promptSignup(name, email string) (string, string, string, string, error) {
	var password, confirm string
	fields := []huh.Field{}
	if name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&name))
	}
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&email))
	}
	fields = append(fields,
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
	)

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return "", "", "", "", err
	}
	return name, email, password, confirm, nil
}
