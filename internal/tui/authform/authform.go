// ABOUTME: Login, signup, and profile forms as bubbletea models
// ABOUTME: Wraps huh forms and emits submission messages to the root app

package authform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"shopfront/internal/tui/styles"
)

// LoginSubmittedMsg is sent when the login form completes
type LoginSubmittedMsg struct {
	Email    string
	Password string
}

// SignupSubmittedMsg is sent when the signup form completes
type SignupSubmittedMsg struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// ProfileSubmittedMsg is sent when the profile form completes
type ProfileSubmittedMsg struct {
	Name string
}

// CancelledMsg is sent when the user backs out of a form
type CancelledMsg struct{}

type kind int

const (
	kindLogin kind = iota
	kindSignup
	kindProfile
)

// Form is a bubbletea model around one of the account forms
type Form struct {
	kind kind
	form *huh.Form

	name     string
	email    string
	password string
	confirm  string
}

// NewLogin creates the login form
func NewLogin() *Form {
	f := &Form{kind: kindLogin}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&f.email).
				Validate(requireNonEmpty("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(requireNonEmpty("password")),
		).Title("Log in"),
	).WithTheme(huh.ThemeBase())
	return f
}

// NewSignup creates the signup form
func NewSignup() *Form {
	f := &Form{kind: kindSignup}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.name).
				Validate(requireNonEmpty("name")),
			huh.NewInput().
				Title("Email").
				Value(&f.email).
				Validate(requireNonEmpty("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(requireNonEmpty("password")),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&f.confirm),
		).Title("Create account"),
	).WithTheme(huh.ThemeBase())
	return f
}

// NewProfile creates the display name form, seeded with the current name
func NewProfile(currentName string) *Form {
	f := &Form{kind: kindProfile, name: currentName}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Value(&f.name).
				Validate(requireNonEmpty("name")),
		).Title("Edit profile"),
	).WithTheme(huh.ThemeBase())
	return f
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		f.form = m
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	switch f.kind {
	case kindLogin:
		return func() tea.Msg {
			return LoginSubmittedMsg{Email: f.email, Password: f.password}
		}
	case kindSignup:
		return func() tea.Msg {
			return SignupSubmittedMsg{
				Name:     f.name,
				Email:    f.email,
				Password: f.password,
				Confirm:  f.confirm,
			}
		}
	default:
		return func() tea.Msg {
			return ProfileSubmittedMsg{Name: f.name}
		}
	}
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View() + "\n" + styles.Help.Render("Esc to cancel")
}

func requireNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &emptyFieldError{field: field}
		}
		return nil
	}
}

type emptyFieldError struct{ field string }

func (e *emptyFieldError) Error() string { return e.field + " is required" }
