// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("SHOPFRONT_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// iTerm2, Alacritty, WezTerm, Kitty typically have Nerd Fonts
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	// Default to Unicode fallback for maximum compatibility
	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Store
	Cart    = Icon{"󰄐", "▣"} // nf-md-cart
	Product = Icon{"󰓹", "◆"} // nf-md-tag
	Price   = Icon{"󰈐", "$"} // nf-md-currency_usd
	Stock   = Icon{"󰋙", "■"} // nf-md-package_variant

	// Account
	User  = Icon{"󰀄", "●"} // nf-md-account
	Admin = Icon{"󰢏", "◉"} // nf-md-shield_account

	// Status indicators
	CheckOK = Icon{"", "✓"} // nf-oct-check_circle
	Warning = Icon{"", "⚠"} // nf-oct-alert
	Error   = Icon{"", "✗"} // nf-oct-x_circle
	Info    = Icon{"", "ℹ"} // nf-oct-info
	Pending = Icon{"󰔟", "…"} // nf-md-timer_sand

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Add     = Icon{"󰐕", "+"} // nf-md-plus
	Remove  = Icon{"󰍴", "-"} // nf-md-minus
	Edit    = Icon{"󰏫", "✎"} // nf-md-pencil
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App = Icon{"󰍜", "◈"} // nf-md-storefront
)
