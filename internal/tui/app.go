// ABOUTME: Root bubbletea model for the store TUI
// ABOUTME: Manages screen state, async loads, and routing to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/client"
	"shopfront/internal/config"
	"shopfront/internal/session"
	"shopfront/internal/tui/adminview"
	"shopfront/internal/tui/authform"
	"shopfront/internal/tui/cartview"
	"shopfront/internal/tui/debuglog"
	"shopfront/internal/tui/icons"
	"shopfront/internal/tui/shopview"
	"shopfront/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenShop Screen = iota
	ScreenCart
	ScreenLogin
	ScreenSignup
	ScreenAdmin
	ScreenProfile
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before clamping the frame
	frameOverhead    = 8  // Header, footer, panel borders and padding
)

// Async messages carry the generation they were issued under; results
// from a superseded generation are discarded.
type hydratedMsg struct {
	gen int
	err error
}

type productsLoadedMsg struct {
	gen      int
	products []client.Product
	err      error
}

type cartLoadedMsg struct {
	gen  int
	errs map[string]error
	err  error
}

type loggedInMsg struct {
	gen   int
	ident *client.Identity
	err   error
}

type signedUpMsg struct {
	gen   int
	email string
	err   error
}

type cartAddedMsg struct {
	gen   int
	title string
	err   error
}

type catalogChangedMsg struct {
	gen    int
	action string
	err    error
}

type profileSavedMsg struct {
	gen  int
	name string
	err  error
}

// App is the root model for the TUI
type App struct {
	cfg      *config.Config
	api      *client.Client
	sessions *session.Manager
	cart     *cart.Synchronizer
	editor   *catalog.Editor

	screen     Screen
	width      int
	height     int
	gen        int
	status     string
	err        error
	lastUpdate time.Time

	// Child models
	shop     *shopview.ShopView
	cartView *cartview.CartView
	admin    *adminview.AdminView
	form     *authform.Form
}

// New creates a new TUI application
func New(cfg *config.Config, api *client.Client, sessions *session.Manager) *App {
	return &App{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		cart:     cart.New(api, time.Duration(cfg.ProductTTL)*time.Second),
		editor:   catalog.NewEditor(api),
		screen:   ScreenShop,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.hydrateSession(), a.loadProducts())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.shop != nil {
			a.shop.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.cartView != nil {
			a.cartView.SetWidth(a.contentWidth())
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case shopview.AddToCartMsg:
		return a.handleAddToCart(msg)

	case cartview.ChangedMsg:
		a.status = "Line dropped locally. The store keeps it until checkout changes."
		return a, nil

	case authform.LoginSubmittedMsg:
		a.form = nil
		a.status = "Logging in..."
		return a, a.login(msg.Email, msg.Password)

	case authform.SignupSubmittedMsg:
		a.form = nil
		a.status = "Creating account..."
		return a, a.signup(msg)

	case authform.ProfileSubmittedMsg:
		a.form = nil
		a.screen = ScreenShop
		return a, a.saveProfile(msg.Name)

	case authform.CancelledMsg:
		a.form = nil
		a.screen = ScreenShop
		return a, nil

	case adminview.CreateMsg:
		a.status = "Saving product..."
		return a, a.createProduct(msg.Product)

	case adminview.UpdateMsg:
		a.status = "Saving product..."
		return a, a.updateProduct(msg.Product)

	case adminview.DeleteMsg:
		a.status = "Deleting product..."
		return a, a.deleteProduct(msg.ProductID)

	case hydratedMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("hydrate", msg.err)
		}
		return a, nil

	case productsLoadedMsg:
		return a.handleProductsLoaded(msg)

	case cartLoadedMsg:
		return a.handleCartLoaded(msg)

	case loggedInMsg:
		return a.handleLoggedIn(msg)

	case signedUpMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		if msg.err != nil {
			a.status = "Signup failed: " + msg.err.Error()
			return a, nil
		}
		a.status = fmt.Sprintf("Account created for %s. Log in to continue.", msg.email)
		a.screen = ScreenShop
		return a, nil

	case cartAddedMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		if msg.err != nil {
			a.status = "Add failed: " + msg.err.Error()
			return a, nil
		}
		a.status = fmt.Sprintf("Added %q to your cart.", msg.title)
		return a, nil

	case catalogChangedMsg:
		return a.handleCatalogChanged(msg)

	case profileSavedMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		if msg.err != nil {
			a.status = "Profile update failed: " + msg.err.Error()
			return a, nil
		}
		a.status = fmt.Sprintf("Display name changed to %s.", msg.name)
		return a, nil

	default:
		// Forward unknown messages to the active form (needed for huh internals)
		if a.form != nil {
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Forms capture all keys
	if a.form != nil {
		return a.updateForm(msg)
	}

	switch a.screen {
	case ScreenShop:
		return a.updateShop(msg)
	case ScreenCart:
		return a.updateCart(msg)
	case ScreenAdmin:
		return a.updateAdmin(msg)
	}
	return a, nil
}

func (a *App) updateShop(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.status = "Refreshing catalog..."
		return a, a.loadProducts()
	case "c":
		return a.openCart()
	case "l":
		if a.sessions.Current() != nil {
			return a.logout()
		}
		a.form = authform.NewLogin()
		a.screen = ScreenLogin
		return a, a.form.Init()
	case "u":
		if a.sessions.Current() == nil {
			a.form = authform.NewSignup()
			a.screen = ScreenSignup
			return a, a.form.Init()
		}
	case "p":
		if ident := a.sessions.Current(); ident != nil {
			a.form = authform.NewProfile(ident.Name)
			a.screen = ScreenProfile
			return a, a.form.Init()
		}
		a.status = "Log in to edit your profile."
	case "m":
		if ident := a.sessions.Current(); ident != nil && ident.IsAdmin {
			a.screen = ScreenAdmin
			a.status = "Loading catalog..."
			return a, a.refreshEditor("open")
		}
	}

	if a.shop != nil {
		model, cmd := a.shop.Update(msg)
		a.shop = model.(*shopview.ShopView)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b":
		a.screen = ScreenShop
		return a, nil
	case "r":
		a.status = "Refreshing cart..."
		return a, a.loadCart()
	}

	if a.cartView != nil {
		model, cmd := a.cartView.Update(msg)
		a.cartView = model.(*cartview.CartView)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.admin != nil && a.admin.Capturing() {
		model, cmd := a.admin.Update(msg)
		a.admin = model.(*adminview.AdminView)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b":
		a.screen = ScreenShop
		return a, nil
	case "r":
		a.status = "Refreshing catalog..."
		return a, a.refreshEditor("refresh")
	}

	if a.admin != nil {
		model, cmd := a.admin.Update(msg)
		a.admin = model.(*adminview.AdminView)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	a.form = model.(*authform.Form)
	return a, cmd
}

func (a *App) openCart() (tea.Model, tea.Cmd) {
	if a.sessions.Current() == nil {
		a.status = "Log in to see your cart."
		a.form = authform.NewLogin()
		a.screen = ScreenLogin
		return a, a.form.Init()
	}
	a.screen = ScreenCart
	a.status = "Loading cart..."
	return a, a.loadCart()
}

func (a *App) logout() (tea.Model, tea.Cmd) {
	// Invalidate in-flight loads for the old account
	a.gen++
	a.sessions.Logout()
	a.cart.Close()
	a.cart = cart.New(a.api, time.Duration(a.cfg.ProductTTL)*time.Second)
	a.cartView = nil
	a.screen = ScreenShop
	a.status = "Logged out."
	return a, nil
}

func (a *App) handleAddToCart(msg shopview.AddToCartMsg) (tea.Model, tea.Cmd) {
	ident := a.sessions.Current()
	if ident == nil {
		a.status = "Log in to add products to your cart."
		a.form = authform.NewLogin()
		a.screen = ScreenLogin
		return a, a.form.Init()
	}
	a.status = fmt.Sprintf("Adding %q...", msg.Title)
	return a, a.addToCart(ident.Email, msg.ProductID, msg.Title)
}

func (a *App) handleProductsLoaded(msg productsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	a.lastUpdate = time.Now()
	if a.shop == nil {
		a.shop = shopview.New(msg.products, a.contentWidth(), a.contentHeight())
	} else {
		a.shop.SetProducts(msg.products)
	}
	a.status = fmt.Sprintf("%d product(s) in the catalog.", len(msg.products))
	return a, nil
}

func (a *App) handleCartLoaded(msg cartLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	a.lastUpdate = time.Now()
	if a.cartView == nil {
		a.cartView = cartview.New(a.cart, a.contentWidth())
	}
	a.cartView.SetErrors(msg.errs)
	a.status = ""
	return a, nil
}

func (a *App) handleLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		a.status = "Login failed: " + msg.err.Error()
		a.form = authform.NewLogin()
		a.screen = ScreenLogin
		return a, a.form.Init()
	}
	a.screen = ScreenShop
	a.status = fmt.Sprintf("Logged in as %s.", msg.ident.Name)
	if msg.ident.IsAdmin {
		a.status += " Press m for the catalog editor."
	}
	return a, nil
}

func (a *App) handleCatalogChanged(msg catalogChangedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if msg.err != nil {
		a.status = "Catalog change failed: " + msg.err.Error()
		return a, nil
	}
	if a.admin == nil {
		a.admin = adminview.New(a.editor.Products())
	} else {
		a.admin.SetProducts(a.editor.Products())
	}
	switch msg.action {
	case "create":
		a.status = "Product added."
	case "update":
		a.status = "Product updated."
	case "delete":
		a.status = "Product deleted."
	default:
		a.status = ""
	}
	// The shop table shows the same catalog; reload it too
	return a, a.loadProducts()
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch {
	case a.form != nil:
		content = a.form.View()
	case a.screen == ScreenCart:
		content = a.viewCart()
	case a.screen == ScreenAdmin:
		content = a.viewAdmin()
	default:
		content = a.viewShop()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewShop() string {
	if a.err != nil {
		return styles.StatusError.Render("Error: " + a.err.Error())
	}
	if a.shop == nil {
		return styles.Subtitle.Render("Loading catalog...")
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.shop.View())
}

func (a *App) viewCart() string {
	if a.err != nil {
		return styles.StatusError.Render("Error: " + a.err.Error())
	}
	if a.cartView == nil {
		return styles.Subtitle.Render("Loading cart...")
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.cartView.View())
}

func (a *App) viewAdmin() string {
	if a.admin == nil {
		return styles.Subtitle.Render("Loading catalog...")
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.admin.View())
}

func (a *App) contentWidth() int {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width - 4
}

func (a *App) contentHeight() int {
	return a.height - frameOverhead
}

// renderHeader creates the header bar with app branding and account context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Shopfront"))

	rightText := ""
	if ident := a.sessions.Current(); ident != nil {
		badge := icons.User.String()
		if ident.IsAdmin {
			badge = icons.Admin.String()
		}
		rightText = contextStyle.Render(fmt.Sprintf("%s %s", badge, ident.Email)) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch {
	case a.form != nil:
		shortcuts = []string{"Tab Next field", "Enter Submit", "Esc Cancel"}
	case a.screen == ScreenCart:
		shortcuts = []string{"↑↓ Navigate", "d Remove", "r Refresh", "b Back", "q Quit"}
	case a.screen == ScreenAdmin:
		shortcuts = []string{"a Add", "e Edit", "d Delete", "r Refresh", "b Back", "q Quit"}
	default:
		shortcuts = []string{"↑↓ Navigate", "a Add to cart", "c Cart", "l Login", "q Quit"}
		if ident := a.sessions.Current(); ident != nil {
			shortcuts = []string{"↑↓ Navigate", "a Add to cart", "c Cart", "p Profile", "l Logout", "q Quit"}
			if ident.IsAdmin {
				shortcuts = append(shortcuts[:5], "m Manage", "q Quit")
			}
		}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if a.status != "" {
		rightText = statusStyle.Render(a.status) + " "
		rightPlainText = a.status + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

// hydrateSession restores the session from the stored token
func (a *App) hydrateSession() tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		err := a.sessions.Hydrate(context.Background())
		return hydratedMsg{gen: gen, err: err}
	}
}

// loadProducts fetches the catalog
func (a *App) loadProducts() tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		products, err := a.api.Products(context.Background())
		return productsLoadedMsg{gen: gen, products: products, err: err}
	}
}

// loadCart fetches the cart and resolves line prices
func (a *App) loadCart() tea.Cmd {
	gen := a.gen
	email := a.sessions.Current().Email
	return func() tea.Msg {
		if _, err := a.cart.Load(context.Background(), email); err != nil {
			return cartLoadedMsg{gen: gen, err: err}
		}
		errs := a.cart.ResolvePrices(context.Background())
		return cartLoadedMsg{gen: gen, errs: errs}
	}
}

// login exchanges credentials for a session
func (a *App) login(email, password string) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		ident, err := a.sessions.Login(context.Background(), email, password)
		return loggedInMsg{gen: gen, ident: ident, err: err}
	}
}

// signup creates a new account
func (a *App) signup(msg authform.SignupSubmittedMsg) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		err := a.sessions.Signup(context.Background(), msg.Name, msg.Email, msg.Password, msg.Confirm)
		return signedUpMsg{gen: gen, email: msg.Email, err: err}
	}
}

// addToCart records the add locally and pushes it to the server
func (a *App) addToCart(email, productID, title string) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		err := a.cart.Add(context.Background(), email, productID, 1)
		return cartAddedMsg{gen: gen, title: title, err: err}
	}
}

// saveProfile changes the display name and refreshes the identity so
// the header and profile form show the new name
func (a *App) saveProfile(name string) tea.Cmd {
	gen := a.gen
	email := a.sessions.Current().Email
	return func() tea.Msg {
		if err := a.api.UpdateUser(context.Background(), email, name); err != nil {
			return profileSavedMsg{gen: gen, name: name, err: err}
		}
		err := a.sessions.Hydrate(context.Background())
		return profileSavedMsg{gen: gen, name: name, err: err}
	}
}

// refreshEditor reloads the catalog mirror for the admin screen
func (a *App) refreshEditor(action string) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		_, err := a.editor.Refresh(context.Background())
		return catalogChangedMsg{gen: gen, action: action, err: err}
	}
}

// createProduct adds a product then refreshes the mirror
func (a *App) createProduct(p client.NewProduct) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		if err := a.editor.Create(context.Background(), p); err != nil {
			return catalogChangedMsg{gen: gen, action: "create", err: err}
		}
		_, err := a.editor.Refresh(context.Background())
		return catalogChangedMsg{gen: gen, action: "create", err: err}
	}
}

// updateProduct saves edits to an existing product
func (a *App) updateProduct(p client.Product) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		err := a.editor.Update(context.Background(), p)
		return catalogChangedMsg{gen: gen, action: "update", err: err}
	}
}

// deleteProduct removes a product from the catalog
func (a *App) deleteProduct(id string) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		err := a.editor.Delete(context.Background(), id)
		return catalogChangedMsg{gen: gen, action: "delete", err: err}
	}
}

// Run starts the TUI
func Run(ctx context.Context, cfg *config.Config, api *client.Client, sessions *session.Manager) error {
	if err := debuglog.Init(cfg.ConfigDir); err == nil {
		defer debuglog.Close()
	}

	app := New(cfg, api, sessions)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
