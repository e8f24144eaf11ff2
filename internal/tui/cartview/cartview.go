// ABOUTME: Cart screen showing lines, resolved prices, and the running total
// ABOUTME: Drives the two-step remove flow against the synchronizer

package cartview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/cart"
	"shopfront/internal/tui/icons"
	"shopfront/internal/tui/styles"
)

// ChangedMsg is sent when a local remove was confirmed
type ChangedMsg struct{}

// CartView renders the cart backed by a synchronizer
type CartView struct {
	sync   *cart.Synchronizer
	errs   map[string]error
	cursor int
	width  int
}

// New creates a cart view over the given synchronizer
func New(sync *cart.Synchronizer, width int) *CartView {
	return &CartView{sync: sync, width: width}
}

// SetErrors records per-product price resolution failures
func (v *CartView) SetErrors(errs map[string]error) {
	v.errs = errs
}

// SetWidth updates the view width
func (v *CartView) SetWidth(width int) {
	v.width = width
}

// Init implements tea.Model
func (v *CartView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *CartView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	// A pending removal captures all input until decided
	if _, pending := v.sync.PendingRemoval(); pending {
		switch key.String() {
		case "y", "enter":
			v.sync.ConfirmRemove()
			v.clampCursor()
			return v, func() tea.Msg { return ChangedMsg{} }
		case "n", "esc":
			v.sync.CancelRemove()
		}
		return v, nil
	}

	lines := v.sync.Lines()
	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(lines)-1 {
			v.cursor++
		}
	case "d", "x":
		if v.cursor < len(lines) {
			v.sync.RequestRemove(lines[v.cursor].ProductID)
		}
	}
	return v, nil
}

func (v *CartView) clampCursor() {
	if n := len(v.sync.Lines()); v.cursor >= n && n > 0 {
		v.cursor = n - 1
	} else if n == 0 {
		v.cursor = 0
	}
}

// View implements tea.Model
func (v *CartView) View() string {
	lines := v.sync.Lines()
	if len(lines) == 0 {
		return styles.Subtitle.Render("Your cart is empty.")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Cart.String() + " Cart"))
	sb.WriteString("\n")

	for i, line := range lines {
		prefix := "  "
		if i == v.cursor {
			prefix = styles.KeyStyle.Render("> ")
		}

		row := v.renderLine(line.ProductID, line.Quantity)
		if i == v.cursor {
			row = styles.ValueStyle.Render(row)
		}
		sb.WriteString(prefix + row + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.PriceStyle.Render(fmt.Sprintf("Total: %.2f", v.sync.Total())))
	if unresolved := v.sync.Unresolved(); len(unresolved) > 0 {
		sb.WriteString(styles.StatusWarning.Render(
			fmt.Sprintf("  %s %d line(s) without a price", icons.Warning.String(), len(unresolved))))
	}

	if pendingOps := v.pendingOps(); pendingOps > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.PendingStyle.Render(
			fmt.Sprintf("%s %d change(s) syncing", icons.Pending.String(), pendingOps)))
	}

	if id, pending := v.sync.PendingRemoval(); pending {
		title := id
		if p, ok := v.sync.ProductInfo(id); ok {
			title = p.Title
		}
		sb.WriteString("\n\n")
		sb.WriteString(styles.StatusWarning.Render(
			fmt.Sprintf("Remove %q from the cart? (y/n)", title)))
	}

	return sb.String()
}

func (v *CartView) renderLine(productID string, quantity int) string {
	if _, bad := v.errs[productID]; bad {
		return fmt.Sprintf("%-34s x%-3d %s", productID, quantity,
			styles.StatusError.Render("price unavailable"))
	}

	title := productID
	price := 0.0
	if p, ok := v.sync.ProductInfo(productID); ok {
		title = p.Title
		price = p.Price
	}
	return fmt.Sprintf("%-34s x%-3d %10.2f %10.2f",
		truncate(title, 34), quantity, price, price*float64(quantity))
}

func (v *CartView) pendingOps() int {
	n := 0
	for _, op := range v.sync.Ops() {
		if op.State == cart.OpPending {
			n++
		}
	}
	return n
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
