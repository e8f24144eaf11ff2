// ABOUTME: Catalog browsing table for the store TUI
// ABOUTME: Emits add-to-cart messages for the selected product

package shopview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shopfront/internal/client"
	"shopfront/internal/tui/styles"
)

// AddToCartMsg is sent when the user adds the selected product to the cart
type AddToCartMsg struct {
	ProductID string
	Title     string
}

// ShopView renders the catalog as a navigable table
type ShopView struct {
	table    table.Model
	products []client.Product
	width    int
	height   int
}

// New creates a shop view for the given catalog
func New(products []client.Product, width, height int) *ShopView {
	v := &ShopView{width: width, height: height}
	v.SetProducts(products)
	return v
}

// SetProducts replaces the catalog backing the table
func (v *ShopView) SetProducts(products []client.Product) {
	v.products = products

	columns := []table.Column{
		{Title: "Title", Width: 32},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 7},
	}

	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, table.Row{
			p.Title,
			fmt.Sprintf("%.2f", p.Price),
			fmt.Sprintf("%d", p.Quantity),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(v.tableHeight()),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(styles.Muted).
		Foreground(styles.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Surface).
		Bold(true)
	t.SetStyles(s)

	v.table = t
}

// SetSize updates the view dimensions
func (v *ShopView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetHeight(v.tableHeight())
}

func (v *ShopView) tableHeight() int {
	h := v.height - 4
	if h < 3 {
		h = 3
	}
	return h
}

// Selected returns the product under the cursor
func (v *ShopView) Selected() (client.Product, bool) {
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.products) {
		return client.Product{}, false
	}
	return v.products[idx], true
}

// Init implements tea.Model
func (v *ShopView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *ShopView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "a", "enter":
			if p, ok := v.Selected(); ok {
				return v, func() tea.Msg {
					return AddToCartMsg{ProductID: p.ID.OID, Title: p.Title}
				}
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View implements tea.Model
func (v *ShopView) View() string {
	if len(v.products) == 0 {
		return styles.Subtitle.Render("The catalog is empty.")
	}

	detail := ""
	if p, ok := v.Selected(); ok {
		detail = "\n" + styles.Subtitle.Render(truncate(p.Description, v.width-4))
	}
	return v.table.View() + detail
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
