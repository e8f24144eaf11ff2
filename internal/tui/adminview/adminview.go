// ABOUTME: Admin catalog editor screen with add, edit, and delete flows
// ABOUTME: Collects product fields in huh forms and emits change messages

package adminview

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"shopfront/internal/client"
	"shopfront/internal/tui/icons"
	"shopfront/internal/tui/styles"
)

// CreateMsg is sent when the add form completes
type CreateMsg struct {
	Product client.NewProduct
}

// UpdateMsg is sent when the edit form completes
type UpdateMsg struct {
	Product client.Product
}

// DeleteMsg is sent when a delete is confirmed
type DeleteMsg struct {
	ProductID string
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeDelete
)

// AdminView renders the catalog editor
type AdminView struct {
	products []client.Product
	cursor   int
	mode     mode
	form     *huh.Form
	editing  client.Product

	// Form field values (strings for huh)
	title       string
	description string
	price       string
	stock       string
	img         string
}

// New creates the admin view over the current catalog mirror
func New(products []client.Product) *AdminView {
	return &AdminView{products: products}
}

// Capturing reports whether the view is in a form or confirm flow and
// needs every key routed to it
func (v *AdminView) Capturing() bool {
	return v.mode != modeList
}

// SetProducts replaces the catalog mirror after a refresh
func (v *AdminView) SetProducts(products []client.Product) {
	v.products = products
	if v.cursor >= len(products) && len(products) > 0 {
		v.cursor = len(products) - 1
	}
}

// Init implements tea.Model
func (v *AdminView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *AdminView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v.mode {
	case modeAdd, modeEdit:
		return v.updateForm(msg)
	case modeDelete:
		return v.updateDelete(msg)
	}
	return v.updateList(msg)
}

func (v *AdminView) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.products)-1 {
			v.cursor++
		}
	case "a":
		v.startAdd()
		return v, v.form.Init()
	case "e", "enter":
		if v.cursor < len(v.products) {
			v.startEdit(v.products[v.cursor])
			return v, v.form.Init()
		}
	case "d":
		if v.cursor < len(v.products) {
			v.mode = modeDelete
		}
	}
	return v, nil
}

func (v *AdminView) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		v.mode = modeList
		v.form = nil
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		v.form = m
	}

	if v.form.State == huh.StateCompleted {
		return v.submitForm()
	}
	return v, cmd
}

func (v *AdminView) updateDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "y", "enter":
		id := v.products[v.cursor].ID.OID
		v.mode = modeList
		return v, func() tea.Msg { return DeleteMsg{ProductID: id} }
	case "n", "esc":
		v.mode = modeList
	}
	return v, nil
}

func (v *AdminView) startAdd() {
	v.title = ""
	v.description = ""
	v.price = ""
	v.stock = "0"
	v.img = ""
	v.mode = modeAdd
	v.form = v.productForm("Add product")
}

func (v *AdminView) startEdit(p client.Product) {
	v.editing = p
	v.title = p.Title
	v.description = p.Description
	v.price = strconv.FormatFloat(p.Price, 'f', 2, 64)
	v.stock = strconv.Itoa(p.Quantity)
	v.img = p.Img
	v.mode = modeEdit
	v.form = v.productForm("Edit product")
}

func (v *AdminView) productForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.title).
				Validate(validateNonEmpty),
			huh.NewInput().
				Title("Description").
				Value(&v.description),
			huh.NewInput().
				Title("Price").
				Placeholder("e.g., 19.99").
				Value(&v.price).
				Validate(validatePrice),
			huh.NewInput().
				Title("Units in stock").
				Value(&v.stock).
				Validate(validateStock),
			huh.NewInput().
				Title("Image URL").
				Value(&v.img),
		).Title(title),
	).WithTheme(huh.ThemeBase())
}

func (v *AdminView) submitForm() (tea.Model, tea.Cmd) {
	price, _ := strconv.ParseFloat(v.price, 64)
	stock, _ := strconv.Atoi(v.stock)

	mode := v.mode
	v.mode = modeList
	v.form = nil

	if mode == modeAdd {
		p := client.NewProduct{
			Title:       v.title,
			Description: v.description,
			Price:       price,
			Quantity:    stock,
			Img:         v.img,
		}
		return v, func() tea.Msg { return CreateMsg{Product: p} }
	}

	p := v.editing
	p.Title = v.title
	p.Description = v.description
	p.Price = price
	p.Quantity = stock
	p.Img = v.img
	return v, func() tea.Msg { return UpdateMsg{Product: p} }
}

// View implements tea.Model
func (v *AdminView) View() string {
	if v.mode == modeAdd || v.mode == modeEdit {
		return v.form.View() + "\n" + styles.Help.Render("Esc to cancel")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Admin.String() + " Catalog editor"))
	sb.WriteString("\n")

	if len(v.products) == 0 {
		sb.WriteString(styles.Subtitle.Render("No products yet. Press a to add one."))
		return sb.String()
	}

	for i, p := range v.products {
		prefix := "  "
		row := fmt.Sprintf("%-32s %10.2f %6d", truncate(p.Title, 32), p.Price, p.Quantity)
		if i == v.cursor {
			prefix = styles.KeyStyle.Render("> ")
			row = styles.ValueStyle.Render(row)
		}
		sb.WriteString(prefix + row + "\n")
	}

	if v.mode == modeDelete {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(
			fmt.Sprintf("Delete %q from the catalog? (y/n)", v.products[v.cursor].Title)))
	}

	return sb.String()
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validatePrice(s string) error {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateStock(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative whole number")
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
