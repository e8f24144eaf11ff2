// ABOUTME: Cart commands for showing, adding to, and pruning the cart
// ABOUTME: All subcommands require a valid stored login

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shopfront/internal/cart"
	"shopfront/internal/client"
	"shopfront/internal/config"
	"shopfront/internal/session"
)

var cartAddQuantity int

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage your cart",
	Long:  `Show the cart, add products to it, or drop lines from the local view.`,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart with prices and total",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCartShow(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCartAdd(ctx, os.Stdout, args[0], cartAddQuantity); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Drop a line from the local cart view",
	Long: `Drop a cart line locally and show the recomputed total. The store
API has no endpoint for deleting cart lines, so the change is not
persisted; the line returns on the next fetch.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runCartRemove(ctx, os.Stdout, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	cartAddCmd.Flags().IntVar(&cartAddQuantity, "quantity", 1, "Quantity to add")
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	rootCmd.AddCommand(cartCmd)
}

// cartEnv builds a loaded synchronizer for the logged-in user
func cartEnv(ctx context.Context) (*config.Config, *session.Manager, *cart.Synchronizer, int, error) {
	cfg, api, sessions, err := newEnv()
	if err != nil {
		return nil, nil, nil, 2, err
	}
	if err := sessions.Hydrate(ctx); err != nil {
		return nil, nil, nil, 2, err
	}
	ident := sessions.Current()
	if ident == nil {
		return nil, nil, nil, 1, fmt.Errorf("not logged in; run \"shopfront login\" first")
	}

	sync := cart.New(api, time.Duration(cfg.ProductTTL)*time.Second)
	if _, err := sync.Load(ctx, ident.Email); err != nil {
		return nil, nil, nil, 2, err
	}
	return cfg, sessions, sync, 0, nil
}

// runCartShow loads the cart, resolves prices, and prints the summary
func runCartShow(ctx context.Context, w io.Writer) int {
	_, _, sync, code, err := cartEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	errs := sync.ResolvePrices(ctx)
	if IsJSONOutput() {
		fmt.Fprintln(w, formatCartJSON(sync, errs))
	} else {
		fmt.Fprintln(w, formatCartHuman(sync, errs))
	}
	return 0
}

// runCartAdd records the add locally, pushes it to the server, and
// reports the outcome
func runCartAdd(ctx context.Context, w io.Writer, productID string, quantity int) int {
	_, sessions, sync, code, err := cartEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	email := sessions.Current().Email
	if err := sync.Add(ctx, email, productID, quantity); err != nil {
		fmt.Fprintf(w, "Add failed: %v\n", err)
		return 2
	}

	sync.ResolvePrices(ctx)
	fmt.Fprintf(w, "Added %d x %s\n", quantity, productID)
	fmt.Fprintf(w, "Cart total: %.2f\n", sync.Total())
	return 0
}

// runCartRemove drops a line locally and prints the recomputed total
func runCartRemove(ctx context.Context, w io.Writer, productID string) int {
	_, _, sync, code, err := cartEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	if !sync.RequestRemove(productID) {
		fmt.Fprintf(w, "No cart line for product %s\n", productID)
		return 1
	}
	sync.ConfirmRemove()

	sync.ResolvePrices(ctx)
	fmt.Fprintf(w, "Dropped %s from the local cart view.\n", productID)
	fmt.Fprintln(w, "Note: the store keeps the line server-side; it will be back on the next fetch.")
	fmt.Fprintf(w, "Cart total: %.2f\n", sync.Total())
	return 0
}

// formatCartHuman renders cart lines with resolved prices and the total
func formatCartHuman(sync *cart.Synchronizer, errs map[string]error) string {
	lines := sync.Lines()
	if len(lines) == 0 {
		return "Your cart is empty."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-26s %-30s %5s %10s %10s\n", "ID", "TITLE", "QTY", "PRICE", "SUBTOTAL"))
	for _, line := range lines {
		if err, bad := errs[line.ProductID]; bad {
			title := "(unavailable)"
			if client.IsNotFound(err) {
				title = "(no longer in catalog)"
			}
			b.WriteString(fmt.Sprintf("%-26s %-30s %5d %10s %10s\n",
				line.ProductID, title, line.Quantity, "-", "-"))
			continue
		}
		p, _ := sync.ProductInfo(line.ProductID)
		b.WriteString(fmt.Sprintf("%-26s %-30s %5d %10.2f %10.2f\n",
			line.ProductID, truncate(p.Title, 30), line.Quantity,
			p.Price, p.Price*float64(line.Quantity)))
	}
	b.WriteString(fmt.Sprintf("\nTotal: %.2f", sync.Total()))
	if unresolved := sync.Unresolved(); len(unresolved) > 0 {
		b.WriteString(fmt.Sprintf(" (excludes %s unresolved line(s))", strconv.Itoa(len(unresolved))))
	}
	return b.String()
}

// formatCartJSON renders the cart as JSON
func formatCartJSON(sync *cart.Synchronizer, errs map[string]error) string {
	type jsonLine struct {
		ProductID string  `json:"product_id"`
		Title     string  `json:"title,omitempty"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price,omitempty"`
		Subtotal  float64 `json:"subtotal,omitempty"`
		Error     string  `json:"error,omitempty"`
	}
	out := struct {
		Lines []jsonLine `json:"lines"`
		Total float64    `json:"total"`
	}{Total: sync.Total()}

	for _, line := range sync.Lines() {
		jl := jsonLine{ProductID: line.ProductID, Quantity: line.Quantity}
		if err, bad := errs[line.ProductID]; bad {
			jl.Error = err.Error()
		} else if p, ok := sync.ProductInfo(line.ProductID); ok {
			jl.Title = p.Title
			jl.Price = p.Price
			jl.Subtotal = p.Price * float64(line.Quantity)
		}
		out.Lines = append(out.Lines, jl)
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}
