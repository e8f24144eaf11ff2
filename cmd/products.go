// ABOUTME: Products command listing the catalog and showing single products
// ABOUTME: Catalog browsing works without a login

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shopfront/internal/client"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products",
	Long:  `List every product in the catalog. No login required.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runProducts(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var productShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show a single product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runProductShow(ctx, os.Stdout, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	productsCmd.AddCommand(productShowCmd)
	rootCmd.AddCommand(productsCmd)
}

// runProducts fetches and prints the full catalog
func runProducts(ctx context.Context, w io.Writer) int {
	_, api, _, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	products, err := api.Products(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(products))
	} else {
		fmt.Fprintln(w, formatProductsHuman(products))
	}
	return 0
}

// runProductShow fetches and prints one product by id
func runProductShow(ctx context.Context, w io.Writer, id string) int {
	_, api, _, err := newEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	p, err := api.Product(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			fmt.Fprintf(w, "No product with id %s\n", id)
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatProductHuman(p))
	}
	return 0
}

// formatProductsHuman renders the catalog as an aligned table
func formatProductsHuman(products []client.Product) string {
	if len(products) == 0 {
		return "The catalog is empty."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-26s %-30s %10s %7s\n", "ID", "TITLE", "PRICE", "STOCK"))
	for _, p := range products {
		b.WriteString(fmt.Sprintf("%-26s %-30s %10.2f %7d\n",
			p.ID.OID, truncate(p.Title, 30), p.Price, p.Quantity))
	}
	b.WriteString(fmt.Sprintf("\n%d product(s)", len(products)))
	return b.String()
}

// formatProductsJSON renders the catalog as JSON
func formatProductsJSON(products []client.Product) string {
	data, _ := json.MarshalIndent(products, "", "  ")
	return string(data)
}

// formatProductHuman renders one product with its description
func formatProductHuman(p *client.Product) string {
	return fmt.Sprintf(`ID:           %s
Title:        %s
Price:        %.2f
In stock:     %d
Description:  %s`, p.ID.OID, p.Title, p.Price, p.Quantity, p.Description)
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
