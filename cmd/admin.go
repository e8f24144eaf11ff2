// ABOUTME: Admin commands for catalog CRUD, gated on the admin flag
// ABOUTME: Wraps the catalog editor with flag parsing and output formatting

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shopfront/internal/catalog"
	"shopfront/internal/client"
)

var (
	adminTitle       string
	adminDescription string
	adminPrice       float64
	adminQuantity    int
	adminImg         string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Edit the product catalog (admin accounts only)",
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runAdminList(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product to the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		p := client.NewProduct{
			Title:       adminTitle,
			Description: adminDescription,
			Price:       adminPrice,
			Quantity:    adminQuantity,
			Img:         adminImg,
		}
		if exitCode := runAdminAdd(ctx, os.Stdout, p); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var adminUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Update a catalog product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runAdminUpdate(ctx, os.Stdout, cmd, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a catalog product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runAdminDelete(ctx, os.Stdout, args[0]); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{adminAddCmd, adminUpdateCmd} {
		c.Flags().StringVar(&adminTitle, "title", "", "Product title")
		c.Flags().StringVar(&adminDescription, "description", "", "Product description")
		c.Flags().Float64Var(&adminPrice, "price", 0, "Product price")
		c.Flags().IntVar(&adminQuantity, "stock", 0, "Units in stock")
		c.Flags().StringVar(&adminImg, "img", "", "Product image URL")
	}
	_ = adminAddCmd.MarkFlagRequired("title")
	_ = adminAddCmd.MarkFlagRequired("price")

	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminAddCmd)
	adminCmd.AddCommand(adminUpdateCmd)
	adminCmd.AddCommand(adminDeleteCmd)
	rootCmd.AddCommand(adminCmd)
}

// adminEnv builds a catalog editor after checking the admin gate
func adminEnv(ctx context.Context) (*catalog.Editor, int, error) {
	_, api, sessions, err := newEnv()
	if err != nil {
		return nil, 2, err
	}
	if err := sessions.Hydrate(ctx); err != nil {
		return nil, 2, err
	}
	ident := sessions.Current()
	if ident == nil {
		return nil, 1, fmt.Errorf("not logged in; run \"shopfront login\" first")
	}
	if !ident.IsAdmin {
		return nil, 1, fmt.Errorf("account %s is not an admin", ident.Email)
	}
	return catalog.NewEditor(api), 0, nil
}

// runAdminList refreshes the editor mirror and prints it
func runAdminList(ctx context.Context, w io.Writer) int {
	editor, code, err := adminEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	products, err := editor.Refresh(ctx)
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

// runAdminAdd creates a product
func runAdminAdd(ctx context.Context, w io.Writer, p client.NewProduct) int {
	editor, code, err := adminEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	if err := editor.Create(ctx, p); err != nil {
		fmt.Fprintf(w, "Add failed: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Added %q to the catalog.\n", p.Title)
	return 0
}

// runAdminUpdate updates the flagged fields of an existing product,
// keeping untouched fields at their current values
func runAdminUpdate(ctx context.Context, w io.Writer, cmd *cobra.Command, id string) int {
	editor, code, err := adminEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	if _, err := editor.Refresh(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var current *client.Product
	for _, p := range editor.Products() {
		if p.ID.OID == id {
			p := p
			current = &p
			break
		}
	}
	if current == nil {
		fmt.Fprintf(w, "No product with id %s\n", id)
		return 1
	}

	if cmd.Flags().Changed("title") {
		current.Title = adminTitle
	}
	if cmd.Flags().Changed("description") {
		current.Description = adminDescription
	}
	if cmd.Flags().Changed("price") {
		current.Price = adminPrice
	}
	if cmd.Flags().Changed("stock") {
		current.Quantity = adminQuantity
	}
	if cmd.Flags().Changed("img") {
		current.Img = adminImg
	}

	if err := editor.Update(ctx, *current); err != nil {
		fmt.Fprintf(w, "Update failed: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(current, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Updated %s\n", id)
	}
	return 0
}

// runAdminDelete deletes a product by id
func runAdminDelete(ctx context.Context, w io.Writer, id string) int {
	editor, code, err := adminEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return code
	}

	if err := editor.Delete(ctx, id); err != nil {
		if client.IsNotFound(err) {
			fmt.Fprintf(w, "No product with id %s\n", id)
			return 1
		}
		fmt.Fprintf(w, "Delete failed: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Deleted %s\n", id)
	return 0
}
