// ABOUTME: Root command for the shopfront CLI
// ABOUTME: Handles global flags and shared client/session construction

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"shopfront/internal/client"
	"shopfront/internal/config"
	"shopfront/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "Terminal client for the shopfront store",
	Long: `shopfront is a terminal client for the shopfront storefront API.

It covers browsing the catalog, managing your cart, and (for admin
accounts) editing the product catalog. Run "shopfront browse" for the
full-screen interface.

Environment Variables:
  SHOPFRONT_API_URL     Storefront API URL (default: http://localhost:8080)
  SHOPFRONT_CONFIG_DIR  Directory for the stored login token`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Storefront API URL (overrides SHOPFRONT_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newEnv loads config and builds the client and session manager. The
// --api-url flag wins over the environment.
func newEnv() (*config.Config, *client.Client, *session.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	store := session.NewTokenStore(cfg.ConfigDir)
	api := client.New(cfg.APIURL, store).WithTimeout(time.Duration(cfg.HTTPTimeout) * time.Second)
	return cfg, api, session.NewManager(api, store), nil
}
