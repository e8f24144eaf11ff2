// ABOUTME: Entry point for the shopfront CLI
// ABOUTME: Terminal storefront client for browsing, cart, and admin catalog management

package main

import (
	"fmt"
	"os"

	"shopfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
