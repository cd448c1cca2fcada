// ABOUTME: Entry point for coffee CLI
// ABOUTME: Command-line client for the coffee catalog API

package main

import (
	"fmt"
	"os"

	"github.com/CleanMatyx/ApiRestCoffee/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
