// Package main is the entry point for martctl.
package main

import (
	"fmt"
	"os"

	"github.com/openmart/martctl/internal/cli"

	// Register data marts
	_ "github.com/openmart/martctl/internal/marts/clinical"
	_ "github.com/openmart/martctl/internal/marts/courier"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
