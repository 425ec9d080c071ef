// Package main is the entry point for the alpha-term CLI.
package main

import (
	"os"

	"github.com/neonalpha/alpha-term/cmd/alpha-term/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
