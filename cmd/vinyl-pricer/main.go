// Package main is the entry point for the vinyl-pricer service.
package main

import (
	"os"

	"github.com/donaldgifford/vinyl-pricer/cmd/vinyl-pricer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
