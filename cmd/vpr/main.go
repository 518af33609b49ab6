// Package main is the entry point for the vpr CLI client.
package main

import (
	"github.com/donaldgifford/vinyl-pricer/cmd/vpr/cmd"
)

func main() {
	cmd.Execute()
}
