// Package main generates CLI reference documentation from the vpr and
// vinyl-pricer command trees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	server "github.com/donaldgifford/vinyl-pricer/cmd/vinyl-pricer/cmd"
	client "github.com/donaldgifford/vinyl-pricer/cmd/vpr/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	roots := map[string]*cobra.Command{
		"vpr":          client.Root(),
		"vinyl-pricer": server.Root(),
	}

	for name, root := range roots {
		dir := filepath.Join(*output, name)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", name, err)
		}
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}
