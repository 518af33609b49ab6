// Package cmd implements the CLI commands for vinyl-pricer.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vinyl-pricer",
	Short: "Price vinyl records for storefront import",
	Long: "An API-first service that prices vinyl records from sold and active eBay\n" +
		"listings, Discogs marketplace data and spreadsheet references, and\n" +
		"records every decision with the signals it was made from.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		quoteCommand(),
		versionCommand(),
	)
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
