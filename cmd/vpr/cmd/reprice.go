package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func repriceCmd() *cobra.Command {
	var job string

	c := &cobra.Command{
		Use:   "reprice",
		Short: "Run a pricing batch now",
		Long: "Runs the pending batch (items never priced) or the refresh batch\n" +
			"(items whose pricing is stale) on the server and waits for it.",
		Example: `  vpr reprice
  vpr reprice --job refresh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if job != "pending" && job != "refresh" {
				return fmt.Errorf("--job must be pending or refresh, got %q", job)
			}
			resp, err := newClient().Reprice(cmd.Context(), job)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			fmt.Printf("%s run priced %d items.\n", resp.Job, resp.Priced)
			return nil
		},
	}
	c.Flags().StringVar(&job, "job", "pending", "batch to run (pending, refresh)")

	return c
}
