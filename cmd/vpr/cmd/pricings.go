package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/vinyl-pricer/internal/api/client"
)

func pricingsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pricings",
		Short: "Inspect stored pricing decisions",
	}
	root.AddCommand(pricingsListCmd(), pricingsGetCmd())
	return root
}

func pricingsListCmd() *cobra.Command {
	var p apiclient.ListPricingsParams

	c := &cobra.Command{
		Use:   "list",
		Short: "List pricing decisions, newest first",
		Example: `  vpr pricings list --strategy REF
  vpr pricings list --item 6f0c... --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListPricings(cmd.Context(), &p)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Pricings) == 0 {
				fmt.Println("No pricing decisions found.")
				return nil
			}
			return printPricingTable(os.Stdout, resp.Pricings)
		},
	}
	c.Flags().StringVar(&p.ItemID, "item", "", "only decisions for this item")
	c.Flags().StringVar(&p.Strategy, "strategy", "", "only decisions made by this strategy code")
	c.Flags().IntVar(&p.Limit, "limit", 50, "maximum number of results")
	c.Flags().IntVar(&p.Offset, "offset", 0, "pagination offset")

	return c
}

func pricingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a pricing decision and its signals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := newClient().GetPricing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rec)
			}
			return printPricingDetail(os.Stdout, rec)
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show inventory pricing totals",
		Long: "Totals the latest pricing of every item, compares it with the\n" +
			"spreadsheet reference prices and counts decisions per strategy.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := newClient().Summary(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(sum)
			}
			return printSummary(os.Stdout, sum)
		},
	}
}
