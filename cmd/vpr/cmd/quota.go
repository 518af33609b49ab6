package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/vinyl-pricer/internal/api/client"
)

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the eBay Browse API call budget",
		Example: `  vpr quota
  vpr quota --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := newClient().Quota(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(q)
			}
			return printQuota(os.Stdout, q)
		},
	}
}

func printQuota(w io.Writer, q *client.QuotaResponse) error {
	tw := newTabWriter(w)
	if q.DailyLimit == 0 && q.Upstream == nil {
		tw.writef("eBay:\tnot configured\n")
		return tw.finish()
	}
	tw.writef("Used:\t%d / %d\n", q.DailyUsed, q.DailyLimit)
	tw.writef("Remaining:\t%d\n", q.Remaining)
	tw.writef("Resets:\t%s\n", q.ResetAt.Local().Format(timeLayout))
	if u := q.Upstream; u != nil {
		tw.writef("eBay reports:\t%d / %d (%d left)\n", u.Count, u.Limit, u.Remaining)
	}
	return tw.finish()
}
