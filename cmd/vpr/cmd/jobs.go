package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	jobsRoot := &cobra.Command{
		Use:   "jobs",
		Short: "View scheduler job history",
		Long: "View the execution history of scheduled jobs (price_pending,\n" +
			"refresh_stale, sync_quota). Each job records status, rows and any errors.",
	}

	jobsRoot.AddCommand(
		jobsListCmd(),
		jobsHistoryCmd(),
	)

	return jobsRoot
}

func jobsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List latest run per job",
		Example: `  vpr jobs list
  vpr jobs list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := newClient().ListJobs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No job runs found.")
				return nil
			}
			return printJobRunsTable(os.Stdout, runs)
		},
	}
}

func jobsHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <job_name>",
		Short: "Show run history for a job",
		Args:  cobra.ExactArgs(1),
		Example: `  vpr jobs history price_pending
  vpr jobs history refresh_stale --limit 5 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := newClient().GetJobHistory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Printf("No runs found for job %q.\n", args[0])
				return nil
			}
			return printJobRunsTable(os.Stdout, runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum runs to show (server default when 0)")
	return cmd
}
