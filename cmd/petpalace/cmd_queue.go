package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/queue"
)

var failedCmd = &cobra.Command{
	Use:   "queue:failed",
	Short: "List the most recent failed jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context) error {
			queue.UseCollection(database.C(database.ColFailedJobs))

			failed, err := queue.Failed(ctx, 50)
			if err != nil {
				return err
			}
			if len(failed) == 0 {
				fmt.Println("no failed jobs")
				return nil
			}
			for _, f := range failed {
				fmt.Printf("%s  %-20s  %s\n", f.FailedAt.Format("2006-01-02 15:04:05"), f.JobType, f.Error)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(failedCmd)
}
