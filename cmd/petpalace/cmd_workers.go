package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petpalace/petpalace/config"
	"github.com/petpalace/petpalace/internal/server"
	"github.com/petpalace/petpalace/pkg/cache"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/schedule"
)

var queueWorkersFlag int

// petpalace queue:work — run the workers in their own process, away from
// the API. The serve command starts the same workers in-process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootInfra(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 4
		}

		fmt.Printf("Queue workers started (%d). Press Ctrl+C to stop.\n", workers)
		server.StartQueue(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue workers stopped.")
		return nil
	},
}

// petpalace schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootInfra(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		server.StartSchedule(ctx)

		fmt.Println("Registered tasks:")
		for _, t := range schedule.List() {
			fmt.Println("  -", t)
		}
		fmt.Println("Scheduler started. Press Ctrl+C to stop.")

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

// bootInfra loads config and connects Mongo and Redis for the worker
// commands. Redis failure is tolerated; the queue falls back in-process.
func bootInfra(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(ctx); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable", "error", err)
	}
	return nil
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "Number of concurrent workers")
	rootCmd.AddCommand(queueWorkCmd, scheduleRunCmd)
}
