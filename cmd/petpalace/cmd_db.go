package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/petpalace/petpalace/config"
	"github.com/petpalace/petpalace/database/seeders"
	"github.com/petpalace/petpalace/pkg/database"
)

// withDB connects, runs fn, and disconnects.
func withDB(fn func(ctx context.Context) error) error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	return fn(ctx)
}

var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the database with a demo catalog and an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(seeders.Run)
	},
}

var indexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the MongoDB indexes the application relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(database.EnsureIndexes)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, indexCmd)
}
