package main

import (
	"fmt"
	"strconv"

	"github.com/forum-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withDB(func(db *database.DB, path string, args []string) error {
		return db.RunMigrations(path)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	Args:  cobra.NoArgs,
	RunE: withDB(func(db *database.DB, path string, args []string) error {
		return db.MigrateDown(path)
	}),
}

var migrateGotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: withDB(func(db *database.DB, path string, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return db.MigrateToVersion(path, uint(version))
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateGotoCmd)
}

// withDB opens the configured database for the duration of a migrate subcommand
func withDB(fn func(db *database.DB, path string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}

		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		return fn(db, cfg.Database.MigrationsPath, args)
	}
}
