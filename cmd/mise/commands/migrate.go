package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back the SQL migrations in MIGRATIONS_PATH.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the current schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg, l)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Migrate(cfg.MigrationsPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  mise migrate down            # Roll back the last migration
  mise migrate down --steps 2  # Roll back the last two`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if downSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg, l)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.MigrateDown(cfg.MigrationsPath, downSteps)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg, l)
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := db.MigrationVersion(cfg.MigrationsPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if dirty {
			fmt.Fprintf(out, "%d (dirty)\n", version)
			return nil
		}
		fmt.Fprintln(out, version)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
