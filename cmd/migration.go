package cmd

import (
	"fmt"

	"golang-portfolio/config"
	"golang-portfolio/internal/model"
	"golang-portfolio/internal/repository"
	"golang-portfolio/pkg/database"

	"github.com/spf13/cobra"
)

// migrateSchema runs the SQL migrations on postgres. The local sqlite store
// is created from the model instead.
func migrateSchema(db *database.DB, driver string, direction string) error {
	if driver == config.DriverPostgres {
		return db.RunMigrations(direction)
	}

	switch direction {
	case database.MigrateUp:
		return repository.Migrate(db.DB)
	case database.MigrateDown:
		return db.Migrator().DropTable(&model.Position{})
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}

func runMigrations(cmd *cobra.Command, configPath *string, direction string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.DB.AutoMigrate = false

	app, err := newAppDependencyWithConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := migrateSchema(app.db, cfg.DB.Driver, direction); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if direction == database.MigrateUp {
		fmt.Fprintln(cmd.OutOrStdout(), "Applied migrations successfully.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Reverted last migration successfully.")
	}
	return nil
}

func newMigrateCmd(configPath *string) *cobra.Command {
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all available database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd, configPath, database.MigrateUp)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the last database migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd, configPath, database.MigrateDown)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}
