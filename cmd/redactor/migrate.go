package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ahwr/internal/platform/migration"
	"ahwr/internal/platform/postgres"
	"ahwr/migrations"
)

// NewMigrateCommand manages the database schema.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m *migration.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			db, err := postgres.Open(cmd.Context(), rootOpts.Config.Database)
			if err != nil {
				return err
			}
			m, err := migration.New(db, migrations.FS, rootOpts.Logger)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer m.Close()
			return fn(cmd, m)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(_ *cobra.Command, m *migration.Migrator) error {
			return m.Up()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(_ *cobra.Command, m *migration.Migrator) error {
			return m.Down()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m *migration.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
			return nil
		}),
	})
	return cmd
}
