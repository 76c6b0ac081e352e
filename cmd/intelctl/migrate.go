package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
)

type migration func(db *gorm.DB, dialect string, log *zap.Logger) (int, error)

func newMigrateCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(e, database.Migrate, "applied")
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations, one by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(e, func(db *gorm.DB, dialect string, log *zap.Logger) (int, error) {
				return database.Rollback(db, dialect, steps, log)
			}, "rolled back")
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Migrations to roll back; 0 rolls back all")

	cmd.AddCommand(up, down)
	return cmd
}

// runMigration opens only the database; the service graph is not needed
func runMigration(e *env, run migration, verb string) error {
	cfg, logger, err := e.setup()
	if err != nil {
		return err
	}
	db, dialect, err := database.NewDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := run(db, dialect, logger)
	if err != nil {
		return err
	}
	e.printf("%s %d migration(s)\n", verb, n)
	return nil
}
