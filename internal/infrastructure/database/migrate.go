package database

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intelligence/migrations"
)

func migrationSource(dialect string) (*migrate.EmbedFileSystemMigrationSource, error) {
	switch dialect {
	case DialectPostgres:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrations.FS, Root: "postgres"}, nil
	case DialectSQLite:
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrations.FS, Root: "sqlite"}, nil
	}
	return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
}

// Migrate applies every pending up migration
func Migrate(db *gorm.DB, dialect string, log *zap.Logger) (int, error) {
	return run(db, dialect, migrate.Up, 0, log)
}

// Rollback reverts up to steps migrations; 0 reverts all of them
func Rollback(db *gorm.DB, dialect string, steps int, log *zap.Logger) (int, error) {
	return run(db, dialect, migrate.Down, steps, log)
}

func run(db *gorm.DB, dialect string, dir migrate.MigrationDirection, max int, log *zap.Logger) (int, error) {
	source, err := migrationSource(dialect)
	if err != nil {
		return 0, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, dialect, source, dir, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if log != nil {
		log.Info("✅ Migrations applied", zap.String("dialect", dialect), zap.Int("count", n))
	}
	return n, nil
}
