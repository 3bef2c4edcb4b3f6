package schema

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pkgerrors "graphedit/pkg/errors"
	"graphedit/pkg/utils"
)

// SchemaVersion is one applied migration, as recorded in the version table
type SchemaVersion struct {
	Version     int
	Description string
	AppliedAt   time.Time
}

// Migration moves the schema one version forward
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Up          MigrationFunc
}

// MigrationFunc applies a migration inside a transaction
type MigrationFunc func(ctx context.Context, tx *sql.Tx) error

// SchemaEvolution manages database schema evolution
type SchemaEvolution struct {
	table      string
	migrations []Migration
}

// NewSchemaEvolution creates a manager that records versions in table
func NewSchemaEvolution(table string) *SchemaEvolution {
	return &SchemaEvolution{table: table}
}

// RegisterMigration registers a new migration
func (s *SchemaEvolution) RegisterMigration(migration Migration) error {
	if migration.ToVersion != migration.FromVersion+1 {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("invalid migration %d->%d: migrations advance one version", migration.FromVersion, migration.ToVersion))
	}
	if migration.Up == nil {
		return pkgerrors.NewValidationError(fmt.Sprintf("migration %d->%d has no Up step", migration.FromVersion, migration.ToVersion))
	}
	for _, existing := range s.migrations {
		if existing.FromVersion == migration.FromVersion {
			return pkgerrors.NewConflictError(
				fmt.Sprintf("migration from %d to %d already exists", migration.FromVersion, migration.ToVersion))
		}
	}
	s.migrations = append(s.migrations, migration)
	return nil
}

// Latest returns the highest version reachable with the registered migrations
func (s *SchemaEvolution) Latest() int {
	latest := 0
	for _, m := range s.migrations {
		if m.ToVersion > latest {
			latest = m.ToVersion
		}
	}
	return latest
}

// CurrentVersion reads the applied version, 0 for a fresh database
func (s *SchemaEvolution) CurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	if err := s.ensureTable(ctx, db); err != nil {
		return 0, err
	}
	var version sql.NullInt64
	row := db.QueryRowContext(ctx, fmt.Sprintf("SELECT MAX(version) FROM %s", s.table))
	if err := row.Scan(&version); err != nil {
		return 0, pkgerrors.NewDatabaseError("read schema version", err)
	}
	return int(version.Int64), nil
}

// Migrate applies every pending migration up to targetVersion, each in its own transaction
func (s *SchemaEvolution) Migrate(ctx context.Context, db *sql.DB, targetVersion int) error {
	current, err := s.CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	if targetVersion < current {
		return pkgerrors.NewConflictError(
			fmt.Sprintf("database schema version %d is newer than supported version %d", current, targetVersion))
	}

	for current < targetVersion {
		migration := s.findMigration(current)
		if migration == nil {
			return pkgerrors.NewInternalError(
				fmt.Sprintf("no migration found from version %d to %d", current, current+1))
		}
		if err := s.apply(ctx, db, migration); err != nil {
			return err
		}
		current = migration.ToVersion
	}
	return nil
}

// History returns the applied migrations in order
func (s *SchemaEvolution) History(ctx context.Context, db *sql.DB) ([]SchemaVersion, error) {
	if err := s.ensureTable(ctx, db); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf("SELECT version, description, applied_at FROM %s ORDER BY version", s.table))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("read schema history", err)
	}
	defer rows.Close()

	var history []SchemaVersion
	for rows.Next() {
		var v SchemaVersion
		var appliedAt string
		if err := rows.Scan(&v.Version, &v.Description, &appliedAt); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan schema history", err)
		}
		v.AppliedAt, _ = utils.ParseTimestamp(appliedAt)
		history = append(history, v)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("read schema history", err)
	}
	return history, nil
}

func (s *SchemaEvolution) apply(ctx context.Context, db *sql.DB, migration *Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return pkgerrors.NewDatabaseError("begin migration", err)
	}
	if err := migration.Up(ctx, tx); err != nil {
		tx.Rollback()
		return pkgerrors.NewDatabaseError(
			fmt.Sprintf("migration %d->%d", migration.FromVersion, migration.ToVersion), err)
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (version, description, applied_at) VALUES (?, ?, ?)", s.table),
		migration.ToVersion, migration.Description, utils.Timestamp(time.Now()))
	if err != nil {
		tx.Rollback()
		return pkgerrors.NewDatabaseError("record migration", err)
	}
	if err := tx.Commit(); err != nil {
		return pkgerrors.NewDatabaseError("commit migration", err)
	}
	return nil
}

func (s *SchemaEvolution) ensureTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version     INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at  TEXT NOT NULL
	)`, s.table))
	if err != nil {
		return pkgerrors.NewDatabaseError("create schema version table", err)
	}
	return nil
}

// findMigration finds the migration starting at a version
func (s *SchemaEvolution) findMigration(from int) *Migration {
	for i := range s.migrations {
		if s.migrations[i].FromVersion == from {
			return &s.migrations[i]
		}
	}
	return nil
}
