package schema

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	pkgerrors "graphedit/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTable(name string) MigrationFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "CREATE TABLE "+name+" (id INTEGER)")
		return err
	}
}

func TestRegisterMigration(t *testing.T) {
	tests := []struct {
		name      string
		migration Migration
		check     func(error) bool
	}{
		{"skips a version", Migration{FromVersion: 0, ToVersion: 2, Up: createTable("a")}, pkgerrors.IsValidation},
		{"missing up", Migration{FromVersion: 1, ToVersion: 2}, pkgerrors.IsValidation},
		{"duplicate", Migration{FromVersion: 0, ToVersion: 1, Up: createTable("b")}, pkgerrors.IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchemaEvolution("versions")
			require.NoError(t, s.RegisterMigration(Migration{FromVersion: 0, ToVersion: 1, Up: createTable("a")}))

			err := s.RegisterMigration(tt.migration)
			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	s := NewSchemaEvolution("versions")
	require.NoError(t, s.RegisterMigration(Migration{FromVersion: 0, ToVersion: 1, Description: "one", Up: createTable("one")}))
	require.NoError(t, s.RegisterMigration(Migration{FromVersion: 1, ToVersion: 2, Description: "two", Up: createTable("two")}))

	require.NoError(t, s.Migrate(ctx, db, 1))
	version, err := s.CurrentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	require.NoError(t, s.Migrate(ctx, db, s.Latest()))
	history, err := s.History(ctx, db)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[1].Description)

	err = s.Migrate(ctx, db, 1)
	assert.True(t, pkgerrors.IsConflict(err), "downgrades are refused")

	err = s.Migrate(ctx, db, 3)
	assert.Error(t, err)
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	s := NewSchemaEvolution("versions")
	require.NoError(t, s.RegisterMigration(Migration{FromVersion: 0, ToVersion: 1, Up: func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "CREATE TABLE half (id INTEGER)"); err != nil {
			return err
		}
		return errors.New("boom")
	}}))

	err := s.Migrate(ctx, db, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))

	version, err := s.CurrentVersion(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, version)

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE name = 'half'").Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
