package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"graphedit/infrastructure/persistence/schema"
)

// schemaVersion is the version this build expects
const schemaVersion = 2

func migrations() *schema.SchemaEvolution {
	evolution := schema.NewSchemaEvolution(versionTable)
	// registration errors only occur for malformed literals below
	_ = evolution.RegisterMigration(schema.Migration{
		FromVersion: 0,
		ToVersion:   1,
		Description: "create snapshot table",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				seq        INTEGER PRIMARY KEY AUTOINCREMENT,
				id         TEXT NOT NULL UNIQUE,
				name       TEXT NOT NULL,
				graph_id   TEXT NOT NULL,
				document   TEXT NOT NULL,
				nodes      INTEGER NOT NULL,
				edges      INTEGER NOT NULL,
				created_at TEXT NOT NULL
			)`, snapshotTable))
			return err
		},
	})
	_ = evolution.RegisterMigration(schema.Migration{
		FromVersion: 1,
		ToVersion:   2,
		Description: "add document size and name index",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(
				`ALTER TABLE %s ADD COLUMN size INTEGER NOT NULL DEFAULT 0`, snapshotTable)); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(
				`UPDATE %s SET size = length(document)`, snapshotTable)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS idx_%[1]s_name ON %[1]s (name, seq)`, snapshotTable))
			return err
		},
	})
	return evolution
}
