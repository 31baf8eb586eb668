package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// MigrationVersion is one applied migration
type MigrationVersion struct {
	Version   int
	AppliedAt time.Time
}

// migrations is the ordered list of all catalog migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial lanes table",
		SQL: `
CREATE TABLE IF NOT EXISTS lanes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    sample TEXT NOT NULL DEFAULT '',
    library TEXT NOT NULL DEFAULT '',
    technology TEXT NOT NULL DEFAULT '',
    study TEXT NOT NULL DEFAULT '',
    project_ssid TEXT NOT NULL DEFAULT '',
    species TEXT NOT NULL DEFAULT '',
    qc_status TEXT NOT NULL DEFAULT '',
    processed INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_lanes_study ON lanes(study);
CREATE INDEX IF NOT EXISTS idx_lanes_project_ssid ON lanes(project_ssid);
CREATE INDEX IF NOT EXISTS idx_lanes_sample ON lanes(sample);
`,
	},
	{
		// Columns are added idempotently in applyReadStatsTx
		Version:     2,
		Description: "Add read statistics columns",
	},
}

// ApplyMigrations applies every pending migration in one transaction
func (s *Store) ApplyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin exclusive transaction: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	if err := ensureSchemaVersionTableTx(ctx, tx); err != nil {
		return fmt.Errorf("ensure schema_version table: %w", err)
	}

	appliedVersions, err := getAppliedVersionsTx(ctx, tx)
	if err != nil {
		return fmt.Errorf("get applied versions: %w", err)
	}

	applied := make(map[int]bool)
	for _, v := range appliedVersions {
		applied[v.Version] = true
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		if migration.Version == 2 {
			if err := applyReadStatsTx(ctx, tx); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
			}
		}

		if migration.SQL != "" {
			if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
			}
		}

		if err := recordMigrationTx(ctx, tx, migration.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}

	return nil
}

// GetAppliedVersions returns every applied migration in version order
func (s *Store) GetAppliedVersions(ctx context.Context) ([]*MigrationVersion, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	return getAppliedVersionsTx(ctx, tx)
}

func ensureSchemaVersionTableTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}
	return nil
}

func getAppliedVersionsTx(ctx context.Context, tx *sql.Tx) ([]*MigrationVersion, error) {
	rows, err := tx.QueryContext(ctx, `SELECT version, applied_at FROM schema_version ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("query schema versions: %w", err)
	}
	defer rows.Close()

	var versions []*MigrationVersion
	for rows.Next() {
		v := &MigrationVersion{}
		if err := rows.Scan(&v.Version, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

func recordMigrationTx(ctx context.Context, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, version)
	if err != nil {
		return fmt.Errorf("insert migration version: %w", err)
	}
	return nil
}

// applyReadStatsTx adds the per-lane read statistics columns.
func applyReadStatsTx(ctx context.Context, tx *sql.Tx) error {
	columns := []struct {
		name string
		def  string
	}{
		{"reads", "INTEGER NOT NULL DEFAULT 0"},
		{"bases", "INTEGER NOT NULL DEFAULT 0"},
		{"cycles", "INTEGER NOT NULL DEFAULT 0"},
	}

	for _, col := range columns {
		if err := addColumnIfNotExistsTx(ctx, tx, "lanes", col.name, col.def); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}

	return nil
}

// addColumnIfNotExistsTx adds a column to a table if it doesn't already exist.
func addColumnIfNotExistsTx(ctx context.Context, tx *sql.Tx, table, column, definition string) error {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}

	exists := false
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			exists = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate table info: %w", err)
	}
	rows.Close()

	if exists {
		return nil
	}

	alterSQL := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	if _, err := tx.ExecContext(ctx, alterSQL); err != nil {
		if strings.Contains(err.Error(), "duplicate column name") {
			return nil
		}
		return fmt.Errorf("alter table: %w", err)
	}

	return nil
}
