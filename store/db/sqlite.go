package db // import "github.com/maktaba-io/maktaba/store/db"

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/maktaba-io/maktaba/version"
)

type DB struct {
	*sql.DB
}

// NewDB opens the sqlite database at path. The writer count is pinned to
// one connection: sqlite allows a single writer anyway, and funnelling
// every transaction through one connection turns write conflicts into
// queueing instead of SQLITE_BUSY errors.
func NewDB(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	d, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	d.SetMaxOpenConns(1)

	return &DB{d}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "migration/LATEST_SCHEMA.sql"

// Migrate applies the latest schema and records the build version in
// migration_history.
func (d *DB) Migrate(ctx context.Context) error {
	buf, err := migrationFS.ReadFile(latestSchemaFileName)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaFileName)
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	if _, err := d.upsertMigrationHistory(ctx, tx, version.GetCurrentVersion()); err != nil {
		return errors.Wrap(err, "failed to record migration history")
	}

	return tx.Commit()
}
