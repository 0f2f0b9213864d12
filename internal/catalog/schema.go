package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

var (
	//go:embed schema_sqlite.sql
	sqliteSchemaSQL string

	//go:embed schema_postgres.sql
	postgresSchemaSQL string
)

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	if err := s.db.QueryRowContext(ctx, s.dialect.tableExistsQuery).Scan(&tableExists); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete the catalog database to rebuild it)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.rebind("INSERT INTO schema_version (version) VALUES (?)"), schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// EnsureUniqueIndex creates the unique index on media file paths. It is
// idempotent and fails if the table already holds duplicate paths.
func (s *Store) EnsureUniqueIndex(ctx context.Context) error {
	ctx = ensureContext(ctx)
	if err := s.execWithoutResultRetry(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_media_filepath ON media(filepath)`); err != nil {
		return fmt.Errorf("ensure unique filepath index: %w", err)
	}
	return nil
}
