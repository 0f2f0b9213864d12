package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"mediascan/internal/config"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store manages catalog persistence.
type Store struct {
	db       *sql.DB
	location string
	dialect  dialect
}

type dialect struct {
	name             string
	schema           string
	tableExistsQuery string
	numbered         bool
}

var (
	sqliteDialect = dialect{
		name:             DriverSQLite,
		schema:           sqliteSchemaSQL,
		tableExistsQuery: "SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	}
	postgresDialect = dialect{
		name:             DriverPostgres,
		schema:           postgresSchemaSQL,
		tableExistsQuery: "SELECT COUNT(1) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'schema_version'",
		numbered:         true,
	}
)

// rebind rewrites '?' placeholders into the driver's native form.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

const (
	sqliteBusyCode          = 5
	sqliteConstraintCode    = 19
	postgresUniqueViolation = "23505"
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// isUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == postgresUniqueViolation
	}
	msg := err.Error()
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		return coder.Code()&0xff == sqliteConstraintCode && strings.Contains(msg, "UNIQUE")
	}
	return strings.Contains(msg, "UNIQUE constraint failed")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	query = s.dialect.rebind(query)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	_, err := s.execWithRetry(ctx, query, args...)
	return err
}

// sqliteDSN adds the busy timeout pragma to path, keeping any query
// parameters already present. Every pooled connection needs it, not just the
// first.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}

// Open initializes or connects to the catalog database selected by cfg.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("catalog: config is nil")
	}

	var (
		d          dialect
		driverName string
		dsn        string
		location   string
	)
	switch cfg.Catalog.Driver {
	case DriverSQLite, "":
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		location = cfg.CatalogPath()
		if strings.Contains(location, "://") {
			return nil, fmt.Errorf("catalog: sqlite path %q looks like a URL", location)
		}
		d, driverName, dsn = sqliteDialect, "sqlite", sqliteDSN(location)
	case DriverPostgres:
		if strings.TrimSpace(cfg.Catalog.DSN) == "" {
			return nil, errors.New("catalog: postgres driver requires catalog.dsn")
		}
		d, driverName, dsn = postgresDialect, "postgres", cfg.Catalog.DSN
		location = dsn
	default:
		return nil, fmt.Errorf("catalog: unsupported driver %q", cfg.Catalog.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.name, err)
	}

	if d.name == DriverSQLite {
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout = 5000",
		}
		for _, pragma := range pragmas {
			if _, execErr := db.Exec(pragma); execErr != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
			}
		}
	}

	store := &Store{db: db, location: location, dialect: d}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Driver returns the name of the backing database driver.
func (s *Store) Driver() string {
	return s.dialect.name
}

// Location returns the database file path for SQLite or the DSN for PostgreSQL.
func (s *Store) Location() string {
	return s.location
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ensureContext(ctx))
}
