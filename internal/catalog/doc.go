// Package catalog persists media records keyed by absolute file path.
//
// The catalog is backed by SQLite by default (modernc.org/sqlite, no cgo) and
// can point at PostgreSQL through lib/pq when catalog.driver is "postgres".
// A unique index on the file path is the final guard against duplicate
// records; violating it surfaces as ErrDuplicate regardless of driver.
//
// Schema changes bump schemaVersion. Opening a database created with another
// version fails with ErrSchemaMismatch and the operator is expected to clear
// or delete it.
package catalog
