// Package ingest connects a directory walk to the catalog.
//
// A Coordinator consumes the walker's event stream for one library root,
// extracts metadata for every discovered file, drops records that fail the
// validity predicate and stores the rest unless the path is already
// catalogued. Lookups and inserts run on a bounded worker pool while the walk
// continues. At most one record per path is guaranteed by an in-flight set
// inside the coordinator and by the catalog's unique path index.
//
// Per-file failures are logged and counted, never retried, and never stop the
// walk.
package ingest
