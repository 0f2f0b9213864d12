package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"mediascan/internal/catalog"
	"mediascan/internal/mediainfo"
	"mediascan/internal/testsupport"
)

func newRecord(path string) catalog.Record {
	return catalog.Record{Metadata: mediainfo.Parse(path), Size: 42, RunID: "run-1"}
}

func TestOpenCreatesSchemaAndRoundTrips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if store.Driver() != catalog.DriverSQLite {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
	if store.Location() != cfg.CatalogPath() {
		t.Fatalf("unexpected location %q", store.Location())
	}

	modTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord("/tv/Show.Name.S02E05.720p.mkv")
	rec.ModTime = modTime
	inserted, err := store.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if inserted.ID == 0 {
		t.Fatal("expected record ID to be assigned")
	}
	if inserted.AddedAt.IsZero() {
		t.Fatal("expected AddedAt to default to now")
	}

	found, err := store.FindByPath(ctx, "/tv/Show.Name.S02E05.720p.mkv")
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}
	if found == nil || found.ID != inserted.ID {
		t.Fatalf("expected inserted record, got %#v", found)
	}
	if found.Title != "Show Name 2x05" || found.Series != "Show Name" || found.Quality != "720p" {
		t.Fatalf("unexpected metadata %+v", found.Metadata)
	}
	if !found.IsEpisode() || *found.Season != 2 || *found.Episode != 5 {
		t.Fatalf("expected season/episode to round trip, got %+v", found.Metadata)
	}
	if found.Size != 42 || found.RunID != "run-1" || !found.ModTime.Equal(modTime) {
		t.Fatalf("unexpected bookkeeping fields %+v", found)
	}
	if found.Codec != "" || found.Year != "" {
		t.Fatalf("absent attributes must stay empty: %+v", found.Metadata)
	}
}

func TestFindByPathMissing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	rec, err := store.FindByPath(context.Background(), "/nope.mkv")
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %#v", rec)
	}
}

func TestInsertDuplicateReturnsErrDuplicate(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Insert(ctx, newRecord("/movies/Movie.2020.mkv")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := store.Insert(ctx, newRecord("/movies/Movie.2020.mkv"))
	if !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestConcurrentInsertsKeepOneRecordPerPath(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	const writers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		inserted   int
		duplicates int
		failures   []error
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, newRecord("/movies/Same.File.mkv"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				inserted++
			case errors.Is(err, catalog.ErrDuplicate):
				duplicates++
			default:
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("unexpected insert failures: %v", failures)
	}
	if inserted != 1 || duplicates != writers-1 {
		t.Fatalf("expected 1 insert and %d duplicates, got %d/%d", writers-1, inserted, duplicates)
	}
}

func TestListFiltersAndCount(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	paths := []string{
		"/tv/Show.Name.S01E01.mkv",
		"/tv/Show.Name.S01E02.mkv",
		"/tv/Other.Show.S01E01.mkv",
		"/movies/Movie.2020.mkv",
		"/music/song.mp3",
		"/pics/cover.jpg",
	}
	for _, path := range paths {
		if _, err := store.Insert(ctx, newRecord(path)); err != nil {
			t.Fatalf("insert %s: %v", path, err)
		}
	}

	all, err := store.List(ctx, catalog.Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != len(paths) {
		t.Fatalf("expected %d records, got %d", len(paths), len(all))
	}
	for i, rec := range all {
		if rec.Filepath != paths[i] {
			t.Fatalf("record %d: expected insertion order, got %s", i, rec.Filepath)
		}
	}

	series, err := store.List(ctx, catalog.Filter{Series: "show name"})
	if err != nil {
		t.Fatalf("List by series failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(series))
	}

	videos, err := store.List(ctx, catalog.Filter{Type: mediainfo.TypeVideo, Limit: 3})
	if err != nil {
		t.Fatalf("List by type failed: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("expected limit to apply, got %d", len(videos))
	}

	counts, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if counts[mediainfo.TypeVideo] != 4 || counts[mediainfo.TypeAudio] != 1 || counts[mediainfo.TypeImage] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestClearRemovesRecords(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for i := range 3 {
		if _, err := store.Insert(ctx, newRecord(fmt.Sprintf("/movies/Movie.%d.mkv", i))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	counts, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty catalog, got %v", counts)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.Insert(ctx, newRecord("/movies/Kept.mkv")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	rec, err := second.FindByPath(ctx, "/movies/Kept.mkv")
	if err != nil || rec == nil {
		t.Fatalf("expected record after reopen, got %v / %v", rec, err)
	}
	if err := second.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", cfg.CatalogPath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := catalog.Open(cfg); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Catalog.Driver = catalog.DriverPostgres
	if _, err := catalog.Open(cfg); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}

func TestOpenSQLiteRejectsURLPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Catalog.DSN = "postgres://user@localhost/media"
	if _, err := catalog.Open(cfg); err == nil {
		t.Fatal("expected error for a URL used as the sqlite path")
	}
}

func TestOpenSQLiteKeepsQueryParameters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Catalog.DSN = filepath.Join(cfg.Paths.StateDir, "custom.db") + "?_pragma=foreign_keys(1)"

	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	if _, err := store.Insert(ctx, newRecord("/library/Movie.Name.2020.mkv")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.StateDir, "custom.db")); err != nil {
		t.Fatalf("expected database file without the query suffix: %v", err)
	}
}
