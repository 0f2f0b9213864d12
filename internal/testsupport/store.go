package testsupport

import (
	"context"
	"testing"

	"mediascan/internal/catalog"
	"mediascan/internal/config"
)

// MustOpenStore opens a catalog.Store for tests, ensures the unique path
// index and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	if err := store.EnsureUniqueIndex(context.Background()); err != nil {
		t.Fatalf("EnsureUniqueIndex: %v", err)
	}
	return store
}
