package testsupport

import (
	"context"
	"testing"

	"subextract/internal/config"
	"subextract/internal/transcriptcache"
)

// MustOpenCache opens the transcript cache configured on cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcriptcache.Store {
	t.Helper()

	store, err := transcriptcache.Open(context.Background(), cfg.Cache.Path, nil)
	if err != nil {
		t.Fatalf("transcriptcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
