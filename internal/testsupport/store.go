package testsupport

import (
	"testing"

	"lyricreel/internal/config"
	"lyricreel/internal/history"
)

// MustOpenHistory opens the run ledger configured by cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
