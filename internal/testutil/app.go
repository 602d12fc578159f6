package testutil

import (
	"path/filepath"
	"testing"

	"github.com/mirukan/novelkeep/internal/config"
	"github.com/mirukan/novelkeep/internal/paths"
	"github.com/mirukan/novelkeep/internal/store"
)

// SetupConfig returns a config rooted in temp directories with all delays
// zeroed, so tests run fast and leave nothing behind.
func SetupConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:                 0,
		DataDir:              t.TempDir(),
		OutputDir:            filepath.Join(t.TempDir(), "library"),
		UpdateIntervalHours:  6,
		RecheckDelayHours:    6,
		RecheckJitterMinutes: 5,
		FetchDelayMinMs:      0,
		FetchDelayMaxMs:      0,
	}
}

// SetupStore loads a fresh store for the given config.
func SetupStore(t *testing.T, cfg *config.Config) (*store.Store, *paths.Resolver) {
	t.Helper()
	resolver := paths.New(cfg.DataDir)
	st, err := store.Load(resolver.StoreFile(), cfg.OutputDir)
	if err != nil {
		t.Fatalf("Failed to load test store: %v", err)
	}
	return st, resolver
}
