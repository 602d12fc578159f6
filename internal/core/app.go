package core

import (
	"fmt"
	"log"

	"github.com/mirukan/novelkeep/internal/config"
	"github.com/mirukan/novelkeep/internal/orchestrator"
	"github.com/mirukan/novelkeep/internal/paths"
	"github.com/mirukan/novelkeep/internal/store"
)

// App holds the core components of the application that are shared between
// the daemon's entry point and the background services.
type App struct {
	Config       *config.Config
	Store        *store.Store
	Resolver     *paths.Resolver
	Orchestrator *orchestrator.Orchestrator
}

// New sets up and returns a new App instance. It handles loading the
// configuration, opening the persistent store, and wiring the orchestrator.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	resolver := paths.New(cfg.DataDir)

	st, err := store.Load(resolver.StoreFile(), cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	orch := orchestrator.New(cfg, st, resolver, nil)

	log.Println("Core application setup complete.")
	return &App{
		Config:       cfg,
		Store:        st,
		Resolver:     resolver,
		Orchestrator: orch,
	}, nil
}
