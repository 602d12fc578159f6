package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirukan/novelkeep/internal/api"
	"github.com/mirukan/novelkeep/internal/clipboard"
	"github.com/mirukan/novelkeep/internal/core"
	"github.com/mirukan/novelkeep/internal/library"
	"github.com/mirukan/novelkeep/internal/providers"
	"github.com/mirukan/novelkeep/internal/providers/mocknovel"
	"github.com/mirukan/novelkeep/internal/scheduler"
)

func main() {
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}

	registerProviders()

	// Watch the library mirror so externally deleted files get regenerated.
	watcher := library.NewWatcherService(app.Orchestrator.RunSyncAll)
	if err := watcher.Start(app.Orchestrator.OutputDir()); err != nil {
		log.Printf("Warning: library watcher unavailable: %v", err)
	} else {
		app.Orchestrator.OnOutputDirChange = watcher.Rewatch
		defer watcher.Stop()
	}

	sched := scheduler.Start(app.Config, app.Orchestrator)
	defer sched.Stop()

	if app.Config.ClipboardWatch {
		cw := clipboard.NewWatcher(
			app.Orchestrator,
			time.Duration(app.Config.ClipboardPollMs)*time.Millisecond,
		)
		cw.Start()
		defer cw.Stop()
	}

	server := api.NewServer(app.Orchestrator)
	addr := fmt.Sprintf("127.0.0.1:%d", app.Config.Port)
	log.Printf("Starting control API on %s", addr)
	go func() {
		if err := http.ListenAndServe(addr, server.Router()); err != nil {
			log.Fatalf("Failed to start control API: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down.")
}

// registerProviders wires the compiled-in content source connectors. Real
// site connectors implement providers.Provider elsewhere and register here;
// the mock provider keeps development runs self-contained.
func registerProviders() {
	providers.Register(mocknovel.New())
}
