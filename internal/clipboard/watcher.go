// Clipboard polling: when the clipboard text changes and contains
// recognizable novel URLs, the new sources are added and a pass is
// triggered. Reading the clipboard is platform glue; everything after the
// raw text is the core's job.
package clipboard

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/mirukan/novelkeep/internal/orchestrator"
	"github.com/mirukan/novelkeep/internal/providers"
)

type Watcher struct {
	orch     *orchestrator.Orchestrator
	interval time.Duration

	readText func() (string, error)

	prev     string
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewWatcher(orch *orchestrator.Orchestrator, interval time.Duration) *Watcher {
	return &Watcher{
		orch:     orch,
		interval: interval,
		readText: clipboard.ReadAll,
		stopChan: make(chan struct{}),
	}
}

// Start begins polling in a background goroutine.
func (w *Watcher) Start() {
	log.Printf("Clipboard watcher started (poll every %s).", w.interval)
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.poll()
			case <-w.stopChan:
				return
			}
		}
	}()
}

func (w *Watcher) poll() {
	text, err := w.readText()
	if err != nil {
		// Headless environments have no clipboard; stay quiet.
		return
	}
	if text == w.prev {
		return
	}
	w.prev = text

	sources := providers.Recognize(strings.TrimSpace(text))
	if len(sources) == 0 {
		return
	}
	if added := w.orch.AddSources(sources); added > 0 {
		go w.orch.RunAll(false)
	}
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}
