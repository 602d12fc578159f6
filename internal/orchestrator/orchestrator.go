// The orchestrator sequences the update and sync engines over the whole
// collection, collapses bursts of concurrent triggers into at most one
// pending extra pass per phase, and persists the store after every item so
// a crash loses at most one item's progress.
package orchestrator

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mirukan/novelkeep/internal/config"
	"github.com/mirukan/novelkeep/internal/library"
	"github.com/mirukan/novelkeep/internal/models"
	"github.com/mirukan/novelkeep/internal/paths"
	"github.com/mirukan/novelkeep/internal/store"
	"github.com/mirukan/novelkeep/internal/updater"
	"github.com/mirukan/novelkeep/internal/util"
)

// phase is the coalescing state of one trigger kind. A trigger arriving
// while a pass runs moves the phase to rerun; when the pass finishes it runs
// exactly one more full sweep, regardless of how many triggers arrived.
type phase int

const (
	phaseIdle phase = iota
	phaseRunning
	phaseRerun
)

type Orchestrator struct {
	st       *store.Store
	engine   *updater.Engine
	syncer   *library.Syncer
	resolver *paths.Resolver
	notifier Notifier

	// mu guards the phase state machines only.
	mu          sync.Mutex
	updatePhase phase
	syncPhase   phase
	updateForce bool

	// passMu serializes whole passes: update and sync never interleave.
	passMu sync.Mutex

	// stateMu guards the store and every novel in it. Passes take it per
	// item, so commands can cut in between items but never mid-item.
	stateMu sync.Mutex

	// OnOutputDirChange, when set, is told about the new library root
	// (e.g. to repoint the mirror watcher).
	OnOutputDirChange func(dir string)

	now   func() int64
	sleep func(time.Duration)
}

func New(cfg *config.Config, st *store.Store, resolver *paths.Resolver, notifier Notifier) *Orchestrator {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Orchestrator{
		st:       st,
		engine:   updater.New(cfg, resolver),
		syncer:   library.NewSyncer(),
		resolver: resolver,
		notifier: notifier,
		now:      func() int64 { return time.Now().UnixMilli() },
		sleep:    time.Sleep,
	}
}

// RunUpdateAll runs a full update sweep, or folds the request into the one
// already running. The caller's goroutine executes the sweep; folded callers
// return immediately.
func (o *Orchestrator) RunUpdateAll(force bool) {
	o.mu.Lock()
	if o.updatePhase != phaseIdle {
		o.updatePhase = phaseRerun
		o.updateForce = o.updateForce || force
		o.mu.Unlock()
		return
	}
	o.updatePhase = phaseRunning
	o.mu.Unlock()

	for {
		o.runUpdatePass(force)

		o.mu.Lock()
		if o.updatePhase == phaseRerun {
			o.updatePhase = phaseRunning
			force = o.updateForce
			o.updateForce = false
			o.mu.Unlock()
			continue
		}
		o.updatePhase = phaseIdle
		o.mu.Unlock()
		return
	}
}

// RunSyncAll runs a full sync sweep with the same coalescing behavior as
// RunUpdateAll. Update sweeps always precede sync sweeps: triggers call
// RunUpdateAll first and whole passes are serialized, so a sync sweep never
// observes state older than the update that requested it.
func (o *Orchestrator) RunSyncAll() {
	o.mu.Lock()
	if o.syncPhase != phaseIdle {
		o.syncPhase = phaseRerun
		o.mu.Unlock()
		return
	}
	o.syncPhase = phaseRunning
	o.mu.Unlock()

	for {
		o.runSyncPass()

		o.mu.Lock()
		if o.syncPhase == phaseRerun {
			o.syncPhase = phaseRunning
			o.mu.Unlock()
			continue
		}
		o.syncPhase = phaseIdle
		o.mu.Unlock()
		return
	}
}

// RunAll is the standard trigger sequence: update, then sync.
func (o *Orchestrator) RunAll(force bool) {
	o.RunUpdateAll(force)
	o.RunSyncAll()
}

func (o *Orchestrator) runUpdatePass(force bool) {
	o.passMu.Lock()
	defer o.passMu.Unlock()

	updated := 0
	// Length is re-read every iteration; commands may add or remove novels
	// between items.
	for i := 0; ; i++ {
		o.stateMu.Lock()
		if i >= len(o.st.Novels) {
			o.stateMu.Unlock()
			break
		}
		n := o.st.Novels[i]
		if o.engine.UpdateItem(n, force) {
			updated++
		}
		if err := o.st.Save(); err != nil {
			log.Printf("Update error: failed to persist store: %v", err)
		}
		o.stateMu.Unlock()

		// Spread remote load across the collection, not just within one
		// item.
		o.sleep(o.engine.Delay())
	}

	o.stateMu.Lock()
	o.st.UpdatedAt = o.now()
	if err := o.st.Save(); err != nil {
		log.Printf("Update error: failed to persist store: %v", err)
	}
	o.stateMu.Unlock()

	if updated > 0 {
		o.notifier.Notify(fmt.Sprintf("%d novel(s) updated.", updated))
	}
	log.Printf("Update pass finished: %d novel(s) updated.", updated)
}

func (o *Orchestrator) runSyncPass() {
	o.passMu.Lock()
	defer o.passMu.Unlock()

	synced := 0
	for i := 0; ; i++ {
		o.stateMu.Lock()
		if i >= len(o.st.Novels) {
			o.stateMu.Unlock()
			break
		}
		n := o.st.Novels[i]
		if o.syncer.SyncItem(n, o.st.OutputDir) {
			synced++
		}
		if err := o.st.Save(); err != nil {
			log.Printf("Sync error: failed to persist store: %v", err)
		}
		o.stateMu.Unlock()
	}

	o.stateMu.Lock()
	o.st.SyncedAt = o.now()
	if err := o.st.Save(); err != nil {
		log.Printf("Sync error: failed to persist store: %v", err)
	}
	o.stateMu.Unlock()

	if synced > 0 {
		o.notifier.Notify(fmt.Sprintf("%d novel(s) synchronized.", synced))
	}
	log.Printf("Sync pass finished: %d novel(s) synchronized.", synced)
}

// AddSources appends new tracked novels for recognized sources, suppressing
// duplicates by (provider, id), and returns how many were added.
func (o *Orchestrator) AddSources(sources []models.Source) int {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	added := 0
	for _, src := range sources {
		if o.st.Find(src.Provider, src.ID) != nil {
			continue
		}
		o.st.Add(&models.Novel{
			URL:          src.URL,
			Provider:     src.Provider,
			ID:           src.ID,
			Versions:     []*models.Version{},
			VersionIndex: -1,
			Chapters:     []*models.Chapter{},
			CreatedAt:    o.now(),
		})
		added++
	}
	if added > 0 {
		if err := o.st.Save(); err != nil {
			log.Printf("Failed to persist store: %v", err)
		}
		o.notifier.Notify(fmt.Sprintf("%d url(s) added.", added))
	}
	return added
}

// SelectVersion pins a novel to a version index (-1 for latest) and marks it
// for resync.
func (o *Orchestrator) SelectVersion(provider, id string, index int) error {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	n := o.st.Find(provider, id)
	if n == nil {
		return fmt.Errorf("novel %s/%s is not tracked", provider, id)
	}
	if index < -1 || index > len(n.Versions)-1 {
		return fmt.Errorf("version index %d out of range", index)
	}
	n.VersionIndex = index
	n.SyncedAt = 0
	return o.st.Save()
}

// SetOutputDir moves the library root. Every novel's sync timestamp is
// reset so the next sync pass regenerates the full mirror under the new
// root.
func (o *Orchestrator) SetOutputDir(dir string) error {
	if err := util.ValidateDir(dir); err != nil {
		return err
	}

	o.stateMu.Lock()
	if o.st.OutputDir == dir {
		o.stateMu.Unlock()
		return nil
	}
	o.st.OutputDir = dir
	for _, n := range o.st.Novels {
		n.SyncedAt = 0
	}
	err := o.st.Save()
	o.stateMu.Unlock()
	if err != nil {
		return err
	}

	if o.OnOutputDirChange != nil {
		o.OnOutputDirChange(dir)
	}
	return nil
}

// RemoveNovel splices a novel out of the collection and deletes its cache
// directory and mirror file.
func (o *Orchestrator) RemoveNovel(provider, id string) error {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	if !o.st.Remove(provider, id) {
		return fmt.Errorf("novel %s/%s is not tracked", provider, id)
	}
	if err := os.RemoveAll(o.resolver.CacheDir(provider, id)); err != nil {
		log.Printf("Failed to remove cache for %s/%s: %v", provider, id, err)
	}
	if err := os.Remove(paths.LibraryFile(o.st.OutputDir, provider, id)); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove mirror for %s/%s: %v", provider, id, err)
	}
	return o.st.Save()
}

// ForceRefresh re-enables a novel the remote once reported removed or
// completed and runs a forced update attempt for just that item.
func (o *Orchestrator) ForceRefresh(provider, id string) error {
	o.stateMu.Lock()
	n := o.st.Find(provider, id)
	if n == nil {
		o.stateMu.Unlock()
		return fmt.Errorf("novel %s/%s is not tracked", provider, id)
	}
	n.RemovedAt = 0
	n.CompletedAt = 0
	n.FailedAt = 0
	o.engine.UpdateItem(n, true)
	err := o.st.Save()
	o.stateMu.Unlock()
	if err != nil {
		return err
	}

	o.RunSyncAll()
	return nil
}

// Status is a point-in-time summary for the control API.
type Status struct {
	Novels        int   `json:"novels"`
	UpdateRunning bool  `json:"updateRunning"`
	SyncRunning   bool  `json:"syncRunning"`
	UpdatedAt     int64 `json:"updatedAt"`
	SyncedAt      int64 `json:"syncedAt"`
}

func (o *Orchestrator) Status() Status {
	o.stateMu.Lock()
	s := Status{
		Novels:    len(o.st.Novels),
		UpdatedAt: o.st.UpdatedAt,
		SyncedAt:  o.st.SyncedAt,
	}
	o.stateMu.Unlock()

	o.mu.Lock()
	s.UpdateRunning = o.updatePhase != phaseIdle
	s.SyncRunning = o.syncPhase != phaseIdle
	o.mu.Unlock()
	return s
}

// Snapshot returns a deep-enough copy of the tracked novels for read-only
// API responses.
func (o *Orchestrator) Snapshot() []models.Novel {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	novels := make([]models.Novel, 0, len(o.st.Novels))
	for _, n := range o.st.Novels {
		novels = append(novels, *n)
	}
	return novels
}

// OutputDir returns the current library root.
func (o *Orchestrator) OutputDir() string {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.st.OutputDir
}
