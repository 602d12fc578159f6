package orchestrator_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mirukan/novelkeep/internal/config"
	"github.com/mirukan/novelkeep/internal/models"
	"github.com/mirukan/novelkeep/internal/orchestrator"
	"github.com/mirukan/novelkeep/internal/paths"
	"github.com/mirukan/novelkeep/internal/providers"
	"github.com/mirukan/novelkeep/internal/store"
	"github.com/mirukan/novelkeep/internal/testutil"
	"github.com/mirukan/novelkeep/internal/util"
)

func setupOrchestrator(t *testing.T, p providers.Provider) (*orchestrator.Orchestrator, *store.Store, *paths.Resolver, *config.Config) {
	t.Helper()
	providers.UnregisterAll()
	if p != nil {
		providers.Register(p)
	}
	cfg := testutil.SetupConfig(t)
	st, resolver := testutil.SetupStore(t, cfg)
	return orchestrator.New(cfg, st, resolver, nil), st, resolver, cfg
}

// seedSyncedNovel adds a novel whose cache already holds a metadata blob and
// one chapter, ready for the sync engine.
func seedSyncedNovel(t *testing.T, st *store.Store, resolver *paths.Resolver, id string) *models.Novel {
	t.Helper()
	metaPath := resolver.MetadataFile("fake", id, "1700000000000")
	err := util.WriteJSON(metaPath, models.NovelMetadata{
		Title:      "Novel " + id,
		OnGoing:    true,
		ChapterIDs: []string{"1"},
		UpdatedAt:  1700000000000,
	})
	if err != nil {
		t.Fatal(err)
	}
	chPath := resolver.ChapterFile("fake", id, "1")
	if err := util.WriteJSON(chPath, models.ChapterContent{Title: "c", Content: "b"}); err != nil {
		t.Fatal(err)
	}

	n := &models.Novel{
		URL:          "https://example.com/fake/" + id,
		Provider:     "fake",
		ID:           id,
		VersionIndex: -1,
		Versions: []*models.Version{
			{ID: "1700000000000", Title: "Novel " + id, UpdatedAt: 1700000000000, Path: metaPath},
		},
		Chapters:  []*models.Chapter{{ID: "1", Path: chPath, FetchedAt: 1700000000001}},
		CreatedAt: 1690000000000,
		UpdatedAt: time.Now().UnixMilli(),
	}
	st.Add(n)
	return n
}

func TestConcurrentTriggersCoalesce(t *testing.T) {
	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	p := &testutil.FakeProvider{
		ProviderID: "fake",
		MetadataFn: func(novelID string) (*models.NovelMetadata, error) {
			entered <- struct{}{}
			<-release
			return nil, providers.NewFetchError("metadata", fmt.Errorf("scripted failure"))
		},
		ChapterFn: func(novelID, chapterID string) (*models.ChapterContent, error) {
			return nil, nil
		},
	}
	orch, st, _, _ := setupOrchestrator(t, p)
	st.Add(&models.Novel{Provider: "fake", ID: "n1", VersionIndex: -1,
		Versions: []*models.Version{}, Chapters: []*models.Chapter{}})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		orch.RunUpdateAll(true)
	}()

	// Wait until the first pass is mid-item, then trigger a burst. All of
	// these fold into one pending rerun.
	<-entered
	orch.RunUpdateAll(true)
	orch.RunUpdateAll(true)
	orch.RunUpdateAll(true)
	close(release)
	wg.Wait()

	// One original pass plus exactly one coalesced rerun.
	if got := p.MetadataCalls.Load(); got != 2 {
		t.Errorf("Expected exactly 2 passes (2 metadata calls), got %d", got)
	}
}

func TestAddSourcesSuppressesDuplicates(t *testing.T) {
	orch, st, _, _ := setupOrchestrator(t, nil)

	sources := []models.Source{
		{Provider: "narou", ID: "n1234ab", URL: "https://ncode.syosetu.com/n1234ab/"},
		{Provider: "narou", ID: "n1234ab", URL: "https://ncode.syosetu.com/N1234AB/?p=2"},
		{Provider: "kakuyomu", ID: "42", URL: "https://kakuyomu.jp/works/42"},
	}
	if added := orch.AddSources(sources); added != 2 {
		t.Errorf("Expected 2 added, got %d", added)
	}
	// The same feed again adds nothing.
	if added := orch.AddSources(sources); added != 0 {
		t.Errorf("Expected 0 added on repeat, got %d", added)
	}
	if len(st.Novels) != 2 {
		t.Errorf("Expected 2 tracked novels, got %d", len(st.Novels))
	}
	if n := st.Find("narou", "n1234ab"); n == nil || n.VersionIndex != -1 || n.CreatedAt == 0 {
		t.Errorf("New novel not initialized correctly: %+v", n)
	}
}

func TestSetOutputDirResetsSyncTimestamps(t *testing.T) {
	orch, st, resolver, _ := setupOrchestrator(t, nil)
	a := seedSyncedNovel(t, st, resolver, "n1")
	b := seedSyncedNovel(t, st, resolver, "n2")

	orch.RunSyncAll()
	if a.SyncedAt == 0 || b.SyncedAt == 0 {
		t.Fatal("Initial sync did not run")
	}

	newDir := filepath.Join(t.TempDir(), "moved-library")
	if err := orch.SetOutputDir(newDir); err != nil {
		t.Fatalf("SetOutputDir failed: %v", err)
	}
	if a.SyncedAt != 0 || b.SyncedAt != 0 {
		t.Error("syncedAt not reset for all items")
	}
	if st.OutputDir != newDir {
		t.Errorf("Output dir not updated: %q", st.OutputDir)
	}

	// The next sync pass regenerates every mirror under the new root.
	orch.RunSyncAll()
	for _, id := range []string{"n1", "n2"} {
		if !util.FileExists(paths.LibraryFile(newDir, "fake", id)) {
			t.Errorf("Mirror for %s not regenerated under new root", id)
		}
	}
}

func TestSelectVersion(t *testing.T) {
	orch, st, resolver, _ := setupOrchestrator(t, nil)
	n := seedSyncedNovel(t, st, resolver, "n1")
	n.SyncedAt = time.Now().UnixMilli()

	if err := orch.SelectVersion("fake", "n1", 5); err == nil {
		t.Error("Expected out-of-range index to be rejected")
	}
	if err := orch.SelectVersion("fake", "n1", 0); err != nil {
		t.Fatalf("SelectVersion failed: %v", err)
	}
	if n.VersionIndex != 0 {
		t.Errorf("Version index not set: %d", n.VersionIndex)
	}
	if n.SyncedAt != 0 {
		t.Error("syncedAt not reset after pinning a version")
	}
	if err := orch.SelectVersion("fake", "missing", -1); err == nil {
		t.Error("Expected unknown novel to be rejected")
	}
}

func TestRemoveNovelDeletesArtifacts(t *testing.T) {
	orch, st, resolver, _ := setupOrchestrator(t, nil)
	seedSyncedNovel(t, st, resolver, "n1")
	orch.RunSyncAll()

	cacheDir := resolver.CacheDir("fake", "n1")
	mirror := paths.LibraryFile(st.OutputDir, "fake", "n1")
	if !util.FileExists(mirror) {
		t.Fatal("Mirror expected before removal")
	}

	if err := orch.RemoveNovel("fake", "n1"); err != nil {
		t.Fatalf("RemoveNovel failed: %v", err)
	}
	if len(st.Novels) != 0 {
		t.Error("Novel not spliced out of the collection")
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("Cache directory not deleted")
	}
	if util.FileExists(mirror) {
		t.Error("Mirror file not deleted")
	}

	if err := orch.RemoveNovel("fake", "n1"); err == nil {
		t.Error("Removing an untracked novel should fail")
	}
}

func TestForceRefreshReenablesItem(t *testing.T) {
	p := &testutil.FakeProvider{
		ProviderID: "fake",
		MetadataFn: func(novelID string) (*models.NovelMetadata, error) {
			return &models.NovelMetadata{
				Title:      "Back Again",
				OnGoing:    true,
				ChapterIDs: []string{"1"},
				UpdatedAt:  1700000000000,
			}, nil
		},
		ChapterFn: func(novelID, chapterID string) (*models.ChapterContent, error) {
			return &models.ChapterContent{Title: "c", Content: "b"}, nil
		},
	}
	orch, st, _, _ := setupOrchestrator(t, p)
	st.Add(&models.Novel{
		Provider: "fake", ID: "n1", VersionIndex: -1,
		Versions: []*models.Version{}, Chapters: []*models.Chapter{},
		RemovedAt: time.Now().UnixMilli(),
	})

	if err := orch.ForceRefresh("fake", "n1"); err != nil {
		t.Fatalf("ForceRefresh failed: %v", err)
	}
	n := st.Find("fake", "n1")
	if n.RemovedAt != 0 {
		t.Error("removedAt not cleared by force refresh")
	}
	if len(n.Versions) != 1 {
		t.Error("Forced update did not run")
	}
}

func TestStatusReflectsCollection(t *testing.T) {
	orch, st, resolver, _ := setupOrchestrator(t, nil)
	seedSyncedNovel(t, st, resolver, "n1")

	status := orch.Status()
	if status.Novels != 1 {
		t.Errorf("Expected 1 novel in status, got %d", status.Novels)
	}
	if status.UpdateRunning || status.SyncRunning {
		t.Error("No pass should be running")
	}
}
