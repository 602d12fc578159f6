package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mirukan/novelkeep/internal/models"
	"github.com/mirukan/novelkeep/internal/store"
)

func TestLoadInitializesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	st, err := store.Load(path, "/tmp/library")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st.OutputDir != "/tmp/library" {
		t.Errorf("Expected default output dir, got %q", st.OutputDir)
	}
	if len(st.Novels) != 0 {
		t.Errorf("Expected empty collection, got %d novels", len(st.Novels))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected store file to be written on first load: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	st, err := store.Load(path, "/tmp/library")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	st.Add(&models.Novel{
		URL:          "https://ncode.syosetu.com/n1234ab/",
		Provider:     "narou",
		ID:           "n1234ab",
		VersionIndex: -1,
		Versions: []*models.Version{
			{ID: "1700000000000", Title: "A Title", UpdatedAt: 1700000000000, Path: "/cache/narou/n1234ab/1700000000000.json"},
		},
		Chapters: []*models.Chapter{
			{ID: "1", Path: "/cache/narou/n1234ab/1.json", FetchedAt: 1700000000001},
			{ID: "2", Path: "/cache/narou/n1234ab/2.json"}, // never fetched
		},
		CreatedAt:   1690000000000,
		UpdatedAt:   1700000000002,
		CompletedAt: 0,
		RemovedAt:   0,
	})
	st.UpdatedAt = 1700000000003
	if err := st.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(path, "/elsewhere")
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if loaded.OutputDir != "/tmp/library" {
		t.Errorf("Output dir not preserved, got %q", loaded.OutputDir)
	}
	if loaded.UpdatedAt != 1700000000003 {
		t.Errorf("Global timestamp not preserved: %d", loaded.UpdatedAt)
	}
	if len(loaded.Novels) != 1 {
		t.Fatalf("Expected 1 novel, got %d", len(loaded.Novels))
	}

	n := loaded.Novels[0]
	if n.Provider != "narou" || n.ID != "n1234ab" || n.VersionIndex != -1 {
		t.Errorf("Novel fields not preserved: %+v", n)
	}
	if len(n.Versions) != 1 || n.Versions[0].ID != "1700000000000" {
		t.Errorf("Versions not preserved: %+v", n.Versions)
	}
	if len(n.Chapters) != 2 {
		t.Fatalf("Chapters not preserved: %+v", n.Chapters)
	}
	// Zero/absent distinctions must survive the round trip.
	if n.Chapters[1].FetchedAt != 0 || n.Chapters[1].RemovedAt != 0 {
		t.Errorf("Zero timestamps not preserved: %+v", n.Chapters[1])
	}
	if n.CompletedAt != 0 || n.RemovedAt != 0 {
		t.Errorf("Zero flags not preserved: completedAt=%d removedAt=%d", n.CompletedAt, n.RemovedAt)
	}
}

func TestUnknownKeysPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	doc := `{"novels":[],"outputDir":"/tmp/lib","futureField":{"nested":true},"anotherOne":42}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	st, err := store.Load(path, "/default")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := st.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["futureField"]; !ok {
		t.Error("Unknown key 'futureField' was dropped on save")
	}
	if string(raw["anotherOne"]) != "42" {
		t.Errorf("Unknown key 'anotherOne' corrupted: %s", raw["anotherOne"])
	}
}

func TestMissingFieldsGetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	st, err := store.Load(path, "/default")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st.Novels == nil {
		t.Error("Expected novels to default to an empty slice")
	}
	if st.OutputDir != "/default" {
		t.Errorf("Expected default output dir, got %q", st.OutputDir)
	}
}

func TestFindAddRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	st, err := store.Load(path, "/tmp/lib")
	if err != nil {
		t.Fatal(err)
	}

	st.Add(&models.Novel{Provider: "narou", ID: "n1111aa"})
	st.Add(&models.Novel{Provider: "kakuyomu", ID: "123"})

	if st.Find("narou", "n1111aa") == nil {
		t.Error("Find failed for tracked novel")
	}
	if st.Find("narou", "n9999zz") != nil {
		t.Error("Find returned a novel that is not tracked")
	}

	if !st.Remove("narou", "n1111aa") {
		t.Error("Remove reported nothing removed")
	}
	if st.Remove("narou", "n1111aa") {
		t.Error("Second remove should be a no-op")
	}
	if len(st.Novels) != 1 || st.Novels[0].Provider != "kakuyomu" {
		t.Errorf("Unexpected collection after remove: %+v", st.Novels)
	}
}
