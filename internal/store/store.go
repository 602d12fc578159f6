// The persistent store is a single JSON document holding every tracked novel
// and the global timestamps. It is the single source of truth; both engines
// mutate the in-memory object and the orchestrator persists it after every
// item so a crash loses at most one item's progress.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mirukan/novelkeep/internal/models"
)

// Store is the root persisted object. Unknown top-level keys found in the
// document are preserved across save so older builds' data survives schema
// evolution in both directions.
type Store struct {
	Novels    []*models.Novel `json:"novels"`
	OutputDir string          `json:"outputDir"`
	UpdatedAt int64           `json:"updatedAt"`
	SyncedAt  int64           `json:"syncedAt"`

	path  string
	extra map[string]json.RawMessage
}

var knownKeys = map[string]bool{
	"novels":    true,
	"outputDir": true,
	"updatedAt": true,
	"syncedAt":  true,
}

// Load reads the store document at path, or initializes and writes defaults
// when it does not exist yet. defaultOutputDir is only used on first run.
func Load(path, defaultOutputDir string) (*Store, error) {
	s := &Store{
		Novels:    []*models.Novel{},
		OutputDir: defaultOutputDir,
		path:      path,
		extra:     make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse store: %w", err)
	}
	if v, ok := raw["novels"]; ok {
		if err := json.Unmarshal(v, &s.Novels); err != nil {
			return nil, fmt.Errorf("failed to parse novels: %w", err)
		}
	}
	if v, ok := raw["outputDir"]; ok {
		json.Unmarshal(v, &s.OutputDir)
	}
	if v, ok := raw["updatedAt"]; ok {
		json.Unmarshal(v, &s.UpdatedAt)
	}
	if v, ok := raw["syncedAt"]; ok {
		json.Unmarshal(v, &s.SyncedAt)
	}
	for k, v := range raw {
		if !knownKeys[k] {
			s.extra[k] = v
		}
	}

	// Repair fields a hand-edited or truncated document may have lost.
	if s.Novels == nil {
		s.Novels = []*models.Novel{}
	}
	if s.OutputDir == "" {
		s.OutputDir = defaultOutputDir
	}
	for _, n := range s.Novels {
		if n.Versions == nil {
			n.Versions = []*models.Version{}
		}
		if n.Chapters == nil {
			n.Chapters = []*models.Chapter{}
		}
	}

	return s, nil
}

// Save writes the full document atomically: the new content goes to a
// temporary file in the same directory, which then replaces the old one.
func (s *Store) Save() error {
	doc := make(map[string]json.RawMessage, len(s.extra)+4)
	for k, v := range s.extra {
		doc[k] = v
	}
	var err error
	if doc["novels"], err = json.Marshal(s.Novels); err != nil {
		return fmt.Errorf("failed to marshal novels: %w", err)
	}
	if doc["outputDir"], err = json.Marshal(s.OutputDir); err != nil {
		return err
	}
	if doc["updatedAt"], err = json.Marshal(s.UpdatedAt); err != nil {
		return err
	}
	if doc["syncedAt"], err = json.Marshal(s.SyncedAt); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

// Find returns the tracked novel with the given provider and id, or nil.
func (s *Store) Find(provider, id string) *models.Novel {
	for _, n := range s.Novels {
		if n.Provider == provider && n.ID == id {
			return n
		}
	}
	return nil
}

// Add appends a novel to the collection. Duplicate suppression is the
// caller's responsibility (see orchestrator.AddSources).
func (s *Store) Add(n *models.Novel) {
	s.Novels = append(s.Novels, n)
}

// Remove splices the novel with the given provider and id out of the
// collection and reports whether anything was removed.
func (s *Store) Remove(provider, id string) bool {
	for i, n := range s.Novels {
		if n.Provider == provider && n.ID == id {
			s.Novels = append(s.Novels[:i], s.Novels[i+1:]...)
			return true
		}
	}
	return false
}
