// Deterministic path layout for the two on-disk trees: the private cache
// tree under the data directory, and the user-facing library tree under the
// configurable output directory. All functions here are pure; the same
// logical inputs always resolve to the same path, so "file already exists"
// is a reliable dedup signal for both engines.
package paths

import (
	"path/filepath"

	"github.com/mirukan/novelkeep/internal/util"
)

// sentinelChapterID stands in for the empty chapter id that some providers
// report for single-chapter works.
const sentinelChapterID = "0"

type Resolver struct {
	dataDir string
}

func New(dataDir string) *Resolver {
	return &Resolver{dataDir: dataDir}
}

// StoreFile is the location of the persistent store document.
func (r *Resolver) StoreFile() string {
	return filepath.Join(r.dataDir, "store.json")
}

// CacheDir is the cache tree directory for one novel.
func (r *Resolver) CacheDir(provider, id string) string {
	return filepath.Join(r.dataDir, provider, util.SanitizeName(id))
}

// MetadataFile is the cache path of one version's raw metadata blob.
func (r *Resolver) MetadataFile(provider, id, versionID string) string {
	return filepath.Join(r.CacheDir(provider, id), util.SanitizeName(versionID)+".json")
}

// ChapterFile is the cache path of one chapter's raw content blob.
func (r *Resolver) ChapterFile(provider, id, chapterID string) string {
	if chapterID == "" {
		chapterID = sentinelChapterID
	}
	return filepath.Join(r.CacheDir(provider, id), util.SanitizeName(chapterID)+".json")
}

// LibraryDir is the per-provider directory in the library tree.
func LibraryDir(outputDir, provider string) string {
	return filepath.Join(outputDir, provider)
}

// LibraryFile is the mirror artifact for one novel: a single joined text
// document. It is keyed by external id rather than title so the path
// survives title changes between versions.
func LibraryFile(outputDir, provider, id string) string {
	return filepath.Join(outputDir, provider, util.SanitizeName(id)+".txt")
}
