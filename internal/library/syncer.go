// The sync engine regenerates the user-facing library mirror from the cache
// tree. The mirror is derivative: it can be rebuilt byte-for-byte from the
// cached blobs plus the selected version index, so clearing and rewriting it
// is always safe.
package library

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mirukan/novelkeep/internal/models"
	"github.com/mirukan/novelkeep/internal/paths"
	"github.com/mirukan/novelkeep/internal/util"
)

const missingChapterPlaceholder = "FILE NOT FOUND"

type Syncer struct {
	now func() int64
}

func NewSyncer() *Syncer {
	return &Syncer{
		now: func() int64 { return time.Now().UnixMilli() },
	}
}

func formatTime(ms int64) string {
	if ms == 0 {
		return "Unknown"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}

// SyncItem regenerates one novel's mirror document under outputDir and
// reports whether anything was written. It is idempotent: with no update in
// between, a second call is a no-op.
func (s *Syncer) SyncItem(n *models.Novel, outputDir string) bool {
	current := n.CurrentVersion()
	if current == nil {
		// Still initializing, nothing to mirror yet.
		return false
	}

	libPath := paths.LibraryFile(outputDir, n.Provider, n.ID)
	if n.UpdatedAt <= n.SyncedAt && util.FileExists(libPath) {
		return false
	}

	var meta models.NovelMetadata
	if err := util.ReadJSON(current.Path, &meta); err != nil {
		// Soft failure: without the cached metadata there is nothing to
		// render, but the item stays eligible for the next pass.
		log.Printf("Sync error: %v", err)
		return false
	}

	var doc strings.Builder
	doc.WriteString(fmt.Sprintf("URL=%s\n", n.URL))
	doc.WriteString(fmt.Sprintf("TITLE=%s\n", meta.Title))
	doc.WriteString(fmt.Sprintf("AUTHOR=%s\n", meta.Author))
	doc.WriteString(fmt.Sprintf("IS_COMPLETED=%s\n", completedLabel(meta.OnGoing)))
	doc.WriteString(fmt.Sprintf("NUMBER_OF_CHAPTERS=%d\n", len(meta.ChapterIDs)))
	doc.WriteString(fmt.Sprintf("CREATED_AT=%s\n", formatTime(meta.CreatedAt)))
	doc.WriteString(fmt.Sprintf("UPDATED_AT=%s\n", formatTime(meta.UpdatedAt)))
	doc.WriteString(fmt.Sprintf("OUTLINE=\n%s\n", meta.Synopsis))

	// The metadata's chapter order is authoritative, not download order.
	for i, chapterID := range meta.ChapterIDs {
		doc.WriteString(fmt.Sprintf("\n\n========== %d ==========\n\n", i+1))
		doc.WriteString(s.renderChapter(n, chapterID))
	}

	// Clear prior output, then write the whole artifact.
	os.Remove(libPath)
	if err := util.WriteText(libPath, doc.String()); err != nil {
		log.Printf("Sync error: %v", err)
		return false
	}

	n.SyncedAt = s.now()
	return true
}

func (s *Syncer) renderChapter(n *models.Novel, chapterID string) string {
	chapter := n.FindChapter(chapterID)
	if chapter == nil {
		return missingChapterPlaceholder
	}
	var content models.ChapterContent
	if err := util.ReadJSON(chapter.Path, &content); err != nil {
		return missingChapterPlaceholder
	}
	return fmt.Sprintf("%s\n\n%s", content.Title, content.Content)
}

func completedLabel(onGoing bool) string {
	if onGoing {
		return "No"
	}
	return "Yes"
}
