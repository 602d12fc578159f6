// The update engine decides whether a tracked novel is due for a re-check,
// reconciles fetched metadata against the stored version history, and
// downloads missing chapter content into the cache tree. It never touches
// the library mirror; that is the sync engine's job.
package updater

import (
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/mirukan/novelkeep/internal/config"
	"github.com/mirukan/novelkeep/internal/models"
	"github.com/mirukan/novelkeep/internal/paths"
	"github.com/mirukan/novelkeep/internal/providers"
	"github.com/mirukan/novelkeep/internal/util"
)

// Engine holds the dependencies for updating a single novel. The now, sleep
// and rng fields are seams for tests; production code uses the defaults set
// by New.
type Engine struct {
	cfg      *config.Config
	resolver *paths.Resolver

	now   func() int64
	sleep func(time.Duration)
	rng   *rand.Rand
}

func New(cfg *config.Config, resolver *paths.Resolver) *Engine {
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		now:      func() int64 { return time.Now().UnixMilli() },
		sleep:    time.Sleep,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Delay returns a randomized pause between remote requests, used both
// between chapter fetches and between items in a pass. Sequential fetching
// with this jitter is deliberate; parallelizing would change the request
// rate seen by the remote sites.
func (e *Engine) Delay() time.Duration {
	min := e.cfg.FetchDelayMinMs
	max := e.cfg.FetchDelayMaxMs
	if max <= min {
		return time.Duration(min) * time.Millisecond
	}
	return time.Duration(min+e.rng.Intn(max-min)) * time.Millisecond
}

// recheckDelayMs is how long after the last effective update an item stays
// not-due. The fixed jitter margin keeps the due boundary from oscillating
// against the scheduler interval.
func (e *Engine) recheckDelayMs() int64 {
	delay := time.Duration(e.cfg.RecheckDelayHours) * time.Hour
	margin := time.Duration(e.cfg.RecheckJitterMinutes) * time.Minute
	return (delay + margin).Milliseconds()
}

// UpdateItem runs one update attempt for one novel and reports whether any
// version or chapter state changed. Failures are absorbed here: a broken
// item never aborts the caller's pass over the collection.
func (e *Engine) UpdateItem(n *models.Novel, force bool) bool {
	// Guards, each a short-circuit. Removed and completed are terminal
	// until the user re-enables the item with a forced refresh.
	if n.RemovedAt != 0 {
		return false
	}
	if n.CompletedAt != 0 {
		return false
	}
	if !force && n.UpdatedAt+e.recheckDelayMs() > e.now() {
		return false
	}

	// Every attempt starts with a clean error flag.
	n.FailedAt = 0

	provider, ok := providers.Get(n.Provider)
	if !ok {
		log.Printf("Update error: provider '%s' not registered for %s", n.Provider, n.ID)
		n.FailedAt = e.now()
		return false
	}

	meta, err := provider.Metadata(n.ID)
	if err != nil {
		if providers.IsNotFound(err) {
			log.Printf("Novel %s/%s no longer exists on the remote, marking removed", n.Provider, n.ID)
			n.RemovedAt = e.now()
			return false
		}
		log.Printf("Update error: failed to fetch metadata for %s/%s: %v", n.Provider, n.ID, err)
		n.FailedAt = e.now()
		return false
	}

	changed := false

	// The version id is a pure function of the remote's updatedAt, so
	// re-fetching an unchanged work rediscovers the same id and appends
	// nothing.
	versionID := strconv.FormatInt(meta.UpdatedAt, 10)
	if n.FindVersion(versionID) == nil {
		metaPath := e.resolver.MetadataFile(n.Provider, n.ID, versionID)
		// Historical versions are immutable: an existing blob is never
		// overwritten.
		if !util.FileExists(metaPath) {
			if err := util.WriteJSON(metaPath, meta); err != nil {
				log.Printf("Update error: %v", err)
				n.FailedAt = e.now()
				return changed
			}
		}
		n.Versions = append(n.Versions, &models.Version{
			ID:        versionID,
			Title:     meta.Title,
			UpdatedAt: meta.UpdatedAt,
			Path:      metaPath,
		})
		if !meta.OnGoing {
			log.Printf("Novel %s/%s is completed, exempting from future checks", n.Provider, n.ID)
			n.CompletedAt = e.now()
		}
		changed = true
	}

	// Record every new chapter id before downloading anything, so a crash
	// mid-download leaves resumable records instead of silently missing
	// chapters.
	for _, chapterID := range meta.ChapterIDs {
		if n.FindChapter(chapterID) == nil {
			n.Chapters = append(n.Chapters, &models.Chapter{
				ID:   chapterID,
				Path: e.resolver.ChapterFile(n.Provider, n.ID, chapterID),
			})
			changed = true
		}
	}

	// Download whatever is still missing from the cache. One chapter's
	// failure does not abort its siblings.
	for _, chapter := range n.Chapters {
		if chapter.RemovedAt != 0 {
			continue
		}
		if util.FileExists(chapter.Path) {
			continue
		}

		e.sleep(e.Delay())

		content, err := provider.Chapter(n.ID, chapter.ID)
		if err != nil {
			if providers.IsNotFound(err) {
				log.Printf("Chapter %s of %s/%s no longer exists on the remote, marking removed", chapter.ID, n.Provider, n.ID)
				chapter.RemovedAt = e.now()
				changed = true
			} else {
				// Transient: left pending, retried next pass.
				log.Printf("Update error: failed to fetch chapter %s of %s/%s: %v", chapter.ID, n.Provider, n.ID, err)
			}
			continue
		}

		if err := util.WriteJSON(chapter.Path, content); err != nil {
			log.Printf("Update error: %v", err)
			continue
		}
		chapter.FetchedAt = e.now()
		changed = true
	}

	if changed {
		n.UpdatedAt = e.now()
	}
	return changed
}
