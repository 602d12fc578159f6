package models

// A Novel is one tracked work. All timestamps are epoch milliseconds; zero
// means "never" / "not set". RemovedAt and a chapter's RemovedAt are terminal:
// once set, the item (or chapter) is skipped by future update passes until the
// user explicitly re-enables it via a forced refresh.
type Novel struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
	ID       string `json:"id"`

	// Versions is append-only; insertion order is discovery order.
	Versions []*Version `json:"versions"`
	// VersionIndex selects which version the library mirror is built from.
	// -1 tracks the latest version; any other value pins a historical one
	// and is clamped to the valid range on read.
	VersionIndex int `json:"versionIndex"`

	Chapters []*Chapter `json:"chapters"`

	CreatedAt int64 `json:"createdAt"`
	// UpdatedAt is the time of the last update attempt that changed any
	// version or chapter state. The scheduling guard and the sync guard both
	// key off it.
	UpdatedAt   int64 `json:"updatedAt"`
	SyncedAt    int64 `json:"syncedAt"`
	CompletedAt int64 `json:"completedAt,omitempty"`
	RemovedAt   int64 `json:"removedAt,omitempty"`
	FailedAt    int64 `json:"failedAt,omitempty"`
}

// A Version is one discovered metadata snapshot. Its ID is derived from the
// remote updatedAt value, so rediscovering the same remote state yields the
// same ID. Versions are immutable once appended.
type Version struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updatedAt"`
	Path      string `json:"path"`
}

// A Chapter is the download record for one chapter of a novel. The record is
// created as soon as the chapter id is seen in metadata; the cache file may
// lag behind until a later pass fetches it.
type Chapter struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	FetchedAt int64  `json:"fetchedAt,omitempty"`
	RemovedAt int64  `json:"removedAt,omitempty"`
}

// FindVersion returns the version with the given id, or nil.
func (n *Novel) FindVersion(id string) *Version {
	for _, v := range n.Versions {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// FindChapter returns the chapter record with the given id, or nil.
func (n *Novel) FindChapter(id string) *Chapter {
	for _, c := range n.Chapters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CurrentVersionIndex resolves VersionIndex against the actual history
// length. A negative index means "latest"; stale pinned indexes are clamped
// so a shrunk history can never cause an out-of-range access.
func (n *Novel) CurrentVersionIndex() int {
	if n.VersionIndex < 0 {
		return len(n.Versions) - 1
	}
	if n.VersionIndex > len(n.Versions)-1 {
		return len(n.Versions) - 1
	}
	return n.VersionIndex
}

// CurrentVersion returns the version selected by VersionIndex, or nil when
// the history is still empty.
func (n *Novel) CurrentVersion() *Version {
	i := n.CurrentVersionIndex()
	if i < 0 {
		return nil
	}
	return n.Versions[i]
}
