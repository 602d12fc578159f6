package models

// ProviderInfo contains static information about a content provider.
type ProviderInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NovelMetadata is the metadata snapshot a provider returns for a work.
// ChapterIDs is the authoritative chapter ordering; the library mirror is
// rendered in this order, not in download order.
type NovelMetadata struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Synopsis   string   `json:"synopsis"`
	OnGoing    bool     `json:"onGoing"`
	ChapterIDs []string `json:"chapterIds"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
}

// ChapterContent is the downloadable body of a single chapter.
type ChapterContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// A Source is a recognized novel reference extracted from arbitrary text,
// e.g. clipboard contents. Provider and ID are normalized so the same work
// referenced twice always yields the same pair.
type Source struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	URL      string `json:"url"`
}
