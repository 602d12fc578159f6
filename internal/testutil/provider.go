package testutil

import (
	"sync/atomic"

	"github.com/mirukan/novelkeep/internal/models"
)

// FakeProvider is a scriptable providers.Provider for tests. The call
// counters are atomic so tests can poke at them from multiple goroutines.
type FakeProvider struct {
	ProviderID string

	MetadataFn func(novelID string) (*models.NovelMetadata, error)
	ChapterFn  func(novelID, chapterID string) (*models.ChapterContent, error)

	MetadataCalls atomic.Int64
	ChapterCalls  atomic.Int64
}

func (p *FakeProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{ID: p.ProviderID, Name: p.ProviderID}
}

func (p *FakeProvider) Metadata(novelID string) (*models.NovelMetadata, error) {
	p.MetadataCalls.Add(1)
	return p.MetadataFn(novelID)
}

func (p *FakeProvider) Chapter(novelID, chapterID string) (*models.ChapterContent, error) {
	p.ChapterCalls.Add(1)
	return p.ChapterFn(novelID, chapterID)
}
