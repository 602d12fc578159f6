package providers

import (
	"fmt"

	"github.com/mirukan/novelkeep/internal/models"
)

// Provider defines the contract every content source connector must
// implement. Implementations fail with ErrNotFound when the remote reports
// the content gone, and with *FetchError for anything transient.
type Provider interface {
	Info() models.ProviderInfo
	Metadata(novelID string) (*models.NovelMetadata, error)
	Chapter(novelID, chapterID string) (*models.ChapterContent, error)
}

var registry = make(map[string]Provider)

// Register adds a new provider to the registry. It's called at startup.
func Register(p Provider) {
	info := p.Info()
	if _, exists := registry[info.ID]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("provider with ID '%s' is already registered", info.ID))
	}
	registry[info.ID] = p
}

// Get returns a provider by its ID.
func Get(id string) (Provider, bool) {
	p, ok := registry[id]
	return p, ok
}

// All returns information for all registered providers.
func All() []models.ProviderInfo {
	var infos []models.ProviderInfo
	for _, p := range registry {
		infos = append(infos, p.Info())
	}
	return infos
}

// UnregisterAll clears the registry. Only used by tests.
func UnregisterAll() {
	registry = make(map[string]Provider)
}
