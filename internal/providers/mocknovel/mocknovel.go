// A mock provider for development and testing purposes. It simulates a
// remote novel site without making network calls.
package mocknovel

import (
	"fmt"
	"time"

	"github.com/mirukan/novelkeep/internal/models"
)

type MocknovelProvider struct{}

func New() *MocknovelProvider {
	return &MocknovelProvider{}
}

func (p *MocknovelProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   "mocknovel",
		Name: "Mocknovel",
	}
}

func (p *MocknovelProvider) Metadata(novelID string) (*models.NovelMetadata, error) {
	chapterIDs := make([]string, 0, 25)
	for i := 1; i <= 25; i++ {
		chapterIDs = append(chapterIDs, fmt.Sprintf("%d", i))
	}
	now := time.Now()
	return &models.NovelMetadata{
		Title:      fmt.Sprintf("Mock Novel %s", novelID),
		Author:     "Mock Author",
		Synopsis:   "A story generated for development runs.",
		OnGoing:    true,
		ChapterIDs: chapterIDs,
		CreatedAt:  now.AddDate(0, -1, 0).UnixMilli(),
		UpdatedAt:  now.Truncate(time.Hour).UnixMilli(),
	}, nil
}

func (p *MocknovelProvider) Chapter(novelID, chapterID string) (*models.ChapterContent, error) {
	return &models.ChapterContent{
		Title:   fmt.Sprintf("Chapter %s: The Mocking", chapterID),
		Content: fmt.Sprintf("Contents of chapter %s of %s.", chapterID, novelID),
	}, nil
}
