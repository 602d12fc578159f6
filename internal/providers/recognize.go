package providers

import (
	"regexp"
	"strings"

	"github.com/mirukan/novelkeep/internal/models"
)

// urlPattern ties a provider id to the URL shape of a work on that site.
// The capture groups form the external id. Query strings and fragments fall
// outside the match, so sharing links with tracking noise still resolve to
// the same work.
type urlPattern struct {
	provider string
	re       *regexp.Regexp
}

var urlPatterns = []urlPattern{
	{"narou", regexp.MustCompile(`https?://(?:ncode|novel18)\.syosetu\.com/([nN][0-9]{4}[a-zA-Z]{1,2})`)},
	{"kakuyomu", regexp.MustCompile(`https?://kakuyomu\.jp/works/([0-9]+)`)},
	{"alphapolis", regexp.MustCompile(`https?://www\.alphapolis\.co\.jp/novel/([0-9]+)/([0-9]+)`)},
	{"hameln", regexp.MustCompile(`https?://syosetu\.org/novel/([0-9]+)`)},
}

// ProviderName returns the human-readable site name for a provider id.
func ProviderName(id string) string {
	switch id {
	case "narou":
		return "小説家になろう"
	case "kakuyomu":
		return "カクヨム"
	case "alphapolis":
		return "アルファポリス"
	case "hameln":
		return "ハーメルン"
	}
	return id
}

// Recognize scans arbitrary text (typically clipboard contents) for known
// novel URLs and returns their normalized sources. Ids are lowercased so
// differently cased links to the same work compare equal, and duplicates
// within one text yield a single source.
func Recognize(text string) []models.Source {
	var sources []models.Source
	seen := make(map[string]bool)

	for _, p := range urlPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			id := strings.ToLower(strings.Join(m[1:], "-"))
			key := p.provider + ":" + id
			if seen[key] {
				continue
			}
			seen[key] = true
			sources = append(sources, models.Source{
				Provider: p.provider,
				ID:       id,
				URL:      m[0],
			})
		}
	}

	return sources
}
