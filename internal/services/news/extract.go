package news

import (
	"html"
	"regexp"
	"strings"

	"github.com/ternarybob/colligo/internal/models"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanHTML unescapes HTML entities and strips markup tags. Naver returns
// titles and summaries with <b> highlighting around matched terms.
func CleanHTML(s string) string {
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractURLs pulls the ordered, de-duplicated list of article URLs out of
// a raw news search result. Malformed or empty input yields an empty list,
// never nil. Trailing punctuation that commonly rides along in pasted links
// is trimmed.
func ExtractURLs(raw *models.NewsSearchResult) []string {
	urls := []string{}
	if raw == nil {
		return urls
	}

	seen := make(map[string]struct{})
	for _, item := range raw.Items {
		u := strings.TrimRight(strings.TrimSpace(item.URL), ").,]")
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	return urls
}
