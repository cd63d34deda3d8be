package article

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageMetadata holds document-level metadata gathered before body extraction.
type pageMetadata struct {
	canonical   string
	title       string
	publisher   string
	author      string
	publishedAt string
}

// naverArticle holds the parts read from a Naver news page with its fixed
// markup.
type naverArticle struct {
	title       string
	publisher   string
	publishedAt string
	body        string
}

// extractMetadata reads canonical link, JSON-LD and OpenGraph tags.
// JSON-LD wins over OpenGraph, OpenGraph over the document title.
func extractMetadata(doc *goquery.Document) pageMetadata {
	var meta pageMetadata

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		meta.canonical = strings.TrimSpace(href)
	}

	applyJSONLD(doc, &meta)

	if meta.title == "" {
		meta.title = metaContent(doc, `meta[property="og:title"]`)
	}
	if meta.title == "" {
		meta.title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.publisher == "" {
		meta.publisher = metaContent(doc, `meta[property="og:site_name"]`)
	}
	if meta.publishedAt == "" {
		meta.publishedAt = metaContent(doc, `meta[property="article:published_time"]`)
	}
	if meta.author == "" {
		meta.author = metaContent(doc, `meta[name="author"]`)
	}

	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// jsonLDNode is the subset of schema.org article markup we read.
type jsonLDNode struct {
	Type          json.RawMessage `json:"@type"`
	Headline      string          `json:"headline"`
	DatePublished string          `json:"datePublished"`
	Author        json.RawMessage `json:"author"`
	Publisher     struct {
		Name string `json:"name"`
	} `json:"publisher"`
}

func applyJSONLD(doc *goquery.Document, meta *pageMetadata) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		for _, node := range decodeJSONLD(raw) {
			if !isArticleType(node.Type) {
				continue
			}
			meta.title = strings.TrimSpace(node.Headline)
			meta.publishedAt = strings.TrimSpace(node.DatePublished)
			meta.publisher = strings.TrimSpace(node.Publisher.Name)
			meta.author = authorName(node.Author)
			return false
		}
		return true
	})
}

// decodeJSONLD accepts both a single object and an array of objects.
func decodeJSONLD(raw string) []jsonLDNode {
	var one jsonLDNode
	if err := json.Unmarshal([]byte(raw), &one); err == nil {
		return []jsonLDNode{one}
	}
	var many []jsonLDNode
	if err := json.Unmarshal([]byte(raw), &many); err == nil {
		return many
	}
	return nil
}

func isArticleType(raw json.RawMessage) bool {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return articleType(single)
	}
	var multi []string
	if err := json.Unmarshal(raw, &multi); err == nil {
		for _, t := range multi {
			if articleType(t) {
				return true
			}
		}
	}
	return false
}

func articleType(t string) bool {
	switch t {
	case "Article", "NewsArticle", "ReportageNewsArticle":
		return true
	}
	return false
}

// authorName handles the three shapes schema.org author takes in the wild:
// a plain string, an object with a name, or an array of either.
func authorName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return strings.TrimSpace(obj.Name)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return authorName(list[0])
	}
	return ""
}

// parseNaverNews reads the fixed selectors of a Naver news article page.
func parseNaverNews(doc *goquery.Document) naverArticle {
	var out naverArticle

	out.title = strings.TrimSpace(doc.Find("h2#title_area").First().Text())

	content := doc.Find("article#dic_area").First()
	if content.Length() == 0 {
		content = doc.Find("#dic_area").First()
	}
	if content.Length() > 0 {
		content.Find("script, style, .end_photo_org, .vod_player_wrap").Remove()
		out.body = strings.TrimSpace(content.Text())
	}

	if alt, ok := doc.Find(".media_end_head_top_logo img").First().Attr("alt"); ok {
		out.publisher = strings.TrimSpace(alt)
	}
	if stamp, ok := doc.Find("span.media_end_head_info_datestamp_time").First().Attr("data-date-time"); ok {
		out.publishedAt = strings.TrimSpace(stamp)
	}

	return out
}
