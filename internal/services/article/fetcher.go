// Package article retrieves news article pages and extracts their body and
// metadata. Naver news pages use known selectors; anything else goes through
// readability-based main-content extraction with a markdown-converted body.
package article

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

const (
	// DefaultTimeout is the default HTTP timeout for article fetches.
	DefaultTimeout = 20 * time.Second

	// DefaultMinBodyLength is the minimum extracted body length (in runes)
	// for a fetch to count as a success.
	DefaultMinBodyLength = 200

	// DefaultUserAgent identifies the collector to article hosts.
	DefaultUserAgent = "Mozilla/5.0 (compatible; colligo/1.0)"

	// maxBodySize caps the response body read per fetch.
	maxBodySize = 4 * 1024 * 1024
)

// Fetcher retrieves and extracts one article per call.
type Fetcher struct {
	httpClient    *http.Client
	minBodyLength int
	userAgent     string
	converter     *md.Converter
	logger        arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ArticleFetcher = (*Fetcher)(nil)

// FetcherOption configures the Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = httpClient
	}
}

// WithMinBodyLength sets the success threshold for extracted bodies.
func WithMinBodyLength(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.minBodyLength = n
		}
	}
}

// WithUserAgent sets the request user agent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates an article fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		minBodyLength: DefaultMinBodyLength,
		userAgent:     DefaultUserAgent,
		converter:     md.NewConverter("", true, nil),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchArticle retrieves one article and extracts body and metadata. The
// outcome is always data: network failures, parse failures and bodies below
// the minimum length all come back as error-status results.
func (f *Fetcher) FetchArticle(ctx context.Context, rawURL string) *models.ArticleFetchResult {
	collectedAt := time.Now()

	fail := func(detail string) *models.ArticleFetchResult {
		if f.logger != nil {
			f.logger.Warn().Str("url", rawURL).Str("error", detail).Msg("Article fetch failed")
		}
		return &models.ArticleFetchResult{
			Status:  models.StatusError,
			Article: models.Article{URL: rawURL, CollectedAt: collectedAt},
			Error:   detail,
		}
	}

	body, err := f.get(ctx, rawURL)
	if err != nil {
		return fail(err.Error())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Sprintf("failed to parse HTML: %v", err))
	}

	meta := extractMetadata(doc)

	article := models.Article{
		URL:          rawURL,
		CanonicalURL: meta.canonical,
		Title:        meta.title,
		Publisher:    meta.publisher,
		Author:       meta.author,
		PublishedAt:  meta.publishedAt,
		CollectedAt:  collectedAt,
	}

	if isNaverNews(rawURL) {
		naver := parseNaverNews(doc)
		if naver.title != "" {
			article.Title = naver.title
		}
		if naver.publisher != "" {
			article.Publisher = naver.publisher
		}
		if naver.publishedAt != "" {
			article.PublishedAt = naver.publishedAt
		}
		article.Body = cleanText(naver.body)
	} else {
		article.Body = cleanText(f.extractMainContent(body, rawURL, &article))
	}

	if utf8.RuneCountInString(article.Body) < f.minBodyLength {
		return &models.ArticleFetchResult{
			Status:  models.StatusError,
			Article: models.Article{URL: rawURL, CollectedAt: collectedAt},
			Error:   "extracted_body_too_short_or_empty",
		}
	}

	return &models.ArticleFetchResult{
		Status:  models.StatusSuccess,
		Article: article,
	}
}

// extractMainContent runs readability over the page and converts the main
// content to markdown, falling back to the plain text extraction when the
// conversion yields nothing.
func (f *Fetcher) extractMainContent(body []byte, rawURL string, article *models.Article) string {
	pageURL, _ := url.Parse(rawURL)
	parsed, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}

	if article.Title == "" {
		article.Title = parsed.Title
	}
	if article.Publisher == "" {
		article.Publisher = parsed.SiteName
	}
	if article.Author == "" {
		article.Author = parsed.Byline
	}
	if article.PublishedAt == "" && parsed.PublishedTime != nil {
		article.PublishedAt = parsed.PublishedTime.Format(time.RFC3339)
	}

	if markdown, err := f.converter.ConvertString(parsed.Content); err == nil {
		if strings.TrimSpace(markdown) != "" {
			return markdown
		}
	}
	return parsed.TextContent
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article host returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func isNaverNews(rawURL string) bool {
	return strings.Contains(rawURL, "news.naver.com")
}

var blankLines = regexp.MustCompile(`\n{3,}`)

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	return blankLines.ReplaceAllString(s, "\n\n")
}
