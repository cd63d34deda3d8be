// Package news provides a client for the Naver news search Open API.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Naver news search API.
	DefaultBaseURL = "https://openapi.naver.com/v1/search/news.json"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// DefaultMaxResults is the default number of items requested per search.
	DefaultMaxResults = 50
)

// Client is a Naver news search API client.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	maxResults   int
	httpClient   *http.Client
	logger       arbor.ILogger
	limiter      *rate.Limiter
}

// Compile-time assertion
var _ interfaces.NewsSearcher = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithMaxResults caps the number of items requested per search (1-100).
func WithMaxResults(n int) ClientOption {
	return func(c *Client) {
		if n > 0 && n <= 100 {
			c.maxResults = n
		}
	}
}

// NewClient creates a new Naver news search client.
func NewClient(clientID, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		maxResults:   DefaultMaxResults,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiResponse is the raw Naver search response.
type apiResponse struct {
	Total int       `json:"total"`
	Items []apiItem `json:"items"`
}

type apiItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// SearchNews runs one news search and returns the outcome as data. Items are
// date-sorted by the API, de-duplicated by URL, with HTML markup stripped
// from titles and summaries.
func (c *Client) SearchNews(ctx context.Context, query string) *models.NewsSearchResult {
	raw, err := c.search(ctx, query)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Str("query", query).Msg("News search failed")
		}
		return &models.NewsSearchResult{
			Status:  models.StatusError,
			Query:   query,
			Items:   []models.NewsItem{},
			Message: err.Error(),
		}
	}

	items := make([]models.NewsItem, 0, len(raw.Items))
	seen := make(map[string]struct{})
	for _, it := range raw.Items {
		u := it.Link
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		items = append(items, models.NewsItem{
			ID:          common.URLHash(u),
			Topic:       query,
			Title:       CleanHTML(it.Title),
			Summary:     CleanHTML(it.Description),
			URL:         u,
			PublishedAt: it.PubDate,
			Source:      "NAVER",
		})
	}

	if len(items) == 0 {
		return &models.NewsSearchResult{
			Status:  models.StatusNotFound,
			Query:   query,
			Items:   []models.NewsItem{},
			Message: "no news results found",
		}
	}

	return &models.NewsSearchResult{
		Status: models.StatusSuccess,
		Query:  query,
		Items:  items,
	}
}

func (c *Client) search(ctx context.Context, query string) (*apiResponse, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("naver API credentials are not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{RetryAfter: time.Second}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(c.maxResults))
	params.Set("start", "1")
	params.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	if c.logger != nil {
		c.logger.Debug().Str("query", query).Msg("Naver news API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
