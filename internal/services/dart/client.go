// Package dart talks to the DART open-disclosure API: periodic financial
// statements and the listed-company registry.
package dart

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
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the DART open API base URL.
	DefaultBaseURL = "https://opendart.fss.or.kr/api"

	// DefaultTimeout is the default HTTP timeout for statement requests.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default requests-per-second limit.
	DefaultRateLimit = 10

	// statusOK is the DART response status for a successful call.
	statusOK = "000"

	// statusNoData is the DART response status when no statement exists for
	// the requested period.
	statusNoData = "013"
)

// Client is a DART API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// Compile-time assertion
var _ interfaces.DisclosureService = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a DART API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// statementResponse is the fnlttSinglAcnt payload.
type statementResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	List    []models.AccountRow `json:"list"`
}

// GetFinancialStatement fetches the single-account statement for one company
// and period and normalizes its headline figures. Consolidated (CFS) rows are
// preferred over separate (OFS) rows when both are present. Failures come
// back as error-status results, never as Go errors.
func (c *Client) GetFinancialStatement(ctx context.Context, corpCode string, year int, kind models.ReportKind) *models.FinancialsResult {
	fail := func(detail string) *models.FinancialsResult {
		if c.logger != nil {
			c.logger.Warn().
				Str("corp_code", corpCode).
				Int("year", year).
				Str("report_kind", string(kind)).
				Str("error", detail).
				Msg("Financial statement fetch failed")
		}
		return &models.FinancialsResult{
			Status:     models.StatusError,
			CorpCode:   corpCode,
			Year:       year,
			ReportKind: kind,
			Message:    detail,
		}
	}

	reprtCode, ok := models.ReprtCodes[kind]
	if !ok {
		return fail(fmt.Sprintf("unknown report kind %q", kind))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(err.Error())
	}

	params := url.Values{}
	params.Set("crtfc_key", c.apiKey)
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", reprtCode)

	requestURL := fmt.Sprintf("%s/fnlttSinglAcnt.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fail(fmt.Sprintf("failed to create request: %v", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Sprintf("failed to execute request: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Sprintf("disclosure API returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Sprintf("failed to read response: %v", err))
	}

	var payload statementResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return fail(fmt.Sprintf("failed to parse response: %v", err))
	}

	switch payload.Status {
	case statusOK:
	case statusNoData:
		return fail(fmt.Sprintf("no statement for %d/%s", year, kind))
	default:
		return fail(fmt.Sprintf("disclosure API status %s: %s", payload.Status, payload.Message))
	}

	rows := preferConsolidated(payload.List)

	if c.logger != nil {
		c.logger.Debug().
			Str("corp_code", corpCode).
			Int("year", year).
			Str("report_kind", string(kind)).
			Int("rows", len(rows)).
			Msg("Financial statement fetched")
	}

	return &models.FinancialsResult{
		Status:      models.StatusSuccess,
		CorpCode:    corpCode,
		Year:        year,
		ReportKind:  kind,
		KeyAccounts: models.NormalizeKeyAccounts(rows),
		RawCount:    len(payload.List),
	}
}

// preferConsolidated keeps only CFS rows when any exist, otherwise returns
// the rows unchanged.
func preferConsolidated(rows []models.AccountRow) []models.AccountRow {
	var cfs []models.AccountRow
	for _, r := range rows {
		if r.FsDiv == "CFS" {
			cfs = append(cfs, r)
		}
	}
	if len(cfs) > 0 {
		return cfs
	}
	return rows
}
