package models

import (
	"time"
)

// Phase is a coarse marker of the last completed pipeline step.
// Diagnostic only; the planner never branches on it.
type Phase string

const (
	PhaseStart               Phase = "start"
	PhaseResolved            Phase = "resolved"
	PhaseFailed              Phase = "failed"
	PhaseNewsFetched         Phase = "news_fetched"
	PhaseNewsNotFound        Phase = "news_not_found"
	PhaseURLsExtracted       Phase = "urls_extracted"
	PhaseArticleFetched      Phase = "article_fetched"
	PhaseArticleFetchError   Phase = "article_fetch_error"
	PhaseFinancialsDone      Phase = "financials_done"
	PhaseKBSaved             Phase = "kb_saved"
	PhasePortfolioLoaded     Phase = "portfolio_loaded"
	PhasePortfolioLoadFailed Phase = "portfolio_load_failed"
	PhasePortfolioNext       Phase = "portfolio_next"
	PhaseAborted             Phase = "aborted"
)

// CompanyIdentity is a resolved canonical company reference.
// Immutable once produced by the resolver for a given company scope.
type CompanyIdentity struct {
	DisplayName string `json:"display_name"`
	StockCode   string `json:"stock_code,omitempty"` // 6-digit KRX ticker, empty if unlisted
	CorpCode    string `json:"corp_code,omitempty"`  // 8-digit DART disclosure id, empty if unknown
	Status      string `json:"status,omitempty"`
}

// NewsItem is a normalized news search hit.
type NewsItem struct {
	ID          string `json:"id"` // SHA-256 of URL
	Topic       string `json:"topic,omitempty"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Article is a fetched article body with extracted metadata.
type Article struct {
	URL          string    `json:"url"`
	CanonicalURL string    `json:"canonical_url,omitempty"`
	Title        string    `json:"title,omitempty"`
	Body         string    `json:"body"`
	Publisher    string    `json:"publisher,omitempty"`
	Author       string    `json:"author,omitempty"`
	PublishedAt  string    `json:"published_at,omitempty"`
	CollectedAt  time.Time `json:"collected_at"`
}

// ErrorEntry records one failed collaborator call. Append-only within a request.
type ErrorEntry struct {
	Action ActionName `json:"action"`
	Detail string     `json:"detail"`
}

// Holding is one entry in a user's portfolio.
type Holding struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	TickerHint  string `json:"ticker_hint,omitempty" yaml:"ticker_hint,omitempty"`
	StockID     string `json:"stock_id,omitempty" yaml:"stock_id,omitempty"`
}

// ResolveInput returns the free-text query to resolve this holding with:
// ticker hint first, then name, then the raw stock id.
func (h Holding) ResolveInput() string {
	if h.TickerHint != "" {
		return h.TickerHint
	}
	if h.DisplayName != "" {
		return h.DisplayName
	}
	return h.StockID
}

// HoldingResult is the per-holding snapshot taken when a holding's
// collection is judged complete.
type HoldingResult struct {
	Company    *CompanyIdentity  `json:"company"`
	News       []NewsItem        `json:"news"`
	Articles   []Article         `json:"articles"`
	Financials *FinancialsResult `json:"financials,omitempty"`
}

// ResearchDocument is the shared mutable per-request state. It is owned
// exclusively by the planner/accumulator pair for the duration of one request;
// all fields get their defaults once at creation, never re-defaulted later.
type ResearchDocument struct {
	Phase   Phase            `json:"phase"`
	Query   string           `json:"query"`
	UserID  string           `json:"user_id,omitempty"`
	Company *CompanyIdentity `json:"company,omitempty"`

	NewsRaw           *NewsSearchResult `json:"news_raw,omitempty"`
	News              []NewsItem        `json:"news,omitempty"`
	URLs              []string          `json:"urls,omitempty"` // nil = not yet extracted; empty = extracted none
	Articles          []Article         `json:"articles"`
	FetchArticleIndex int               `json:"fetch_article_index"`
	Financials        *FinancialsResult `json:"financials,omitempty"`

	Errors        []ErrorEntry `json:"errors"`
	ArticleErrors []ErrorEntry `json:"article_errors"`

	KBSaveQueue []KnowledgeDocument `json:"kb_save_queue"`
	KBSaved     []PersistResult     `json:"kb_saved"`

	LoopCount int `json:"loop_count"`

	// Request intent, fixed at creation.
	PortfolioMode     bool `json:"portfolio_mode"`
	FinancialInterest bool `json:"financial_interest"`

	// Portfolio iteration state (portfolio mode only).
	PortfolioLoaded bool            `json:"portfolio_loaded,omitempty"`
	Holdings        []Holding       `json:"holdings,omitempty"`
	HoldingIndex    int             `json:"holding_index,omitempty"`
	HoldingResults  []HoldingResult `json:"holding_results,omitempty"`
}

// NewResearchDocument creates an empty document with all defaults applied.
func NewResearchDocument(query, userID string) *ResearchDocument {
	return &ResearchDocument{
		Phase:          PhaseStart,
		Query:          query,
		UserID:         userID,
		Articles:       []Article{},
		Errors:         []ErrorEntry{},
		ArticleErrors:  []ErrorEntry{},
		KBSaveQueue:    []KnowledgeDocument{},
		KBSaved:        []PersistResult{},
		HoldingResults: []HoldingResult{},
	}
}

// ResetCompanyScope clears all per-company fields so the single-company flow
// restarts cleanly for the next holding.
func (d *ResearchDocument) ResetCompanyScope() {
	d.Company = nil
	d.NewsRaw = nil
	d.News = nil
	d.URLs = nil
	d.Articles = []Article{}
	d.Financials = nil
	d.FetchArticleIndex = 0
}

// FinancialsConcluded reports whether a financial-statement attempt has
// finished for the current company scope (success, error, or explicit skip).
func (d *ResearchDocument) FinancialsConcluded() bool {
	return d.Financials != nil
}
