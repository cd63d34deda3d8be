package models

// ActionName identifies one of the fixed catalog of collaborator actions.
type ActionName string

const (
	ActionLoadHoldings    ActionName = "load_holdings"
	ActionResolveIdentity ActionName = "resolve_identity"
	ActionSearchNews      ActionName = "search_news"
	ActionExtractURLs     ActionName = "extract_urls"
	ActionFetchArticle    ActionName = "fetch_article"
	ActionFetchFinancials ActionName = "fetch_financials"
	ActionPersistBatch    ActionName = "persist_batch"
)

// Status is the tagged outcome of a collaborator call.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
	StatusSkipped  Status = "skipped"
)

// Action is a single planner decision: one collaborator call with typed
// arguments and an opaque correlation id used only for logging.
type Action struct {
	Name          ActionName `json:"name"`
	CorrelationID string     `json:"correlation_id"`

	// Arguments; which fields are set depends on Name.
	Query      string                   `json:"query,omitempty"`       // resolve_identity, search_news
	URL        string                   `json:"url,omitempty"`         // fetch_article
	UserID     string                   `json:"user_id,omitempty"`     // load_holdings
	CorpCode   string                   `json:"corp_code,omitempty"`   // fetch_financials
	Year       int                      `json:"year,omitempty"`        // fetch_financials
	ReportKind ReportKind               `json:"report_kind,omitempty"` // fetch_financials
	Texts      []string                 `json:"texts,omitempty"`       // persist_batch
	Metadatas  []map[string]interface{} `json:"metadatas,omitempty"`   // persist_batch
}

// NewsSearchResult is the raw outcome of a news search.
type NewsSearchResult struct {
	Status  Status     `json:"status"`
	Query   string     `json:"query"`
	Items   []NewsItem `json:"items"`
	Message string     `json:"message,omitempty"`
}

// ResolveResult is the outcome of an identity resolution for the engine.
// Disambiguation and not-found both surface as non-success here; the
// richer interactive resolution lives in the resolver package.
type ResolveResult struct {
	Status  Status           `json:"status"`
	Company *CompanyIdentity `json:"company,omitempty"`
	Message string           `json:"message,omitempty"`
}

// URLExtractResult is an order-preserving, de-duplicated URL list.
// Always non-nil; empty on malformed input.
type URLExtractResult struct {
	URLs []string `json:"urls"`
}

// ArticleFetchResult is the outcome of one article fetch attempt.
type ArticleFetchResult struct {
	Status  Status  `json:"status"`
	Article Article `json:"article"`
	Error   string  `json:"error,omitempty"`
}

// HoldingsResult is the outcome of a portfolio holdings load.
type HoldingsResult struct {
	Status   Status    `json:"status"`
	UserID   string    `json:"user_id"`
	Holdings []Holding `json:"holdings"`
	Message  string    `json:"message,omitempty"`
}

// PersistResult is the outcome of one knowledge-store batch write.
type PersistResult struct {
	Status     Status `json:"status"`
	SavedCount int    `json:"saved_count"`
	Message    string `json:"message,omitempty"`
}

// ActionResult is the tagged union of collaborator outcomes, one variant per
// action name. Exactly the variant matching Action.Name is set.
type ActionResult struct {
	Action ActionName `json:"action"`

	Holdings   *HoldingsResult   `json:"holdings,omitempty"`
	Resolve    *ResolveResult    `json:"resolve,omitempty"`
	News       *NewsSearchResult `json:"news,omitempty"`
	URLs       *URLExtractResult `json:"urls,omitempty"`
	Article    *ArticleFetchResult `json:"article,omitempty"`
	Financials *FinancialsResult `json:"financials,omitempty"`
	Persist    *PersistResult    `json:"persist,omitempty"`
}
