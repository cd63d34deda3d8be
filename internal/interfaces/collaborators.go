// Package interfaces defines the narrow contracts between the research
// engine and its external collaborators. Every collaborator outcome is
// represented as data; no error crosses the planner/accumulator boundary.
package interfaces

import (
	"context"

	"github.com/ternarybob/colligo/internal/models"
)

// NewsSearcher searches recent news for a free-text query.
type NewsSearcher interface {
	SearchNews(ctx context.Context, query string) *models.NewsSearchResult
}

// ArticleFetcher retrieves and extracts one article body. Bodies below the
// configured minimum length are reported as errors, not successes.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) *models.ArticleFetchResult
}

// DisclosureService fetches one periodic financial statement by disclosure id.
type DisclosureService interface {
	GetFinancialStatement(ctx context.Context, corpCode string, year int, kind models.ReportKind) *models.FinancialsResult
}

// PortfolioSource loads a user's portfolio holdings.
type PortfolioSource interface {
	GetHoldings(ctx context.Context, userID string) *models.HoldingsResult
}

// KnowledgeStore persists a batch of knowledge documents. Metadata values
// must be non-null; the caller filters them before the call.
type KnowledgeStore interface {
	PersistDocuments(ctx context.Context, texts []string, metadatas []map[string]interface{}) *models.PersistResult
}

// IdentityResolver maps a free-text company reference to a canonical
// identity for the engine. Disambiguation and not-found both surface as
// non-success results here; interactive disambiguation is the resolver
// package's own richer API.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, query string) *models.ResolveResult
}

// IntentClassifier decides whether a request is portfolio-scoped and
// whether it shows interest in financial statements.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) models.Intent
}
