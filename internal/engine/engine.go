// Package engine implements the research-collection loop: a deterministic
// planner/accumulator state machine that performs one external action at a
// time against a shared research document until no useful action remains
// or the loop bound trips.
package engine

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/ternarybob/colligo/internal/services/news"
)

// Engine wires the planner, accumulator and portfolio iterator to the
// external collaborators. One Engine may serve concurrent requests; all
// mutable state lives in the per-request ResearchDocument.
type Engine struct {
	planner     *Planner
	accumulator *Accumulator
	iterator    *PortfolioIterator

	resolver    interfaces.IdentityResolver
	newsSearch  interfaces.NewsSearcher
	articles    interfaces.ArticleFetcher
	disclosures interfaces.DisclosureService
	portfolio   interfaces.PortfolioSource
	kb          interfaces.KnowledgeStore

	logger arbor.ILogger
}

// Options carries the collaborators and bounds for a new Engine.
type Options struct {
	Resolver    interfaces.IdentityResolver
	NewsSearch  interfaces.NewsSearcher
	Articles    interfaces.ArticleFetcher
	Disclosures interfaces.DisclosureService
	Portfolio   interfaces.PortfolioSource
	Knowledge   interfaces.KnowledgeStore

	ArticleCap int
	LoopBound  int
}

// New creates an Engine.
func New(opts Options, logger arbor.ILogger) *Engine {
	return &Engine{
		planner:     NewPlanner(opts.ArticleCap, opts.LoopBound, logger),
		accumulator: NewAccumulator(logger),
		iterator:    NewPortfolioIterator(opts.ArticleCap, logger),
		resolver:    opts.Resolver,
		newsSearch:  opts.NewsSearch,
		articles:    opts.Articles,
		disclosures: opts.Disclosures,
		portfolio:   opts.Portfolio,
		kb:          opts.Knowledge,
		logger:      logger,
	}
}

// Run drives the plan/execute/accumulate loop to completion. The document
// holds whatever was accumulated when the loop ends, regardless of how it
// ended.
func (e *Engine) Run(ctx context.Context, doc *models.ResearchDocument) {
	for {
		action := e.planner.Plan(doc)
		if action == nil {
			return
		}

		e.logger.Info().
			Str("action", string(action.Name)).
			Str("correlation_id", action.CorrelationID).
			Int("loop_count", doc.LoopCount).
			Msg("Executing action")

		result := e.execute(ctx, doc, action)
		e.accumulator.Accumulate(doc, action, result)
		e.iterator.Advance(doc)

		// A single-company request without a usable identity cannot make
		// progress; terminate and surface the failure as a clarification.
		if !doc.PortfolioMode && doc.Company == nil && doc.Phase == models.PhaseFailed {
			return
		}
	}
}

// execute dispatches one action to its collaborator and wraps the outcome
// in the tagged result union. Collaborator errors never escape: they come
// back as error-status results.
func (e *Engine) execute(ctx context.Context, doc *models.ResearchDocument, action *models.Action) *models.ActionResult {
	result := &models.ActionResult{Action: action.Name}

	switch action.Name {
	case models.ActionLoadHoldings:
		result.Holdings = e.portfolio.GetHoldings(ctx, action.UserID)

	case models.ActionResolveIdentity:
		result.Resolve = e.resolver.ResolveIdentity(ctx, action.Query)

	case models.ActionSearchNews:
		result.News = e.newsSearch.SearchNews(ctx, action.Query)

	case models.ActionExtractURLs:
		result.URLs = &models.URLExtractResult{URLs: news.ExtractURLs(doc.NewsRaw)}

	case models.ActionFetchArticle:
		result.Article = e.articles.FetchArticle(ctx, action.URL)

	case models.ActionFetchFinancials:
		if action.CorpCode == "" {
			// No disclosure id: conclude the attempt explicitly instead of
			// leaving an unreachable branch in the planner's priority chain.
			result.Financials = &models.FinancialsResult{
				Status:  models.StatusSkipped,
				Message: "no disclosure id for company",
			}
		} else {
			result.Financials = e.disclosures.GetFinancialStatement(ctx, action.CorpCode, action.Year, action.ReportKind)
		}

	case models.ActionPersistBatch:
		result.Persist = e.kb.PersistDocuments(ctx, action.Texts, action.Metadatas)
	}

	return result
}
