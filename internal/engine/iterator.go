package engine

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/models"
)

// PortfolioIterator drives the single-company flow once per holding.
// After every accumulate it judges whether the current holding's collection
// is complete; on completion it snapshots the holding result, advances the
// cursor, and resets all per-company scope so the flow restarts cleanly.
type PortfolioIterator struct {
	articleCap int
	logger     arbor.ILogger
}

// NewPortfolioIterator creates an iterator with the per-company article cap.
func NewPortfolioIterator(articleCap int, logger arbor.ILogger) *PortfolioIterator {
	return &PortfolioIterator{articleCap: articleCap, logger: logger}
}

// Advance evaluates the current holding and moves to the next one when its
// collection is complete. No-op outside portfolio mode or before holdings
// are loaded.
func (it *PortfolioIterator) Advance(doc *models.ResearchDocument) {
	if !doc.PortfolioMode || !doc.PortfolioLoaded {
		return
	}
	if doc.HoldingIndex >= len(doc.Holdings) {
		return
	}

	// A holding whose identity could not be resolved is skipped rather than
	// retried: the failure is already recorded and collection proceeds.
	if doc.Company == nil {
		if doc.Phase == models.PhaseFailed {
			it.logger.Warn().
				Int("holding_index", doc.HoldingIndex).
				Msg("Skipping holding with unresolved identity")
			doc.HoldingIndex++
			doc.ResetCompanyScope()
			doc.Phase = models.PhasePortfolioNext
		}
		return
	}

	if !it.holdingComplete(doc) {
		return
	}

	doc.HoldingResults = append(doc.HoldingResults, models.HoldingResult{
		Company:    doc.Company,
		News:       doc.News,
		Articles:   doc.Articles,
		Financials: doc.Financials,
	})

	it.logger.Debug().
		Int("holding_index", doc.HoldingIndex).
		Str("company", doc.Company.DisplayName).
		Int("articles", len(doc.Articles)).
		Msg("Holding collection complete")

	doc.HoldingIndex++
	doc.ResetCompanyScope()
	doc.Phase = models.PhasePortfolioNext
}

// holdingComplete reports whether the current holding has collected enough:
// the article cap is reached or the cursor has exhausted all extracted URLs,
// and, when the request carries financial interest, a financial-statement
// attempt has concluded (success, error, or explicit skip).
func (it *PortfolioIterator) holdingComplete(doc *models.ResearchDocument) bool {
	articlesDone := len(doc.Articles) >= it.articleCap ||
		(doc.URLs != nil && doc.FetchArticleIndex >= len(doc.URLs))
	if !articlesDone {
		return false
	}
	if doc.FinancialInterest && !doc.FinancialsConcluded() {
		return false
	}
	return true
}
