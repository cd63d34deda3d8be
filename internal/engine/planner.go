package engine

import (
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// Planner decides the single next action for a research document. It is
// pure with respect to the document except for the loop counter, and it
// never calls collaborators itself.
//
// The priority order below is fixed and never reordered by content, which
// guarantees a total order over actions: two consecutive Plan calls on the
// same document state (minus the counter) choose the same action.
type Planner struct {
	articleCap int
	loopBound  int
	now        func() time.Time
	logger     arbor.ILogger
}

// NewPlanner creates a planner with the given per-request bounds.
func NewPlanner(articleCap, loopBound int, logger arbor.ILogger) *Planner {
	return &Planner{
		articleCap: articleCap,
		loopBound:  loopBound,
		now:        time.Now,
		logger:     logger,
	}
}

// Plan returns the next action for doc, or nil when collection is done.
// Each invocation increments the loop counter; past the bound the request
// aborts with whatever was accumulated so far.
func (p *Planner) Plan(doc *models.ResearchDocument) *models.Action {
	doc.LoopCount++
	if doc.LoopCount > p.loopBound {
		doc.Phase = models.PhaseAborted
		p.logger.Warn().
			Int("loop_count", doc.LoopCount).
			Str("phase", string(doc.Phase)).
			Msg("Loop bound reached, aborting request")
		return nil
	}

	if doc.PortfolioMode {
		if action, done := p.planPortfolio(doc); done {
			return action
		}
		// Holdings loaded and the current holding is resolved: fall through
		// to the common single-company flow for that holding.
	}

	return p.planCompany(doc)
}

// planPortfolio handles the portfolio-specific steps. The second return is
// false when control should fall through to the common single-company flow.
func (p *Planner) planPortfolio(doc *models.ResearchDocument) (*models.Action, bool) {
	if doc.UserID == "" {
		doc.Errors = append(doc.Errors, models.ErrorEntry{
			Action: models.ActionLoadHoldings,
			Detail: "user id missing for portfolio request",
		})
		return nil, true
	}

	if !doc.PortfolioLoaded {
		return &models.Action{
			Name:          models.ActionLoadHoldings,
			CorrelationID: common.NewCorrelationID(),
			UserID:        doc.UserID,
		}, true
	}

	if doc.HoldingIndex >= len(doc.Holdings) {
		if len(doc.KBSaveQueue) > 0 {
			return p.persistAction(doc), true
		}
		return nil, true
	}

	if doc.Company == nil {
		holding := doc.Holdings[doc.HoldingIndex]
		p.logger.Debug().
			Int("holding_index", doc.HoldingIndex).
			Str("input", holding.ResolveInput()).
			Msg("Planning identity resolution for portfolio holding")
		return &models.Action{
			Name:          models.ActionResolveIdentity,
			CorrelationID: common.NewCorrelationID(),
			Query:         holding.ResolveInput(),
		}, true
	}

	return nil, false
}

// planCompany is the common single-company flow, evaluated in strict
// priority order, each step gated on the corresponding field being unset.
func (p *Planner) planCompany(doc *models.ResearchDocument) *models.Action {
	if doc.Company == nil {
		return &models.Action{
			Name:          models.ActionResolveIdentity,
			CorrelationID: common.NewCorrelationID(),
			Query:         doc.Query,
		}
	}

	if doc.NewsRaw == nil {
		query := strings.TrimSpace(doc.Company.DisplayName + " " + doc.Query)
		if doc.PortfolioMode {
			// Per-holding scope: the user query describes the portfolio,
			// not this company, so search on the company name alone.
			query = doc.Company.DisplayName
		}
		return &models.Action{
			Name:          models.ActionSearchNews,
			CorrelationID: common.NewCorrelationID(),
			Query:         query,
		}
	}

	if doc.URLs == nil {
		return &models.Action{
			Name:          models.ActionExtractURLs,
			CorrelationID: common.NewCorrelationID(),
		}
	}

	if len(doc.Articles) < p.articleCap && doc.FetchArticleIndex < len(doc.URLs) {
		return &models.Action{
			Name:          models.ActionFetchArticle,
			CorrelationID: common.NewCorrelationID(),
			URL:           doc.URLs[doc.FetchArticleIndex],
		}
	}

	if doc.FinancialInterest && doc.Financials == nil {
		year, kind := PeriodFor(p.now())
		return &models.Action{
			Name:          models.ActionFetchFinancials,
			CorrelationID: common.NewCorrelationID(),
			CorpCode:      doc.Company.CorpCode,
			Year:          year,
			ReportKind:    kind,
		}
	}

	if len(doc.KBSaveQueue) > 0 {
		return p.persistAction(doc)
	}

	return nil
}

// persistAction drains the knowledge-store queue into one batch write.
// Metadata null values are filtered here, before the store ever sees them.
func (p *Planner) persistAction(doc *models.ResearchDocument) *models.Action {
	texts := make([]string, 0, len(doc.KBSaveQueue))
	metadatas := make([]map[string]interface{}, 0, len(doc.KBSaveQueue))
	for _, kd := range doc.KBSaveQueue {
		texts = append(texts, kd.Text)
		metadatas = append(metadatas, models.FilterMetadata(kd.Metadata))
	}
	return &models.Action{
		Name:          models.ActionPersistBatch,
		CorrelationID: common.NewCorrelationID(),
		Texts:         texts,
		Metadatas:     metadatas,
	}
}
