package engine

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// Accumulator merges exactly one collaborator result per call into the
// research document, keyed by the action that produced it, and advances
// the phase marker. It never returns an error: every outcome, success or
// failure, is recorded as data.
type Accumulator struct {
	logger arbor.ILogger
}

// NewAccumulator creates an accumulator.
func NewAccumulator(logger arbor.ILogger) *Accumulator {
	return &Accumulator{logger: logger}
}

// Accumulate applies one action result to the document.
func (a *Accumulator) Accumulate(doc *models.ResearchDocument, action *models.Action, result *models.ActionResult) {
	a.logger.Debug().
		Str("action", string(action.Name)).
		Str("correlation_id", action.CorrelationID).
		Msg("Accumulating collaborator result")

	switch action.Name {
	case models.ActionLoadHoldings:
		a.applyHoldings(doc, result.Holdings)
	case models.ActionResolveIdentity:
		a.applyResolve(doc, result.Resolve)
	case models.ActionSearchNews:
		a.applyNews(doc, result.News)
	case models.ActionExtractURLs:
		a.applyURLs(doc, result.URLs)
	case models.ActionFetchArticle:
		a.applyArticle(doc, result.Article)
	case models.ActionFetchFinancials:
		a.applyFinancials(doc, result.Financials)
	case models.ActionPersistBatch:
		a.applyPersist(doc, result.Persist)
	default:
		// Defensive default: an unrecognized action is recorded verbatim.
		doc.Errors = append(doc.Errors, models.ErrorEntry{
			Action: action.Name,
			Detail: fmt.Sprintf("unrecognized action result: %+v", result),
		})
	}
}

func (a *Accumulator) applyHoldings(doc *models.ResearchDocument, r *models.HoldingsResult) {
	if r != nil && r.Status == models.StatusSuccess {
		doc.Holdings = r.Holdings
		doc.PortfolioLoaded = true
		doc.HoldingIndex = 0
		doc.HoldingResults = []models.HoldingResult{}
		doc.Phase = models.PhasePortfolioLoaded
		return
	}
	doc.PortfolioLoaded = true
	doc.Holdings = nil
	det := "nil holdings result"
	if r != nil {
		det = detail(r.Status, r.Message)
	}
	doc.Errors = append(doc.Errors, models.ErrorEntry{
		Action: models.ActionLoadHoldings,
		Detail: det,
	})
	doc.Phase = models.PhasePortfolioLoadFailed
}

func (a *Accumulator) applyResolve(doc *models.ResearchDocument, r *models.ResolveResult) {
	if r != nil && r.Status == models.StatusSuccess && r.Company != nil {
		doc.Company = r.Company
		doc.Phase = models.PhaseResolved
		return
	}
	doc.Phase = models.PhaseFailed
	det := "nil resolve result"
	if r != nil {
		det = detail(r.Status, r.Message)
	}
	doc.Errors = append(doc.Errors, models.ErrorEntry{
		Action: models.ActionResolveIdentity,
		Detail: det,
	})
}

func (a *Accumulator) applyNews(doc *models.ResearchDocument, r *models.NewsSearchResult) {
	if r == nil {
		r = &models.NewsSearchResult{Status: models.StatusError, Message: "nil news result"}
	}
	doc.NewsRaw = r

	if r.Status != models.StatusSuccess {
		doc.News = []models.NewsItem{}
		doc.Phase = models.PhaseNewsNotFound
		doc.Errors = append(doc.Errors, models.ErrorEntry{
			Action: models.ActionSearchNews,
			Detail: detail(r.Status, r.Message),
		})
		return
	}

	doc.News = r.Items
	doc.Phase = models.PhaseNewsFetched

	for _, item := range r.Items {
		doc.KBSaveQueue = append(doc.KBSaveQueue, models.KnowledgeDocument{
			ID:        common.NewDocumentID(),
			Text:      models.NewsSnippetText(item),
			Metadata:  a.newsMetadata(doc, item),
			CreatedAt: time.Now(),
		})
	}
}

func (a *Accumulator) applyURLs(doc *models.ResearchDocument, r *models.URLExtractResult) {
	// Empty list on malformed input, never nil.
	if r == nil || r.URLs == nil {
		doc.URLs = []string{}
	} else {
		doc.URLs = r.URLs
	}
	doc.Phase = models.PhaseURLsExtracted
}

func (a *Accumulator) applyArticle(doc *models.ResearchDocument, r *models.ArticleFetchResult) {
	// The cursor advances once per fetch attempt regardless of outcome.
	doc.FetchArticleIndex++

	if r == nil || r.Status != models.StatusSuccess {
		doc.ArticleErrors = append(doc.ArticleErrors, models.ErrorEntry{
			Action: models.ActionFetchArticle,
			Detail: articleDetail(r),
		})
		doc.Phase = models.PhaseArticleFetchError
		return
	}

	doc.Articles = append(doc.Articles, r.Article)
	doc.Phase = models.PhaseArticleFetched

	doc.KBSaveQueue = append(doc.KBSaveQueue, models.KnowledgeDocument{
		ID:        common.NewDocumentID(),
		Text:      models.ArticleText(r.Article),
		Metadata:  a.articleMetadata(doc, r.Article),
		CreatedAt: time.Now(),
	})
}

func (a *Accumulator) applyFinancials(doc *models.ResearchDocument, r *models.FinancialsResult) {
	if r == nil {
		r = &models.FinancialsResult{Status: models.StatusError, Message: "nil financials result"}
	}
	doc.Financials = r
	doc.Phase = models.PhaseFinancialsDone

	switch r.Status {
	case models.StatusSuccess:
		doc.KBSaveQueue = append(doc.KBSaveQueue, models.KnowledgeDocument{
			ID:        common.NewDocumentID(),
			Text:      models.FinancialsText(r),
			Metadata:  a.financialsMetadata(doc, r),
			CreatedAt: time.Now(),
		})
	case models.StatusSkipped:
		// No disclosure id: concluded explicitly, never retried.
	default:
		doc.Errors = append(doc.Errors, models.ErrorEntry{
			Action: models.ActionFetchFinancials,
			Detail: r.Message,
		})
	}
}

func (a *Accumulator) applyPersist(doc *models.ResearchDocument, r *models.PersistResult) {
	if r == nil {
		r = &models.PersistResult{Status: models.StatusError, Message: "nil persist result"}
	}
	if r.Status == models.StatusSuccess {
		doc.KBSaved = append(doc.KBSaved, *r)
		doc.KBSaveQueue = []models.KnowledgeDocument{}
		doc.Phase = models.PhaseKBSaved
		return
	}
	// Failed batch writes keep the queue intact for a later attempt.
	doc.Errors = append(doc.Errors, models.ErrorEntry{
		Action: models.ActionPersistBatch,
		Detail: r.Message,
	})
	doc.KBSaved = append(doc.KBSaved, *r)
}

func (a *Accumulator) newsMetadata(doc *models.ResearchDocument, item models.NewsItem) map[string]interface{} {
	m := map[string]interface{}{
		"type":         models.DocKindNewsSnippet,
		"url":          item.URL,
		"id":           item.ID,
		"published_at": item.PublishedAt,
		"source":       item.Source,
	}
	addCompanyMetadata(m, doc.Company)
	return m
}

func (a *Accumulator) articleMetadata(doc *models.ResearchDocument, article models.Article) map[string]interface{} {
	m := map[string]interface{}{
		"type":         models.DocKindNewsArticle,
		"url":          article.URL,
		"published_at": article.PublishedAt,
		"publisher":    article.Publisher,
	}
	addCompanyMetadata(m, doc.Company)
	return m
}

func (a *Accumulator) financialsMetadata(doc *models.ResearchDocument, r *models.FinancialsResult) map[string]interface{} {
	m := map[string]interface{}{
		"type":        models.DocKindFinancials,
		"corp_code":   r.CorpCode,
		"year":        r.Year,
		"report_kind": string(r.ReportKind),
	}
	addCompanyMetadata(m, doc.Company)
	return m
}

func addCompanyMetadata(m map[string]interface{}, company *models.CompanyIdentity) {
	if company == nil {
		return
	}
	m["company_name"] = company.DisplayName
	m["stock_code"] = company.StockCode
	m["corp_code"] = company.CorpCode
}

func detail(status models.Status, message string) string {
	if message != "" {
		return message
	}
	return string(status)
}

func articleDetail(r *models.ArticleFetchResult) string {
	if r == nil {
		return "nil article result"
	}
	if r.Error != "" {
		return r.Error
	}
	return string(r.Status)
}
