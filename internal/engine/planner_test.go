package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/models"
)

func testPlanner(articleCap, loopBound int) *Planner {
	p := NewPlanner(articleCap, loopBound, arbor.NewLogger())
	p.now = func() time.Time {
		return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func resolvedDoc() *models.ResearchDocument {
	doc := models.NewResearchDocument("삼성전자 실적", "")
	doc.FinancialInterest = true
	doc.Company = &models.CompanyIdentity{
		DisplayName: "삼성전자",
		StockCode:   "005930",
		CorpCode:    "00126380",
	}
	return doc
}

func TestPlanPriorityOrder(t *testing.T) {
	p := testPlanner(2, 50)
	doc := resolvedDoc()

	// Resolved but no news yet.
	action := p.Plan(doc)
	require.NotNil(t, action)
	assert.Equal(t, models.ActionSearchNews, action.Name)
	assert.Equal(t, "삼성전자 삼성전자 실적", action.Query)

	// News present, URLs not yet extracted.
	doc.NewsRaw = &models.NewsSearchResult{Status: models.StatusSuccess}
	action = p.Plan(doc)
	require.NotNil(t, action)
	assert.Equal(t, models.ActionExtractURLs, action.Name)

	// URLs extracted: fetch articles up to the cap, in order.
	doc.URLs = []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"}
	action = p.Plan(doc)
	require.NotNil(t, action)
	assert.Equal(t, models.ActionFetchArticle, action.Name)
	assert.Equal(t, "https://a.example/1", action.URL)

	doc.FetchArticleIndex = 1
	doc.Articles = append(doc.Articles, models.Article{URL: "https://a.example/1"})
	action = p.Plan(doc)
	require.NotNil(t, action)
	assert.Equal(t, models.ActionFetchArticle, action.Name)
	assert.Equal(t, "https://a.example/2", action.URL)

	// Cap reached: financials next.
	doc.FetchArticleIndex = 2
	doc.Articles = append(doc.Articles, models.Article{URL: "https://a.example/2"})
	action = p.Plan(doc)
	require.NotNil(t, action)
	assert.Equal(t, models.ActionFetchFinancials, action.Name)
	assert.Equal(t, "00126380", action.CorpCode)
	assert.Equal(t, 2025, action.Year)
	assert.Equal(t, models.ReportH1, action.ReportKind)

	// Financials concluded with a pending queue: persist.
	doc.Financials = &models.FinancialsResult{Status: models.StatusSuccess}
	doc.KBSaveQueue = []models.KnowledgeDocument{{ID: "doc_1", Text: "x"}}
	action = p.Plan(doc)
	require.NotNil(t, action)
	assert.Equal(t, models.ActionPersistBatch, action.Name)
	assert.Equal(t, []string{"x"}, action.Texts)

	// Nothing left.
	doc.KBSaveQueue = nil
	assert.Nil(t, p.Plan(doc))
}

func TestPlanIdempotentIgnoringCorrelationID(t *testing.T) {
	p := testPlanner(2, 50)
	doc := resolvedDoc()
	doc.NewsRaw = &models.NewsSearchResult{Status: models.StatusSuccess}
	doc.URLs = []string{"https://a.example/1"}

	first := p.Plan(doc)
	second := p.Plan(doc)
	require.NotNil(t, first)
	require.NotNil(t, second)

	first.CorrelationID = ""
	second.CorrelationID = ""
	assert.Equal(t, first, second)
}

func TestPlanLoopBound(t *testing.T) {
	p := testPlanner(2, 3)
	doc := models.NewResearchDocument("query", "")

	for i := 0; i < 3; i++ {
		require.NotNil(t, p.Plan(doc), "plan %d should still act", i)
	}

	assert.Nil(t, p.Plan(doc))
	assert.Equal(t, models.PhaseAborted, doc.Phase)
	assert.Equal(t, 4, doc.LoopCount)
}

func TestPlanNoFinancialsWithoutInterest(t *testing.T) {
	p := testPlanner(1, 50)
	doc := resolvedDoc()
	doc.FinancialInterest = false
	doc.NewsRaw = &models.NewsSearchResult{Status: models.StatusSuccess}
	doc.URLs = []string{}

	assert.Nil(t, p.Plan(doc))
	assert.Nil(t, doc.Financials)
}

func TestPlanPortfolio(t *testing.T) {
	p := testPlanner(2, 50)

	t.Run("missing user id fails immediately", func(t *testing.T) {
		doc := models.NewResearchDocument("내 포트폴리오", "")
		doc.PortfolioMode = true

		assert.Nil(t, p.Plan(doc))
		require.Len(t, doc.Errors, 1)
		assert.Equal(t, models.ActionLoadHoldings, doc.Errors[0].Action)
	})

	t.Run("loads holdings first", func(t *testing.T) {
		doc := models.NewResearchDocument("내 포트폴리오", "user-1")
		doc.PortfolioMode = true

		action := p.Plan(doc)
		require.NotNil(t, action)
		assert.Equal(t, models.ActionLoadHoldings, action.Name)
		assert.Equal(t, "user-1", action.UserID)
	})

	t.Run("resolves current holding by ticker hint", func(t *testing.T) {
		doc := models.NewResearchDocument("내 포트폴리오", "user-1")
		doc.PortfolioMode = true
		doc.PortfolioLoaded = true
		doc.Holdings = []models.Holding{{DisplayName: "삼성전자", TickerHint: "005930"}}

		action := p.Plan(doc)
		require.NotNil(t, action)
		assert.Equal(t, models.ActionResolveIdentity, action.Name)
		assert.Equal(t, "005930", action.Query)
	})

	t.Run("searches on company name alone per holding", func(t *testing.T) {
		doc := models.NewResearchDocument("내 포트폴리오 요약", "user-1")
		doc.PortfolioMode = true
		doc.PortfolioLoaded = true
		doc.Holdings = []models.Holding{{DisplayName: "삼성전자"}}
		doc.Company = &models.CompanyIdentity{DisplayName: "삼성전자"}

		action := p.Plan(doc)
		require.NotNil(t, action)
		assert.Equal(t, models.ActionSearchNews, action.Name)
		assert.Equal(t, "삼성전자", action.Query)
	})

	t.Run("past last holding drains queue then stops", func(t *testing.T) {
		doc := models.NewResearchDocument("내 포트폴리오", "user-1")
		doc.PortfolioMode = true
		doc.PortfolioLoaded = true
		doc.Holdings = []models.Holding{{DisplayName: "삼성전자"}}
		doc.HoldingIndex = 1
		doc.KBSaveQueue = []models.KnowledgeDocument{{ID: "doc_1", Text: "x"}}

		action := p.Plan(doc)
		require.NotNil(t, action)
		assert.Equal(t, models.ActionPersistBatch, action.Name)

		doc.KBSaveQueue = nil
		assert.Nil(t, p.Plan(doc))
	})
}
