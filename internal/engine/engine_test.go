package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/models"
)

// Fake collaborators with fixed canned behavior, keyed where it matters by
// the incoming arguments.

type fakeResolver struct {
	companies map[string]*models.CompanyIdentity
	calls     int
}

func (f *fakeResolver) ResolveIdentity(_ context.Context, query string) *models.ResolveResult {
	f.calls++
	if c, ok := f.companies[query]; ok {
		return &models.ResolveResult{Status: models.StatusSuccess, Company: c}
	}
	return &models.ResolveResult{Status: models.StatusNotFound, Message: "no company found for " + query}
}

type fakeNews struct {
	perQuery int
}

func (f *fakeNews) SearchNews(_ context.Context, query string) *models.NewsSearchResult {
	if f.perQuery == 0 {
		return &models.NewsSearchResult{Status: models.StatusNotFound, Query: query}
	}
	items := make([]models.NewsItem, f.perQuery)
	for i := range items {
		items[i] = models.NewsItem{
			ID:    fmt.Sprintf("id-%d", i),
			Title: fmt.Sprintf("%s news %d", query, i),
			URL:   fmt.Sprintf("https://news.example/%s/%d", strings.ReplaceAll(query, " ", "-"), i),
		}
	}
	return &models.NewsSearchResult{Status: models.StatusSuccess, Query: query, Items: items}
}

type fakeArticles struct {
	body string
}

func (f *fakeArticles) FetchArticle(_ context.Context, url string) *models.ArticleFetchResult {
	if len(f.body) < 200 {
		return &models.ArticleFetchResult{
			Status: models.StatusError,
			Error:  "extracted_body_too_short_or_empty",
		}
	}
	return &models.ArticleFetchResult{
		Status:  models.StatusSuccess,
		Article: models.Article{URL: url, Title: "article", Body: f.body},
	}
}

type fakeDisclosures struct{}

func (fakeDisclosures) GetFinancialStatement(_ context.Context, corpCode string, year int, kind models.ReportKind) *models.FinancialsResult {
	revenue := int64(1000)
	return &models.FinancialsResult{
		Status:      models.StatusSuccess,
		CorpCode:    corpCode,
		Year:        year,
		ReportKind:  kind,
		KeyAccounts: models.KeyAccounts{Revenue: &revenue},
	}
}

type fakePortfolio struct {
	holdings map[string][]models.Holding
}

func (f *fakePortfolio) GetHoldings(_ context.Context, userID string) *models.HoldingsResult {
	h, ok := f.holdings[userID]
	if !ok {
		return &models.HoldingsResult{Status: models.StatusNotFound, UserID: userID}
	}
	return &models.HoldingsResult{Status: models.StatusSuccess, UserID: userID, Holdings: h}
}

type fakeKnowledge struct {
	batches [][]string
}

func (f *fakeKnowledge) PersistDocuments(_ context.Context, texts []string, metadatas []map[string]interface{}) *models.PersistResult {
	for _, m := range metadatas {
		for k, v := range m {
			if v == nil {
				return &models.PersistResult{Status: models.StatusError, Message: "null metadata value: " + k}
			}
		}
	}
	f.batches = append(f.batches, texts)
	return &models.PersistResult{Status: models.StatusSuccess, SavedCount: len(texts)}
}

func testEngine(t *testing.T, articleCap, loopBound int, kb *fakeKnowledge, holdings map[string][]models.Holding) *Engine {
	t.Helper()

	companies := map[string]*models.CompanyIdentity{
		"삼성전자":   {DisplayName: "삼성전자", StockCode: "005930", CorpCode: "00126380"},
		"005930": {DisplayName: "삼성전자", StockCode: "005930", CorpCode: "00126380"},
		"카카오":    {DisplayName: "카카오", StockCode: "035720", CorpCode: "00258801"},
		"네이버":    {DisplayName: "네이버", StockCode: "035420", CorpCode: "00266961"},
	}

	return New(Options{
		Resolver:    &fakeResolver{companies: companies},
		NewsSearch:  &fakeNews{perQuery: 5},
		Articles:    &fakeArticles{body: strings.Repeat("기사 본문 ", 50)},
		Disclosures: fakeDisclosures{},
		Portfolio:   &fakePortfolio{holdings: holdings},
		Knowledge:   kb,
		ArticleCap:  articleCap,
		LoopBound:   loopBound,
	}, arbor.NewLogger())
}

func TestRunSingleCompany(t *testing.T) {
	kb := &fakeKnowledge{}
	eng := testEngine(t, 2, 50, kb, nil)

	doc := models.NewResearchDocument("삼성전자", "")
	doc.FinancialInterest = true
	eng.Run(context.Background(), doc)

	require.NotNil(t, doc.Company)
	assert.Equal(t, "005930", doc.Company.StockCode)
	assert.Len(t, doc.News, 5)
	assert.Len(t, doc.Articles, 2, "collection stops at the article cap")
	require.NotNil(t, doc.Financials)
	assert.Equal(t, models.StatusSuccess, doc.Financials.Status)

	// 5 snippets + 2 articles + 1 financials in one drained batch.
	assert.Empty(t, doc.KBSaveQueue)
	require.Len(t, doc.KBSaved, 1)
	assert.Equal(t, 8, doc.KBSaved[0].SavedCount)
	require.Len(t, kb.batches, 1)

	assert.LessOrEqual(t, doc.LoopCount, 50)
	assert.Equal(t, models.PhaseKBSaved, doc.Phase)
}

func TestRunUnresolvedCompanyTerminates(t *testing.T) {
	kb := &fakeKnowledge{}
	eng := testEngine(t, 2, 50, kb, nil)

	doc := models.NewResearchDocument("존재하지않는회사", "")
	eng.Run(context.Background(), doc)

	assert.Nil(t, doc.Company)
	assert.Equal(t, models.PhaseFailed, doc.Phase)
	require.Len(t, doc.Errors, 1)
	assert.Empty(t, kb.batches)
}

func TestRunPortfolioThreeHoldings(t *testing.T) {
	kb := &fakeKnowledge{}
	holdings := map[string][]models.Holding{
		"user-1": {
			{DisplayName: "삼성전자", TickerHint: "005930"},
			{DisplayName: "카카오"},
			{DisplayName: "네이버"},
		},
	}
	eng := testEngine(t, 2, 50, kb, holdings)

	doc := models.NewResearchDocument("내 포트폴리오 종목 실적", "user-1")
	doc.PortfolioMode = true
	doc.FinancialInterest = true
	eng.Run(context.Background(), doc)

	require.Len(t, doc.HoldingResults, 3)
	wantOrder := []string{"삼성전자", "카카오", "네이버"}
	for i, hr := range doc.HoldingResults {
		require.NotNil(t, hr.Company, "holding %d must have a resolved company", i)
		assert.Equal(t, wantOrder[i], hr.Company.DisplayName)
		assert.Len(t, hr.Articles, 2)
		require.NotNil(t, hr.Financials)
		assert.Equal(t, models.StatusSuccess, hr.Financials.Status)
	}

	assert.Empty(t, doc.KBSaveQueue, "queue drains after the last holding")
	assert.NotEmpty(t, doc.KBSaved)
	assert.LessOrEqual(t, doc.LoopCount, 50)
}

func TestRunPortfolioSkipsUnresolvableHolding(t *testing.T) {
	kb := &fakeKnowledge{}
	holdings := map[string][]models.Holding{
		"user-1": {
			{DisplayName: "유령회사"},
			{DisplayName: "카카오"},
		},
	}
	eng := testEngine(t, 2, 50, kb, holdings)

	doc := models.NewResearchDocument("내 포트폴리오", "user-1")
	doc.PortfolioMode = true
	eng.Run(context.Background(), doc)

	require.Len(t, doc.HoldingResults, 1, "only the resolvable holding completes")
	assert.Equal(t, "카카오", doc.HoldingResults[0].Company.DisplayName)
	assert.NotEmpty(t, doc.Errors, "the unresolved holding leaves an error entry")
}

func TestRunPortfolioMissingHoldings(t *testing.T) {
	kb := &fakeKnowledge{}
	eng := testEngine(t, 2, 50, kb, map[string][]models.Holding{})

	doc := models.NewResearchDocument("내 포트폴리오", "user-unknown")
	doc.PortfolioMode = true
	eng.Run(context.Background(), doc)

	assert.Equal(t, models.PhasePortfolioLoadFailed, doc.Phase)
	assert.Empty(t, doc.HoldingResults)
	assert.NotEmpty(t, doc.Errors)
}

func TestRunRespectsLoopBound(t *testing.T) {
	kb := &fakeKnowledge{}
	holdings := map[string][]models.Holding{
		"user-1": {
			{DisplayName: "삼성전자"}, {DisplayName: "카카오"}, {DisplayName: "네이버"},
		},
	}
	eng := testEngine(t, 2, 5, kb, holdings)

	doc := models.NewResearchDocument("내 포트폴리오", "user-1")
	doc.PortfolioMode = true
	eng.Run(context.Background(), doc)

	assert.Equal(t, models.PhaseAborted, doc.Phase)
	assert.Equal(t, 6, doc.LoopCount, "one increment past the bound, then abort")
}
