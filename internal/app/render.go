package app

import (
	"fmt"
	"strings"

	"github.com/ternarybob/colligo/internal/models"
)

// RenderSummary formats a finished research document for terminal output.
func RenderSummary(doc *models.ResearchDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Query: %s\n", doc.Query)
	fmt.Fprintf(&b, "Phase: %s  (loops: %d)\n", doc.Phase, doc.LoopCount)

	if doc.PortfolioMode {
		fmt.Fprintf(&b, "Portfolio: %d holdings, %d completed\n", len(doc.Holdings), len(doc.HoldingResults))
		for i, hr := range doc.HoldingResults {
			writeHoldingResult(&b, i+1, hr)
		}
	} else {
		writeCompany(&b, doc.Company)
		writeNews(&b, doc.News)
		writeArticles(&b, doc.Articles)
		writeFinancials(&b, doc.Financials)
	}

	if saved := totalSaved(doc.KBSaved); saved > 0 {
		fmt.Fprintf(&b, "Knowledge store: %d documents saved in %d batches\n", saved, len(doc.KBSaved))
	}

	if len(doc.Errors) > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", len(doc.Errors))
		for _, e := range doc.Errors {
			fmt.Fprintf(&b, "  - %s: %s\n", e.Action, e.Detail)
		}
	}

	return b.String()
}

func writeHoldingResult(b *strings.Builder, n int, hr models.HoldingResult) {
	name := "(unresolved)"
	if hr.Company != nil {
		name = hr.Company.DisplayName
	}
	fmt.Fprintf(b, "  %d. %s: %d news, %d articles", n, name, len(hr.News), len(hr.Articles))
	if hr.Financials != nil && hr.Financials.Status == models.StatusSuccess {
		fmt.Fprintf(b, ", financials %d/%s", hr.Financials.Year, hr.Financials.ReportKind)
	}
	b.WriteString("\n")
}

func writeCompany(b *strings.Builder, c *models.CompanyIdentity) {
	if c == nil {
		b.WriteString("Company: not resolved\n")
		return
	}
	fmt.Fprintf(b, "Company: %s", c.DisplayName)
	if c.StockCode != "" {
		fmt.Fprintf(b, " (%s)", c.StockCode)
	}
	b.WriteString("\n")
}

func writeNews(b *strings.Builder, items []models.NewsItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "News (%d):\n", len(items))
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item.Title)
	}
}

func writeArticles(b *strings.Builder, articles []models.Article) {
	if len(articles) == 0 {
		return
	}
	fmt.Fprintf(b, "Articles (%d):\n", len(articles))
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = a.URL
		}
		fmt.Fprintf(b, "  - %s (%d chars)\n", title, len(a.Body))
	}
}

func writeFinancials(b *strings.Builder, f *models.FinancialsResult) {
	if f == nil || f.Status != models.StatusSuccess {
		return
	}
	fmt.Fprintf(b, "Financials %d/%s:\n", f.Year, f.ReportKind)
	writeFigure(b, "Revenue", f.KeyAccounts.Revenue)
	writeFigure(b, "Operating income", f.KeyAccounts.OperatingIncome)
	writeFigure(b, "Net income", f.KeyAccounts.NetIncome)
	writeFigure(b, "Total assets", f.KeyAccounts.TotalAssets)
	writeFigure(b, "Total liabilities", f.KeyAccounts.TotalLiabilities)
	writeFigure(b, "Total equity", f.KeyAccounts.TotalEquity)
}

func writeFigure(b *strings.Builder, name string, v *int64) {
	if v == nil {
		fmt.Fprintf(b, "  %-18s unknown\n", name)
		return
	}
	fmt.Fprintf(b, "  %-18s %d\n", name, *v)
}

func totalSaved(batches []models.PersistResult) int {
	total := 0
	for _, batch := range batches {
		total += batch.SavedCount
	}
	return total
}
