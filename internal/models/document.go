package models

import (
	"fmt"
	"strings"
	"time"
)

// Knowledge document kinds stored in the metadata "type" field.
const (
	DocKindNewsSnippet = "news_snippet"
	DocKindNewsArticle = "news_article"
	DocKindFinancials  = "financials"
)

// KnowledgeDocument is one text unit staged for persistence into the
// knowledge store. Metadata values must be non-null by the time the
// document reaches the store; FilterMetadata enforces this.
type KnowledgeDocument struct {
	ID        string                 `json:"id"` // doc_<uuid>
	Text      string                 `json:"text"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// FilterMetadata returns a copy of m with nil values and empty strings
// removed. The store rejects null-valued metadata, so the core strips
// them before any persist call.
func FilterMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// NewsSnippetText renders the knowledge-store text block for one news item.
func NewsSnippetText(item NewsItem) string {
	return fmt.Sprintf("[NEWS]\nTitle: %s\nPublishedAt: %s\nURL: %s\nSummary: %s\n",
		item.Title, item.PublishedAt, item.URL, item.Summary)
}

// ArticleText renders the knowledge-store text block for one fetched article.
func ArticleText(a Article) string {
	return fmt.Sprintf("[ARTICLE]\nTitle: %s\nPublishedAt: %s\nURL: %s\nPublisher: %s\n\n%s",
		a.Title, a.PublishedAt, a.URL, a.Publisher, a.Body)
}

// FinancialsText renders the knowledge-store text block for one statement.
func FinancialsText(f *FinancialsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[FINANCIALS]\nCorpCode: %s\nYear: %d Report: %s\n", f.CorpCode, f.Year, f.ReportKind)
	writeFigure := func(name string, v *int64) {
		if v != nil {
			fmt.Fprintf(&b, "%s: %d\n", name, *v)
		} else {
			fmt.Fprintf(&b, "%s: unknown\n", name)
		}
	}
	writeFigure("Revenue", f.KeyAccounts.Revenue)
	writeFigure("OperatingIncome", f.KeyAccounts.OperatingIncome)
	writeFigure("NetIncome", f.KeyAccounts.NetIncome)
	writeFigure("TotalAssets", f.KeyAccounts.TotalAssets)
	writeFigure("TotalLiabilities", f.KeyAccounts.TotalLiabilities)
	writeFigure("TotalEquity", f.KeyAccounts.TotalEquity)
	if f.KeyAccounts.Unit != "" {
		fmt.Fprintf(&b, "Unit: %s\n", f.KeyAccounts.Unit)
	}
	return b.String()
}
