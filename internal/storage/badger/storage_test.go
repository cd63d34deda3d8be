package badger

import (
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

func testManager(t *testing.T) *Manager {
	t.Helper()

	config := &common.BadgerConfig{Path: t.TempDir()}
	manager, err := NewManager(arbor.NewLogger(), config)
	if err != nil {
		t.Fatalf("Failed to create storage manager: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	})
	return manager.(*Manager)
}

func TestDocumentStorageRoundTrip(t *testing.T) {
	storage := testManager(t).DocumentStorage()

	doc := &models.KnowledgeDocument{
		ID:   "doc_test-1",
		Text: "[NEWS]\nTitle: 삼성전자 실적\n",
		Metadata: map[string]interface{}{
			"type": models.DocKindNewsSnippet,
			"url":  "https://n.example/1",
		},
	}
	if err := storage.SaveDocument(doc); err != nil {
		t.Fatalf("Failed to save document: %v", err)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("Save should stamp created/updated times")
	}

	loaded, err := storage.GetDocument("doc_test-1")
	if err != nil {
		t.Fatalf("Failed to load document: %v", err)
	}
	if loaded.Text != doc.Text {
		t.Errorf("Text = %q, want %q", loaded.Text, doc.Text)
	}
	if loaded.Metadata["type"] != models.DocKindNewsSnippet {
		t.Errorf("Metadata type = %v, want %s", loaded.Metadata["type"], models.DocKindNewsSnippet)
	}
}

func TestDocumentStorageSaveRequiresID(t *testing.T) {
	storage := testManager(t).DocumentStorage()

	if err := storage.SaveDocument(&models.KnowledgeDocument{Text: "x"}); err == nil {
		t.Error("Expected error for document without ID")
	}
}

func TestDocumentStorageSearchAndCount(t *testing.T) {
	storage := testManager(t).DocumentStorage()

	docs := []*models.KnowledgeDocument{
		{ID: "doc_1", Text: "[NEWS] 삼성전자 2분기 실적"},
		{ID: "doc_2", Text: "[NEWS] 카카오 신사업"},
		{ID: "doc_3", Text: "[ARTICLE] 삼성전자 반도체 전망"},
	}
	if err := storage.SaveDocuments(docs); err != nil {
		t.Fatalf("Failed to save documents: %v", err)
	}

	count, err := storage.CountDocuments()
	if err != nil {
		t.Fatalf("Failed to count documents: %v", err)
	}
	if count != 3 {
		t.Errorf("CountDocuments = %d, want 3", count)
	}

	hits, err := storage.SearchDocuments("삼성전자", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("Search returned %d documents, want 2", len(hits))
	}
}

func TestPortfolioStorageRoundTrip(t *testing.T) {
	storage := testManager(t).PortfolioStorage()

	holdings := []models.Holding{
		{DisplayName: "삼성전자", TickerHint: "005930"},
		{DisplayName: "카카오"},
	}
	if err := storage.SaveHoldings("user-1", holdings); err != nil {
		t.Fatalf("Failed to save holdings: %v", err)
	}

	loaded, err := storage.GetHoldings("user-1")
	if err != nil {
		t.Fatalf("Failed to load holdings: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Loaded %d holdings, want 2", len(loaded))
	}
	if loaded[0].TickerHint != "005930" {
		t.Errorf("TickerHint = %q, want 005930", loaded[0].TickerHint)
	}
}

func TestPortfolioStorageMissingUser(t *testing.T) {
	storage := testManager(t).PortfolioStorage()

	holdings, err := storage.GetHoldings("nobody")
	if err != nil {
		t.Fatalf("Missing user should not be an error, got: %v", err)
	}
	if holdings != nil {
		t.Errorf("Expected nil holdings for unknown user, got %v", holdings)
	}
}

func TestRegistryStorageRoundTrip(t *testing.T) {
	storage := testManager(t).RegistryStorage()

	missing, err := storage.LoadSnapshot()
	if err != nil {
		t.Fatalf("Empty cache should not be an error, got: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil snapshot before any save")
	}

	snapshot := &models.RegistrySnapshot{
		Companies: []models.RegistryCompany{
			{CorpCode: "00126380", Name: "삼성전자", StockCode: "005930"},
		},
		FetchedAt: time.Now(),
	}
	if err := storage.SaveSnapshot(snapshot); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	loaded, err := storage.LoadSnapshot()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(loaded.Companies) != 1 || loaded.Companies[0].Name != "삼성전자" {
		t.Errorf("Loaded snapshot = %+v, want the saved company", loaded.Companies)
	}
}
