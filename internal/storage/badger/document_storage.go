package badger

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentStorage implements the DocumentStorage interface for Badger
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) SaveDocument(doc *models.KnowledgeDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) SaveDocuments(docs []*models.KnowledgeDocument) error {
	for _, doc := range docs {
		if err := s.SaveDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *DocumentStorage) GetDocument(id string) (*models.KnowledgeDocument, error) {
	var doc models.KnowledgeDocument
	if err := s.db.Store().Get(id, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// SearchDocuments matches the query as a literal, case-insensitive substring
// of the document text. Fine at collection scale; not a full-text index.
func (s *DocumentStorage) SearchDocuments(query string, limit int) ([]*models.KnowledgeDocument, error) {
	regex, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	var docs []models.KnowledgeDocument
	if err := s.db.Store().Find(&docs, badgerhold.Where("Text").RegExp(regex).Limit(limit)); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	result := make([]*models.KnowledgeDocument, len(docs))
	for i := range docs {
		result[i] = &docs[i]
	}
	return result, nil
}

func (s *DocumentStorage) CountDocuments() (int, error) {
	var docs []models.KnowledgeDocument
	if err := s.db.Store().Find(&docs, nil); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return len(docs), nil
}
