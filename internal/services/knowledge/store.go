// Package knowledge adapts document storage into the batch persistence
// contract the research engine calls.
package knowledge

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

// Store writes knowledge documents to the backing document storage.
type Store struct {
	documents interfaces.DocumentStorage
	logger    arbor.ILogger
}

// Compile-time assertion
var _ interfaces.KnowledgeStore = (*Store)(nil)

// NewStore creates a knowledge store over document storage.
func NewStore(documents interfaces.DocumentStorage, logger arbor.ILogger) *Store {
	return &Store{
		documents: documents,
		logger:    logger,
	}
}

// PersistDocuments writes one batch. The write is all-or-nothing from the
// caller's view: any storage error fails the whole batch, and the caller
// keeps its queue for a retry on a later pass.
func (s *Store) PersistDocuments(ctx context.Context, texts []string, metadatas []map[string]interface{}) *models.PersistResult {
	if len(texts) != len(metadatas) {
		return &models.PersistResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("texts/metadatas length mismatch: %d vs %d", len(texts), len(metadatas)),
		}
	}
	if len(texts) == 0 {
		return &models.PersistResult{Status: models.StatusSuccess}
	}

	docs := make([]*models.KnowledgeDocument, 0, len(texts))
	for i, text := range texts {
		docs = append(docs, &models.KnowledgeDocument{
			ID:       common.NewDocumentID(),
			Text:     text,
			Metadata: models.FilterMetadata(metadatas[i]),
		})
	}

	if err := s.documents.SaveDocuments(docs); err != nil {
		if s.logger != nil {
			s.logger.Warn().Err(err).Int("batch_size", len(docs)).Msg("Knowledge batch write failed")
		}
		return &models.PersistResult{
			Status:  models.StatusError,
			Message: err.Error(),
		}
	}

	if s.logger != nil {
		s.logger.Info().Int("saved", len(docs)).Msg("Knowledge batch persisted")
	}

	return &models.PersistResult{
		Status:     models.StatusSuccess,
		SavedCount: len(docs),
	}
}
