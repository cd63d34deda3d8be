package interfaces

import (
	"github.com/ternarybob/colligo/internal/models"
)

// DocumentStorage persists knowledge documents.
type DocumentStorage interface {
	SaveDocument(doc *models.KnowledgeDocument) error
	SaveDocuments(docs []*models.KnowledgeDocument) error
	GetDocument(id string) (*models.KnowledgeDocument, error)
	SearchDocuments(query string, limit int) ([]*models.KnowledgeDocument, error)
	CountDocuments() (int, error)
}

// PortfolioStorage persists user portfolio holdings.
type PortfolioStorage interface {
	GetHoldings(userID string) ([]models.Holding, error)
	SaveHoldings(userID string, holdings []models.Holding) error
}

// RegistryStorage caches the company registry snapshot between processes.
type RegistryStorage interface {
	LoadSnapshot() (*models.RegistrySnapshot, error)
	SaveSnapshot(snapshot *models.RegistrySnapshot) error
}

// StorageManager owns the database connection and hands out typed stores.
type StorageManager interface {
	DocumentStorage() DocumentStorage
	PortfolioStorage() PortfolioStorage
	RegistryStorage() RegistryStorage
	Close() error
}
