package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// registrySnapshotKey is the single key under which the company registry
// snapshot is cached.
const registrySnapshotKey = "company_registry"

// RegistryStorage implements the RegistryStorage interface for Badger
type RegistryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRegistryStorage creates a new RegistryStorage instance
func NewRegistryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RegistryStorage {
	return &RegistryStorage{
		db:     db,
		logger: logger,
	}
}

// LoadSnapshot returns the cached registry snapshot, or nil when none has
// been saved yet.
func (s *RegistryStorage) LoadSnapshot() (*models.RegistrySnapshot, error) {
	var snapshot models.RegistrySnapshot
	if err := s.db.Store().Get(registrySnapshotKey, &snapshot); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load registry snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *RegistryStorage) SaveSnapshot(snapshot *models.RegistrySnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}

	if err := s.db.Store().Upsert(registrySnapshotKey, snapshot); err != nil {
		return fmt.Errorf("failed to save registry snapshot: %w", err)
	}

	s.logger.Debug().Int("companies", len(snapshot.Companies)).Msg("Registry snapshot cached")
	return nil
}
