package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// portfolioRecord is the stored shape of one user's holdings.
type portfolioRecord struct {
	UserID    string           `badgerhold:"key"`
	Holdings  []models.Holding `json:"holdings"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PortfolioStorage implements the PortfolioStorage interface for Badger
type PortfolioStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPortfolioStorage creates a new PortfolioStorage instance
func NewPortfolioStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PortfolioStorage {
	return &PortfolioStorage{
		db:     db,
		logger: logger,
	}
}

func (s *PortfolioStorage) GetHoldings(userID string) ([]models.Holding, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	var record portfolioRecord
	if err := s.db.Store().Get(userID, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	return record.Holdings, nil
}

func (s *PortfolioStorage) SaveHoldings(userID string, holdings []models.Holding) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	record := portfolioRecord{
		UserID:    userID,
		Holdings:  holdings,
		UpdatedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(userID, &record); err != nil {
		return fmt.Errorf("failed to save holdings: %w", err)
	}

	s.logger.Debug().Str("user_id", userID).Int("holdings", len(holdings)).Msg("Holdings saved")
	return nil
}
