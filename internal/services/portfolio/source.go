// Package portfolio serves user holdings to the research engine from the
// portfolio store, with a YAML seed path for loading holdings at startup.
package portfolio

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"gopkg.in/yaml.v3"
)

// Source reads holdings for the engine.
type Source struct {
	storage interfaces.PortfolioStorage
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PortfolioSource = (*Source)(nil)

// NewSource creates a portfolio source over portfolio storage.
func NewSource(storage interfaces.PortfolioStorage, logger arbor.ILogger) *Source {
	return &Source{
		storage: storage,
		logger:  logger,
	}
}

// GetHoldings loads one user's holdings. A user with no stored portfolio is
// not-found, not an error.
func (s *Source) GetHoldings(ctx context.Context, userID string) *models.HoldingsResult {
	if userID == "" {
		return &models.HoldingsResult{
			Status:  models.StatusError,
			Message: "user id is required for a portfolio request",
		}
	}

	holdings, err := s.storage.GetHoldings(userID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Holdings load failed")
		}
		return &models.HoldingsResult{
			Status:  models.StatusError,
			UserID:  userID,
			Message: err.Error(),
		}
	}

	if len(holdings) == 0 {
		return &models.HoldingsResult{
			Status:  models.StatusNotFound,
			UserID:  userID,
			Message: fmt.Sprintf("no holdings stored for user %s", userID),
		}
	}

	return &models.HoldingsResult{
		Status:   models.StatusSuccess,
		UserID:   userID,
		Holdings: holdings,
	}
}

// seedFile is the YAML shape of a holdings seed document.
type seedFile struct {
	UserID   string           `yaml:"user_id"`
	Holdings []models.Holding `yaml:"holdings"`
}

// SeedFromFile loads holdings for one user from a YAML file into storage.
// Used at startup so a fresh database can serve portfolio requests.
func SeedFromFile(storage interfaces.PortfolioStorage, path string, logger arbor.ILogger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read holdings file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse holdings file: %w", err)
	}
	if seed.UserID == "" {
		return fmt.Errorf("holdings file %s has no user_id", path)
	}

	if err := storage.SaveHoldings(seed.UserID, seed.Holdings); err != nil {
		return err
	}

	if logger != nil {
		logger.Info().Str("user_id", seed.UserID).Int("holdings", len(seed.Holdings)).Msg("Holdings seeded from file")
	}
	return nil
}
