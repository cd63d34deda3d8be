package models

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ResearchRequest is a request definition loaded from a YAML file or built
// from CLI flags. Zero values defer to the [research] config section.
type ResearchRequest struct {
	Query      string `yaml:"query" validate:"required"`
	UserID     string `yaml:"user_id"`
	ArticleCap int    `yaml:"article_cap" validate:"min=0"`
	LoopBound  int    `yaml:"loop_bound" validate:"min=0"`
}

// LoadRequest reads and validates a research request definition from a YAML file.
func LoadRequest(path string) (*ResearchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}

	var req ResearchRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}

	if err := validator.New().Struct(&req); err != nil {
		return nil, fmt.Errorf("invalid request definition %s: %w", path, err)
	}

	return &req, nil
}
