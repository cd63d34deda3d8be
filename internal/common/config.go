package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	News        NewsConfig     `toml:"news"`
	Dart        DartConfig     `toml:"dart"`
	Claude      ClaudeConfig   `toml:"claude"`
	Research    ResearchConfig `toml:"research"`
	Schedule    ScheduleConfig `toml:"schedule"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewsConfig holds Naver Open API credentials and search behavior.
type NewsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	MaxResults   int    `toml:"max_results" validate:"min=1,max=100"`
	RateLimit    int    `toml:"rate_limit"` // requests per second
}

// DartConfig holds DART open API access configuration.
type DartConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per second
}

// ClaudeConfig holds the optional intent-classification LLM configuration.
type ClaudeConfig struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"` // duration string, e.g. "30s"
}

// ResearchConfig bounds a single collection run.
type ResearchConfig struct {
	ArticleCap     int    `toml:"article_cap" validate:"min=1"`     // max articles per company scope
	LoopBound      int    `toml:"loop_bound" validate:"min=1"`      // max planner invocations per request
	MinBodyLength  int    `toml:"min_body_length" validate:"min=1"` // article bodies shorter than this are fetch failures
	CandidateLimit int    `toml:"candidate_limit" validate:"min=1"` // max disambiguation candidates
	FetchTimeout   string `toml:"fetch_timeout"`                    // article fetch timeout, duration string
}

// ScheduleConfig enables periodic re-runs of the configured request.
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // standard 5-field cron expression
}

// NewDefaultConfig returns a Config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/colligo",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		News: NewsConfig{
			MaxResults: 50,
			RateLimit:  5,
		},
		Dart: DartConfig{
			BaseURL:   "https://opendart.fss.or.kr/api",
			RateLimit: 5,
		},
		Claude: ClaudeConfig{
			Timeout: "30s",
		},
		Research: ResearchConfig{
			ArticleCap:     2,
			LoopBound:      50,
			MinBodyLength:  200,
			CandidateLimit: 10,
			FetchTimeout:   "20s",
		},
	}
}

// LoadFromFiles loads configuration from one or more TOML files.
// Later files override earlier ones; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies COLLIGO_* environment variables over file values
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COLLIGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if badgerPath := os.Getenv("COLLIGO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("COLLIGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("COLLIGO_LOG_OUTPUT"); output != "" {
		config.Logging.Output = strings.Split(output, ",")
	}

	if id := os.Getenv("NAVER_CLIENT_ID"); id != "" {
		config.News.ClientID = id
	}
	if secret := os.Getenv("NAVER_CLIENT_SECRET"); secret != "" {
		config.News.ClientSecret = secret
	}

	if key := os.Getenv("DART_API_KEY"); key != "" {
		config.Dart.APIKey = key
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	if bound := os.Getenv("COLLIGO_LOOP_BOUND"); bound != "" {
		if n, err := strconv.Atoi(bound); err == nil && n > 0 {
			config.Research.LoopBound = n
		}
	}
	if artCap := os.Getenv("COLLIGO_ARTICLE_CAP"); artCap != "" {
		if n, err := strconv.Atoi(artCap); err == nil && n > 0 {
			config.Research.ArticleCap = n
		}
	}
}

// Validate checks structural constraints and the cron schedule if enabled
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Schedule.Enabled {
		if err := ValidateSchedule(c.Schedule.Cron); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSchedule validates a 5-field cron expression
func ValidateSchedule(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("schedule is enabled but cron expression is empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
