// Package app assembles configuration, storage, collaborator services and
// the research engine into one runnable application.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/engine"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/ternarybob/colligo/internal/resolver"
	"github.com/ternarybob/colligo/internal/services/article"
	"github.com/ternarybob/colligo/internal/services/dart"
	"github.com/ternarybob/colligo/internal/services/intent"
	"github.com/ternarybob/colligo/internal/services/knowledge"
	"github.com/ternarybob/colligo/internal/services/news"
	"github.com/ternarybob/colligo/internal/services/portfolio"
	badgerstorage "github.com/ternarybob/colligo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	Resolver   *resolver.Resolver
	Classifier interfaces.IntentClassifier
	Engine     *engine.Engine

	engineOpts engine.Options
}

// New creates the application: storage first, then collaborator services,
// then the engine over all of them.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	dartClient := dart.NewClient(config.Dart.APIKey,
		dart.WithBaseURL(config.Dart.BaseURL),
		dart.WithRateLimit(float64(config.Dart.RateLimit)),
		dart.WithLogger(logger),
	)

	res := resolver.New(storageManager.RegistryStorage(), dartClient,
		resolver.WithCandidateLimit(config.Research.CandidateLimit),
		resolver.WithLogger(logger),
	)

	newsClient := news.NewClient(config.News.ClientID, config.News.ClientSecret,
		news.WithMaxResults(config.News.MaxResults),
		news.WithRateLimit(config.News.RateLimit),
		news.WithLogger(logger),
	)

	fetchTimeout := parseDuration(config.Research.FetchTimeout, article.DefaultTimeout)
	articleFetcher := article.NewFetcher(
		article.WithHTTPClient(&http.Client{Timeout: fetchTimeout}),
		article.WithMinBodyLength(config.Research.MinBodyLength),
		article.WithLogger(logger),
	)

	var classifierOpts []intent.Option
	if config.Claude.Enabled {
		classifierOpts = append(classifierOpts, intent.WithClaude(config.Claude.APIKey, config.Claude.Model))
	}
	classifierOpts = append(classifierOpts, intent.WithLogger(logger))
	classifier := intent.NewClassifier(classifierOpts...)

	engineOpts := engine.Options{
		Resolver:    res,
		NewsSearch:  newsClient,
		Articles:    articleFetcher,
		Disclosures: dartClient,
		Portfolio:   portfolio.NewSource(storageManager.PortfolioStorage(), logger),
		Knowledge:   knowledge.NewStore(storageManager.DocumentStorage(), logger),
		ArticleCap:  config.Research.ArticleCap,
		LoopBound:   config.Research.LoopBound,
	}

	logger.Info().Msg("Application initialized")

	return &App{
		Config:         config,
		Logger:         logger,
		StorageManager: storageManager,
		Resolver:       res,
		Classifier:     classifier,
		Engine:         engine.New(engineOpts, logger),
		engineOpts:     engineOpts,
	}, nil
}

// RunRequest executes one research request end to end and returns the final
// research document.
func (a *App) RunRequest(ctx context.Context, request *models.ResearchRequest) (*models.ResearchDocument, error) {
	if err := a.Resolver.EnsureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("company registry unavailable: %w", err)
	}

	doc := models.NewResearchDocument(request.Query, request.UserID)

	classifyCtx := ctx
	if d := parseDuration(a.Config.Claude.Timeout, 0); d > 0 {
		var cancel context.CancelFunc
		classifyCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	classified := a.Classifier.Classify(classifyCtx, request.Query)
	doc.PortfolioMode = classified.Portfolio
	doc.FinancialInterest = classified.Financial

	a.Logger.Info().
		Str("query", request.Query).
		Str("user_id", request.UserID).
		Bool("portfolio", doc.PortfolioMode).
		Bool("financial", doc.FinancialInterest).
		Msg("Research request started")

	// Per-request bound overrides get a request-scoped engine; the shared
	// one keeps the configured bounds.
	eng := a.Engine
	if request.ArticleCap > 0 || request.LoopBound > 0 {
		opts := a.engineOpts
		if request.ArticleCap > 0 {
			opts.ArticleCap = request.ArticleCap
		}
		if request.LoopBound > 0 {
			opts.LoopBound = request.LoopBound
		}
		eng = engine.New(opts, a.Logger)
	}

	started := time.Now()
	eng.Run(ctx, doc)

	a.Logger.Info().
		Str("phase", string(doc.Phase)).
		Int("loop_count", doc.LoopCount).
		Int("articles", len(doc.Articles)).
		Int("errors", len(doc.Errors)).
		Dur("elapsed", time.Since(started)).
		Msg("Research request finished")

	return doc, nil
}

// RefreshRegistry forces a fresh download of the company registry and
// rebuilds the resolver index.
func (a *App) RefreshRegistry(ctx context.Context) error {
	return a.Resolver.Refresh(ctx)
}

// SeedHoldings loads portfolio holdings from a YAML file into storage.
func (a *App) SeedHoldings(path string) error {
	return portfolio.SeedFromFile(a.StorageManager.PortfolioStorage(), path, a.Logger)
}

// Close releases application resources.
func (a *App) Close() error {
	if a.StorageManager != nil {
		return a.StorageManager.Close()
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
