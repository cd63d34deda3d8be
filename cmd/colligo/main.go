package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/app"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles     configPaths // Multiple -config flags supported
	requestFile     = flag.String("request", "", "Research request definition file (YAML)")
	query           = flag.String("query", "", "Research query (overrides request file)")
	userID          = flag.String("user", "", "User id for portfolio requests")
	holdingsFile    = flag.String("holdings", "", "Seed portfolio holdings from a YAML file before running")
	refreshRegistry = flag.Bool("refresh-registry", false, "Force a fresh company registry download and exit")
	showVersion     = flag.Bool("version", false, "Print version information")
	showVersionV    = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Colligo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("colligo.toml"); err == nil {
			configFiles = append(configFiles, "colligo.toml")
		} else if _, err := os.Stat("deployments/local/colligo.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/colligo.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the run on interrupt so partial results still get logged.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("Interrupt signal received")
		cancel()
	}()

	if *refreshRegistry {
		if err := application.RefreshRegistry(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Registry refresh failed")
		}
		logger.Info().Msg("Company registry refreshed")
		return
	}

	if *holdingsFile != "" {
		if err := application.SeedHoldings(*holdingsFile); err != nil {
			logger.Fatal().Err(err).Str("path", *holdingsFile).Msg("Failed to seed holdings")
		}
	}

	request, err := buildRequest()
	if err != nil {
		logger.Fatal().Err(err).Msg("No runnable request")
	}

	if config.Schedule.Enabled {
		runScheduled(ctx, application, request)
		return
	}

	runOnce(ctx, application, request)
}

// buildRequest assembles the research request from the request file and
// flag overrides.
func buildRequest() (*models.ResearchRequest, error) {
	var request *models.ResearchRequest

	if *requestFile != "" {
		loaded, err := models.LoadRequest(*requestFile)
		if err != nil {
			return nil, err
		}
		request = loaded
	} else {
		request = &models.ResearchRequest{}
	}

	if *query != "" {
		request.Query = *query
	}
	if *userID != "" {
		request.UserID = *userID
	}

	if request.Query == "" {
		return nil, fmt.Errorf("provide a query via -query or -request")
	}
	return request, nil
}

func runOnce(ctx context.Context, application *app.App, request *models.ResearchRequest) {
	doc, err := application.RunRequest(ctx, request)
	if err != nil {
		logger.Fatal().Err(err).Msg("Research request failed")
	}

	fmt.Print(app.RenderSummary(doc))
}

// runScheduled re-runs the request on the configured cron schedule until
// interrupted.
func runScheduled(ctx context.Context, application *app.App, request *models.ResearchRequest) {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(config.Schedule.Cron, func() {
		doc, err := application.RunRequest(ctx, request)
		if err != nil {
			logger.Error().Err(err).Msg("Scheduled research request failed")
			return
		}
		fmt.Print(app.RenderSummary(doc))
	})
	if err != nil {
		logger.Fatal().Err(err).Str("cron", config.Schedule.Cron).Msg("Invalid schedule")
	}

	scheduler.Start()
	logger.Info().Str("cron", config.Schedule.Cron).Msg("Scheduler started - Press Ctrl+C to stop")

	<-ctx.Done()

	logger.Info().Msg("Shutting down scheduler")
	<-scheduler.Stop().Done()
}
