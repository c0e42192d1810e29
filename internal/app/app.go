// Package app wires configuration, storage, clients and services together
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wealthview/wealthview/internal/clients/alpaca"
	"github.com/wealthview/wealthview/internal/clients/openrouter"
	"github.com/wealthview/wealthview/internal/clients/resend"
	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/services/connection"
	"github.com/wealthview/wealthview/internal/services/insight"
	"github.com/wealthview/wealthview/internal/services/portfolio"
	"github.com/wealthview/wealthview/internal/storage/surrealdb"
)

// App holds all initialized services and clients. It is the shared core used
// by cmd/wealthview-server.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	BrokerageClient   interfaces.BrokerageClient
	CompletionClient  interfaces.CompletionClient
	EmailClient       interfaces.EmailClient
	PortfolioService  interfaces.PortfolioService
	InsightService    interfaces.InsightService
	ConnectionService interfaces.ConnectionService
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, WEALTHVIEW_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("WEALTHVIEW_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "wealthview.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/wealthview.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Resolve API keys
	ctx := context.Background()
	internalStore := storageManager.InternalStore()

	openRouterKey, err := common.ResolveAPIKey(ctx, internalStore, "openrouter_api_key", config.Clients.OpenRouter.APIKey)
	if err != nil {
		logger.Warn().Msg("OpenRouter API key not configured - AI insights will be unavailable")
	}

	resendKey, err := common.ResolveAPIKey(ctx, internalStore, "resend_api_key", config.Clients.Resend.APIKey)
	if err != nil {
		logger.Warn().Msg("Resend API key not configured - welcome emails will be skipped")
	}

	// Initialize API clients. The brokerage client is always available since
	// it authenticates per request with user-supplied credentials.
	brokerageClient := alpaca.NewClient(
		alpaca.WithBaseURL(config.Clients.Alpaca.BaseURL),
		alpaca.WithEnvironments(config.Clients.Alpaca.Environments),
		alpaca.WithLogger(logger),
		alpaca.WithRateLimit(config.Clients.Alpaca.RateLimit),
		alpaca.WithTimeout(config.Clients.Alpaca.GetTimeout()),
	)

	var completionClient interfaces.CompletionClient
	if openRouterKey != "" {
		completionClient = openrouter.NewClient(openRouterKey,
			openrouter.WithBaseURL(config.Clients.OpenRouter.BaseURL),
			openrouter.WithModel(config.Clients.OpenRouter.Model),
			openrouter.WithTemperature(config.Clients.OpenRouter.Temperature),
			openrouter.WithMaxTokens(config.Clients.OpenRouter.MaxTokens),
			openrouter.WithTimeout(config.Clients.OpenRouter.GetTimeout()),
			openrouter.WithLogger(logger),
		)
	}

	var emailClient interfaces.EmailClient
	if resendKey != "" {
		emailClient = resend.NewClient(resendKey,
			resend.WithFrom(config.Clients.Resend.From),
			resend.WithAppURL(config.Clients.Resend.AppURL),
			resend.WithLogger(logger),
		)
	}

	// Initialize services
	portfolioService := portfolio.NewService(storageManager, brokerageClient, logger)
	insightService := insight.NewService(portfolioService, completionClient, logger)
	connectionService := connection.NewService(storageManager, logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		BrokerageClient:   brokerageClient,
		CompletionClient:  completionClient,
		EmailClient:       emailClient,
		PortfolioService:  portfolioService,
		InsightService:    insightService,
		ConnectionService: connectionService,
		StartupTime:       startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
