// Package interfaces defines service contracts for Wealthview
package interfaces

import (
	"context"

	"github.com/wealthview/wealthview/internal/models"
)

// BrokerageClient provides read-only access to one brokerage's account API.
// Credentials are passed per call; the client holds no user state and never
// caches responses.
type BrokerageClient interface {
	// GetAccount retrieves the raw account snapshot
	GetAccount(ctx context.Context, apiKey, apiSecret string) (*models.AlpacaAccount, error)

	// GetPositions retrieves the raw open positions, in upstream order
	GetPositions(ctx context.Context, apiKey, apiSecret string) ([]models.AlpacaPosition, error)

	// GetPortfolio fetches account and positions concurrently.
	// If either call fails the whole operation fails, no partial data.
	GetPortfolio(ctx context.Context, apiKey, apiSecret string) (*models.AlpacaAccount, []models.AlpacaPosition, error)
}

// CompletionClient provides access to a hosted LLM completion endpoint.
type CompletionClient interface {
	// Complete sends a single-turn chat completion and returns the text blob
	Complete(ctx context.Context, prompt string) (string, error)
}

// EmailClient sends transactional email.
type EmailClient interface {
	// SendWelcome sends the post-signup welcome email
	SendWelcome(ctx context.Context, to, name string) error
}
