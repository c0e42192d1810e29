package interfaces

import (
	"context"

	"github.com/wealthview/wealthview/internal/models"
)

// PortfolioService resolves the portfolio data source for a user and
// normalizes live brokerage data into the canonical Portfolio.
type PortfolioService interface {
	// Resolve applies the three-tier policy (none / demo / live / error) fresh
	// on every call. Live brokerage failures degrade to Source=error and are
	// never returned as an error from Resolve.
	Resolve(ctx context.Context, userID string) (*models.Resolution, error)

	// History returns the most recent portfolio snapshots for the user
	History(ctx context.Context, userID string, limit int) ([]*models.PortfolioSnapshot, error)

	// RenderHistoryChart renders snapshot totals as a PNG line chart
	RenderHistoryChart(ctx context.Context, userID string, limit int) ([]byte, error)
}

// InsightService generates AI portfolio analysis.
type InsightService interface {
	// Generate builds the prompt from the user's resolved portfolio, performs
	// one completion call, and parses the response. No retries.
	Generate(ctx context.Context, userID string) (*models.InsightsResult, error)
}

// ConnectionService manages exchange connections.
type ConnectionService interface {
	Connect(ctx context.Context, conn *models.Connection) error
	Disconnect(ctx context.Context, userID, exchangeSlug string) error
	List(ctx context.Context, userID string) ([]*models.Connection, error)

	// SeedDemo upserts the demo connections for the user and returns the count
	SeedDemo(ctx context.Context, userID string) (int, error)
}
