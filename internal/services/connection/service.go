// Package connection manages user exchange connections
package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/models"
)

// ErrInvalidConnection is returned when a connect request is missing required
// fields.
var ErrInvalidConnection = errors.New("invalid connection request")

// demoConnections are the sample rows seeded by SeedDemo. Their demo-key
// credentials are recognized by the resolver and never sent upstream.
var demoConnections = []models.Connection{
	{
		ExchangeSlug:   "coinbase",
		ExchangeName:   "Coinbase",
		ConnectionType: models.ConnectionTypeAPIKey,
		APIKey:         "demo-key-coinbase",
		APISecret:      "demo-secret-coinbase",
	},
	{
		ExchangeSlug:   "binance",
		ExchangeName:   "Binance",
		ConnectionType: models.ConnectionTypeAPIKey,
		APIKey:         "demo-key-binance",
		APISecret:      "demo-secret-binance",
	},
	{
		ExchangeSlug:   models.ExchangeAlpaca,
		ExchangeName:   "Alpaca",
		ConnectionType: models.ConnectionTypeAPIKey,
		APIKey:         "demo-key-alpaca",
		APISecret:      "demo-secret-alpaca",
	},
}

// Service implements the ConnectionService interface
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new connection service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Connect validates and upserts an exchange connection for the user. An
// existing row for the same (user, exchange) pair is replaced.
func (s *Service) Connect(ctx context.Context, conn *models.Connection) error {
	if conn.UserID == "" || conn.ExchangeSlug == "" {
		return fmt.Errorf("%w: user and exchange are required", ErrInvalidConnection)
	}
	if conn.ConnectionType == models.ConnectionTypeAPIKey && !conn.HasCredentials() {
		return fmt.Errorf("%w: api key and secret are required", ErrInvalidConnection)
	}

	conn.IsActive = true
	now := time.Now().UTC()
	conn.LastSyncedAt = &now

	if err := s.storage.ConnectionStore().Upsert(ctx, conn); err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}

	s.logger.Info().
		Str("user_id", conn.UserID).
		Str("exchange", conn.ExchangeSlug).
		Msg("Exchange connected")

	return nil
}

// Disconnect deactivates the user's connection and removes its credentials.
// The row is kept for history.
func (s *Service) Disconnect(ctx context.Context, userID, exchangeSlug string) error {
	if userID == "" || exchangeSlug == "" {
		return fmt.Errorf("%w: user and exchange are required", ErrInvalidConnection)
	}

	if err := s.storage.ConnectionStore().Disconnect(ctx, userID, exchangeSlug); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("exchange", exchangeSlug).
		Msg("Exchange disconnected")

	return nil
}

// List returns the user's active connections.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Connection, error) {
	conns, err := s.storage.ConnectionStore().ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// SeedDemo upserts the demo connections for the user and returns how many
// were seeded. Seeding is idempotent.
func (s *Service) SeedDemo(ctx context.Context, userID string) (int, error) {
	now := time.Now().UTC()

	for _, demo := range demoConnections {
		conn := demo
		conn.UserID = userID
		conn.IsActive = true
		conn.LastSyncedAt = &now

		if err := s.storage.ConnectionStore().Upsert(ctx, &conn); err != nil {
			return 0, fmt.Errorf("failed to seed %s: %w", conn.ExchangeSlug, err)
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("count", len(demoConnections)).
		Msg("Demo exchanges seeded")

	return len(demoConnections), nil
}

// Ensure Service implements ConnectionService
var _ interfaces.ConnectionService = (*Service)(nil)
