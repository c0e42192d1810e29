package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/models"
)

const snapshotWriteTimeout = 5 * time.Second

// Service implements the PortfolioService interface
type Service struct {
	storage   interfaces.StorageManager
	brokerage interfaces.BrokerageClient
	logger    *common.Logger
}

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, brokerage interfaces.BrokerageClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		storage:   storage,
		brokerage: brokerage,
		logger:    logger,
	}
}

// Resolve applies the data-source policy for the user, fresh on every call:
// no active connection yields Source=none, a demo connection yields the mock
// portfolio, and a live connection fetches and normalizes upstream data. Live
// failures degrade to Source=error instead of returning an error; only
// storage failures propagate.
func (s *Service) Resolve(ctx context.Context, userID string) (*models.Resolution, error) {
	conn, err := s.storage.ConnectionStore().GetActive(ctx, userID, models.ExchangeAlpaca)
	if err != nil {
		return nil, fmt.Errorf("failed to look up connection: %w", err)
	}

	if conn == nil || !conn.HasCredentials() {
		s.logger.Debug().Str("user_id", userID).Msg("No active brokerage connection")
		return &models.Resolution{Source: models.SourceNone}, nil
	}

	if conn.IsDemo() {
		s.logger.Debug().Str("user_id", userID).Msg("Demo connection, skipping live fetch")
		return &models.Resolution{Source: models.SourceDemo}, nil
	}

	account, positions, err := s.brokerage.GetPortfolio(ctx, conn.APIKey, conn.APISecret)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Brokerage fetch failed")
		return &models.Resolution{Source: models.SourceError, Error: err.Error()}, nil
	}

	portfolio := Normalize(account, positions)
	s.recordSnapshot(userID, portfolio)

	return &models.Resolution{Source: models.SourceAlpaca, Portfolio: portfolio}, nil
}

// recordSnapshot appends a history row for a successful live sync. The write
// is fire-and-forget on a detached context; a failure is logged and never
// surfaces to the sync caller.
func (s *Service) recordSnapshot(userID string, portfolio *models.Portfolio) {
	snapshot := &models.PortfolioSnapshot{
		ID:           uuid.New().String(),
		UserID:       userID,
		ExchangeSlug: models.ExchangeAlpaca,
		TotalValue:   portfolio.TotalValue,
		Positions:    portfolio.Positions,
		CreatedAt:    time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotWriteTimeout)
		defer cancel()

		if err := s.storage.SnapshotStore().Append(ctx, snapshot); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Snapshot write failed")
		}
	}()
}

// History returns the user's most recent snapshots, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*models.PortfolioSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	snapshots, err := s.storage.SnapshotStore().History(ctx, userID, models.ExchangeAlpaca, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}
	return snapshots, nil
}

// RenderHistoryChart renders the user's snapshot totals as a PNG line chart.
func (s *Service) RenderHistoryChart(ctx context.Context, userID string, limit int) ([]byte, error) {
	snapshots, err := s.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return RenderHistoryChart(snapshots)
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
