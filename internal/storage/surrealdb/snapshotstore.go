package surrealdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/models"
)

type SnapshotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewSnapshotStore(db *surrealdb.DB, logger *common.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:     db,
		logger: logger,
	}
}

// Append inserts one snapshot row. Rows are never updated or deleted.
func (s *SnapshotStore) Append(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}

	sql := "UPSERT type::record('portfolio_snapshot', $id) CONTENT $snapshot"
	vars := map[string]any{"id": snapshot.ID, "snapshot": snapshot}

	if _, err := surrealdb.Query[[]models.PortfolioSnapshot](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) History(ctx context.Context, userID, exchangeSlug string, limit int) ([]*models.PortfolioSnapshot, error) {
	sql := "SELECT * FROM portfolio_snapshot WHERE user_id = $user_id AND exchange_slug = $exchange_slug ORDER BY created_at DESC LIMIT $limit"
	vars := map[string]any{
		"user_id":       userID,
		"exchange_slug": exchangeSlug,
		"limit":         limit,
	}

	results, err := surrealdb.Query[[]models.PortfolioSnapshot](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}

	var snapshots []*models.PortfolioSnapshot
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			snapshots = append(snapshots, &(*results)[0].Result[i])
		}
	}
	return snapshots, nil
}
