package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/models"
)

type ConnectionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewConnectionStore(db *surrealdb.DB, logger *common.Logger) *ConnectionStore {
	return &ConnectionStore{
		db:     db,
		logger: logger,
	}
}

// Connection ID format: connection:<userID>_<exchangeSlug>. One row per pair,
// so upserts on the same pair replace rather than duplicate.
func connectionID(userID, exchangeSlug string) string {
	return userID + "_" + exchangeSlug
}

func (s *ConnectionStore) GetActive(ctx context.Context, userID, exchangeSlug string) (*models.Connection, error) {
	sql := "SELECT * FROM type::record('connection', $id) WHERE is_active = true"
	vars := map[string]any{"id": connectionID(userID, exchangeSlug)}

	results, err := surrealdb.Query[[]models.Connection](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

func (s *ConnectionStore) ListActive(ctx context.Context, userID string) ([]*models.Connection, error) {
	return s.list(ctx, "SELECT * FROM connection WHERE user_id = $user_id AND is_active = true", userID)
}

func (s *ConnectionStore) List(ctx context.Context, userID string) ([]*models.Connection, error) {
	return s.list(ctx, "SELECT * FROM connection WHERE user_id = $user_id", userID)
}

func (s *ConnectionStore) list(ctx context.Context, sql, userID string) ([]*models.Connection, error) {
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Connection](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	var conns []*models.Connection
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			conns = append(conns, &(*results)[0].Result[i])
		}
	}
	return conns, nil
}

func (s *ConnectionStore) Upsert(ctx context.Context, conn *models.Connection) error {
	sql := "UPSERT type::record('connection', $id) CONTENT $conn"
	vars := map[string]any{"id": connectionID(conn.UserID, conn.ExchangeSlug), "conn": conn}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Connection](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to upsert connection after retries: %w", err)
		}
	}
	return nil
}

// Disconnect deactivates the row and nulls its credentials. The row survives
// so a reconnect reuses the same record ID.
func (s *ConnectionStore) Disconnect(ctx context.Context, userID, exchangeSlug string) error {
	sql := "UPDATE type::record('connection', $id) SET is_active = false, api_key = NONE, api_secret = NONE, api_passphrase = NONE"
	vars := map[string]any{"id": connectionID(userID, exchangeSlug)}

	if _, err := surrealdb.Query[[]models.Connection](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}
