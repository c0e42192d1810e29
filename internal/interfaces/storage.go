package interfaces

import (
	"context"

	"github.com/wealthview/wealthview/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	InternalStore() InternalStore
	ConnectionStore() ConnectionStore
	SnapshotStore() SnapshotStore

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts and system-level KV.
type InternalStore interface {
	// GetUser and GetUserByEmail return (nil, nil) when no such user exists
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error

	// System key-value (non-user-scoped)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// ConnectionStore persists per-user exchange connections, upserting on the
// (user id, exchange slug) composite key.
type ConnectionStore interface {
	// GetActive returns the active connection for the provider, or (nil, nil)
	// when no active row exists.
	GetActive(ctx context.Context, userID, exchangeSlug string) (*models.Connection, error)

	// ListActive returns all active connections for the user
	ListActive(ctx context.Context, userID string) ([]*models.Connection, error)

	// List returns all connection rows for the user, active or not
	List(ctx context.Context, userID string) ([]*models.Connection, error)

	// Upsert creates or replaces the row for (conn.UserID, conn.ExchangeSlug)
	Upsert(ctx context.Context, conn *models.Connection) error

	// Disconnect nulls credentials and deactivates the row, keeping it for history
	Disconnect(ctx context.Context, userID, exchangeSlug string) error
}

// SnapshotStore is the append-only portfolio snapshot history.
type SnapshotStore interface {
	Append(ctx context.Context, snapshot *models.PortfolioSnapshot) error

	// History returns snapshots newest-first, up to limit
	History(ctx context.Context, userID, exchangeSlug string, limit int) ([]*models.PortfolioSnapshot, error)
}
