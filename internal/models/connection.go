// Package models defines data structures for Wealthview
package models

import (
	"strings"
	"time"
)

// DemoKeyPrefix marks seed/sample credentials. Keys with this prefix identify
// demo connections and are never sent to a real upstream.
const DemoKeyPrefix = "demo-key"

// ExchangeAlpaca is the provider slug for the Alpaca brokerage integration.
const ExchangeAlpaca = "alpaca"

// ConnectionType describes how an exchange connection authenticates.
type ConnectionType string

const (
	ConnectionTypeAPIKey     ConnectionType = "api_key"
	ConnectionTypeOAuth      ConnectionType = "oauth"
	ConnectionTypeComingSoon ConnectionType = "coming_soon"
)

// Connection is one user's link to one exchange. At most one active row exists
// per (user, exchange slug) pair; disconnecting nulls the credentials and
// deactivates the row but keeps it for history.
type Connection struct {
	UserID         string         `json:"user_id"`
	ExchangeSlug   string         `json:"exchange_slug"`
	ExchangeName   string         `json:"exchange_name"`
	ConnectionType ConnectionType `json:"connection_type"`
	APIKey         string         `json:"api_key,omitempty"`
	APISecret      string         `json:"api_secret,omitempty"`
	APIPassphrase  string         `json:"api_passphrase,omitempty"`
	IsActive       bool           `json:"is_active"`
	LastSyncedAt   *time.Time     `json:"last_synced_at,omitempty"`
}

// IsDemo reports whether this connection holds seed/sample credentials.
func (c *Connection) IsDemo() bool {
	return strings.HasPrefix(c.APIKey, DemoKeyPrefix)
}

// HasCredentials reports whether both key and secret are present.
func (c *Connection) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}
