package models

import (
	"time"
)

// Position is one normalized holding within a Portfolio.
type Position struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Qty             float64 `json:"qty"`
	Value           float64 `json:"value"`
	CostBasis       float64 `json:"cost_basis"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_pl_pct"`
	Allocation      float64 `json:"allocation"`
	IsGain          bool    `json:"up"`
	Exchange        string  `json:"exchange"`
}

// Portfolio is the canonical normalized view of one brokerage account.
// TotalValue is the account's reported equity, not the sum of positions; the
// two diverge when a cash balance is present.
type Portfolio struct {
	TotalValue  float64    `json:"total_value"`
	CashBalance float64    `json:"cash_balance"`
	DayPL       float64    `json:"day_pl"`
	DayPLPct    float64    `json:"day_pl_pct"`
	Positions   []Position `json:"positions"`
}

// Resolution sources.
const (
	SourceNone   = "none"
	SourceDemo   = "demo"
	SourceAlpaca = "alpaca"
	SourceError  = "error"
)

// Resolution is the outcome of the three-tier data-source policy: no
// connection, demo connection, live portfolio, or a degraded live failure.
// Exactly one of Portfolio/Error is set for the alpaca/error sources.
type Resolution struct {
	Source    string     `json:"source"`
	Portfolio *Portfolio `json:"portfolio,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// IsLive reports whether the resolution carries real upstream data.
func (r *Resolution) IsLive() bool {
	return r.Source == SourceAlpaca && r.Portfolio != nil
}

// PortfolioSnapshot is an append-only historical record of a live sync.
// Snapshots are written fire-and-forget and never read back on the sync path.
type PortfolioSnapshot struct {
	ID           string     `json:"id,omitempty"`
	UserID       string     `json:"user_id"`
	ExchangeSlug string     `json:"exchange_slug"`
	TotalValue   float64    `json:"total_value"`
	Positions    []Position `json:"positions"`
	CreatedAt    time.Time  `json:"created_at"`
}
