// Package portfolio resolves and normalizes brokerage portfolio data
package portfolio

import (
	"math"
	"strconv"

	"github.com/wealthview/wealthview/internal/models"
)

// parseDecimal converts an upstream decimal string to a float. Upstream sends
// every numeric field as a string; anything unparseable, NaN or infinite
// normalizes to zero so one bad field cannot poison the aggregate.
func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Normalize converts a raw account and position set into the canonical
// Portfolio. Position order is preserved from upstream.
func Normalize(account *models.AlpacaAccount, positions []models.AlpacaPosition) *models.Portfolio {
	equity := parseDecimal(account.Equity)
	lastEquity := parseDecimal(account.LastEquity)

	dayPL := equity - lastEquity
	dayPLPct := 0.0
	if lastEquity > 0 {
		dayPLPct = dayPL / lastEquity * 100
	}

	// Allocation denominator is the sum of position market values, not account
	// equity, so allocations always total 100 even with a cash balance.
	positionTotal := 0.0
	for _, p := range positions {
		positionTotal += parseDecimal(p.MarketValue)
	}
	denom := positionTotal
	if denom == 0 {
		denom = 1
	}

	normalized := make([]models.Position, 0, len(positions))
	for _, p := range positions {
		value := parseDecimal(p.MarketValue)
		pl := parseDecimal(p.UnrealizedPL)

		normalized = append(normalized, models.Position{
			Symbol:          p.Symbol,
			Name:            p.Symbol,
			Qty:             parseDecimal(p.Qty),
			Value:           value,
			CostBasis:       parseDecimal(p.CostBasis),
			UnrealizedPL:    pl,
			UnrealizedPLPct: parseDecimal(p.UnrealizedPLPct) * 100,
			Allocation:      value / denom * 100,
			IsGain:          pl >= 0,
			Exchange:        "Alpaca",
		})
	}

	return &models.Portfolio{
		TotalValue:  parseDecimal(account.PortfolioValue),
		CashBalance: parseDecimal(account.Cash),
		DayPL:       dayPL,
		DayPLPct:    dayPLPct,
		Positions:   normalized,
	}
}
