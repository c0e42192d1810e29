package portfolio

import "github.com/wealthview/wealthview/internal/models"

// Mock portfolio aggregates shown for demo connections.
const (
	MockTotalValue  = 47832.50
	MockDayPL       = 1284.20
	MockDayPLPct    = 2.76
	MockCashBalance = 0.0
)

// MockPortfolio returns the fixed sample portfolio used for demo connections.
// A fresh copy is built on every call so callers can mutate it freely.
func MockPortfolio() *models.Portfolio {
	return &models.Portfolio{
		TotalValue:  MockTotalValue,
		CashBalance: MockCashBalance,
		DayPL:       MockDayPL,
		DayPLPct:    MockDayPLPct,
		Positions: []models.Position{
			{
				Symbol:          "BTC",
				Name:            "Bitcoin",
				Qty:             0.2847,
				Value:           18421.00,
				CostBasis:       17850.00,
				UnrealizedPL:    571.00,
				UnrealizedPLPct: 3.2,
				Allocation:      38.5,
				IsGain:          true,
				Exchange:        "Coinbase",
			},
			{
				Symbol:          "AAPL",
				Name:            "Apple Inc.",
				Qty:             52,
				Value:           12350.00,
				CostBasis:       12300.00,
				UnrealizedPL:    50.00,
				UnrealizedPLPct: 0.4,
				Allocation:      25.8,
				IsGain:          true,
				Exchange:        "Alpaca",
			},
			{
				Symbol:          "ETH",
				Name:            "Ethereum",
				Qty:             2.91,
				Value:           9840.00,
				CostBasis:       9666.00,
				UnrealizedPL:    174.00,
				UnrealizedPLPct: 1.8,
				Allocation:      20.6,
				IsGain:          true,
				Exchange:        "Coinbase",
			},
			{
				Symbol:          "SOL",
				Name:            "Solana",
				Qty:             48.1,
				Value:           7221.50,
				CostBasis:       7287.00,
				UnrealizedPL:    -65.50,
				UnrealizedPLPct: -0.9,
				Allocation:      15.1,
				IsGain:          false,
				Exchange:        "Binance",
			},
		},
	}
}
