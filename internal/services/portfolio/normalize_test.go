package portfolio

import (
	"math"
	"testing"

	"github.com/wealthview/wealthview/internal/models"
)

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestNormalize_AccountAggregates(t *testing.T) {
	account := &models.AlpacaAccount{
		PortfolioValue: "1000.00",
		Equity:         "1000.00",
		LastEquity:     "950.00",
		Cash:           "100.00",
	}
	positions := []models.AlpacaPosition{
		{Symbol: "AAPL", Qty: "5", MarketValue: "500.00", CostBasis: "450.00", UnrealizedPL: "50.00", UnrealizedPLPct: "0.1111"},
	}

	p := Normalize(account, positions)

	if p.TotalValue != 1000 {
		t.Errorf("total value = %v, want 1000", p.TotalValue)
	}
	if p.CashBalance != 100 {
		t.Errorf("cash balance = %v, want 100", p.CashBalance)
	}
	if p.DayPL != 50 {
		t.Errorf("day P&L = %v, want 50", p.DayPL)
	}
	if !approx(p.DayPLPct, 5.263, 0.001) {
		t.Errorf("day P&L pct = %v, want ~5.263", p.DayPLPct)
	}

	if len(p.Positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(p.Positions))
	}
	pos := p.Positions[0]
	if pos.Value != 500 || pos.CostBasis != 450 || pos.UnrealizedPL != 50 {
		t.Errorf("position = %+v, want value 500 / cost 450 / pl 50", pos)
	}
	if !approx(pos.UnrealizedPLPct, 11.11, 0.001) {
		t.Errorf("unrealized pct = %v, want 11.11", pos.UnrealizedPLPct)
	}
	if !pos.IsGain {
		t.Error("position with positive P&L should be a gain")
	}
	if pos.Exchange != "Alpaca" {
		t.Errorf("exchange = %q, want Alpaca", pos.Exchange)
	}
}

func TestNormalize_DayPLPctGuard(t *testing.T) {
	for _, lastEquity := range []string{"0", "-100.00", "garbage"} {
		account := &models.AlpacaAccount{Equity: "500.00", LastEquity: lastEquity}
		p := Normalize(account, nil)
		if p.DayPLPct != 0 {
			t.Errorf("last_equity=%q: day P&L pct = %v, want 0", lastEquity, p.DayPLPct)
		}
	}
}

func TestNormalize_MalformedFieldsBecomeZero(t *testing.T) {
	account := &models.AlpacaAccount{
		PortfolioValue: "not-a-number",
		Equity:         "",
		LastEquity:     "NaN",
		Cash:           "Inf",
	}
	positions := []models.AlpacaPosition{
		{Symbol: "X", Qty: "abc", MarketValue: "", CostBasis: "1e999", UnrealizedPL: "-", UnrealizedPLPct: ""},
	}

	p := Normalize(account, positions)

	if p.TotalValue != 0 || p.CashBalance != 0 || p.DayPL != 0 || p.DayPLPct != 0 {
		t.Errorf("aggregates = %+v, want all zero", p)
	}
	pos := p.Positions[0]
	if pos.Qty != 0 || pos.Value != 0 || pos.CostBasis != 0 || pos.UnrealizedPL != 0 || pos.UnrealizedPLPct != 0 {
		t.Errorf("position = %+v, want all numeric fields zero", pos)
	}
	if !pos.IsGain {
		t.Error("zero P&L should count as a gain")
	}
}

func TestNormalize_AllocationsSumToHundred(t *testing.T) {
	account := &models.AlpacaAccount{Equity: "1000", LastEquity: "1000", PortfolioValue: "1000"}
	positions := []models.AlpacaPosition{
		{Symbol: "A", MarketValue: "600.00", UnrealizedPL: "0"},
		{Symbol: "B", MarketValue: "300.00", UnrealizedPL: "0"},
		{Symbol: "C", MarketValue: "100.00", UnrealizedPL: "0"},
	}

	p := Normalize(account, positions)

	sum := 0.0
	for _, pos := range p.Positions {
		sum += pos.Allocation
	}
	if !approx(sum, 100, 0.0001) {
		t.Errorf("allocation sum = %v, want 100", sum)
	}
	if !approx(p.Positions[0].Allocation, 60, 0.0001) {
		t.Errorf("A allocation = %v, want 60", p.Positions[0].Allocation)
	}
}

func TestNormalize_EmptyPositions(t *testing.T) {
	account := &models.AlpacaAccount{Equity: "100.00", LastEquity: "100.00", PortfolioValue: "100.00", Cash: "100.00"}

	p := Normalize(account, nil)

	if p.Positions == nil {
		t.Error("positions should be an empty slice, not nil")
	}
	if len(p.Positions) != 0 {
		t.Errorf("positions = %d, want 0", len(p.Positions))
	}
	if p.TotalValue != 100 {
		t.Errorf("total value = %v, want 100", p.TotalValue)
	}
}

func TestNormalize_NegativePLIsNotGain(t *testing.T) {
	account := &models.AlpacaAccount{Equity: "1000", LastEquity: "1000"}
	positions := []models.AlpacaPosition{
		{Symbol: "SOL", MarketValue: "100.00", UnrealizedPL: "-5.00", UnrealizedPLPct: "-0.05"},
	}

	p := Normalize(account, positions)

	pos := p.Positions[0]
	if pos.IsGain {
		t.Error("negative P&L should not be a gain")
	}
	if !approx(pos.UnrealizedPLPct, -5, 0.0001) {
		t.Errorf("unrealized pct = %v, want -5", pos.UnrealizedPLPct)
	}
}

func TestMockPortfolio_FreshCopy(t *testing.T) {
	a := MockPortfolio()
	a.Positions[0].Symbol = "MUTATED"

	b := MockPortfolio()
	if b.Positions[0].Symbol != "BTC" {
		t.Error("MockPortfolio should return a fresh copy on every call")
	}
	if b.TotalValue != MockTotalValue {
		t.Errorf("total = %v, want %v", b.TotalValue, MockTotalValue)
	}
	if len(b.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(b.Positions))
	}
}
