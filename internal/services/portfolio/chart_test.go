package portfolio

import (
	"bytes"
	"testing"
	"time"

	"github.com/wealthview/wealthview/internal/models"
)

func TestRenderHistoryChart_ProducesPNG(t *testing.T) {
	now := time.Now()
	snapshots := []*models.PortfolioSnapshot{
		{TotalValue: 1100, CreatedAt: now},
		{TotalValue: 1050, CreatedAt: now.Add(-24 * time.Hour)},
		{TotalValue: 1000, CreatedAt: now.Add(-48 * time.Hour)},
	}

	png, err := RenderHistoryChart(snapshots)
	if err != nil {
		t.Fatalf("RenderHistoryChart returned error: %v", err)
	}

	// PNG magic bytes
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderHistoryChart_RequiresTwoPoints(t *testing.T) {
	snapshots := []*models.PortfolioSnapshot{
		{TotalValue: 1000, CreatedAt: time.Now()},
	}

	if _, err := RenderHistoryChart(snapshots); err == nil {
		t.Fatal("expected error for a single snapshot, got nil")
	}
}
