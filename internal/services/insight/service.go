// Package insight generates AI portfolio analysis via a completion client
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/models"
	"github.com/wealthview/wealthview/internal/services/portfolio"
)

var (
	// ErrUnconfigured is returned when no completion client is wired in.
	ErrUnconfigured = errors.New("AI service not configured")

	// ErrResponseParse is returned when the completion text carries no
	// parseable JSON object.
	ErrResponseParse = errors.New("failed to parse AI response")
)

// Service implements the InsightService interface
type Service struct {
	portfolios interfaces.PortfolioService
	completion interfaces.CompletionClient
	logger     *common.Logger
}

// NewService creates a new insight service. completion may be nil when no API
// key is configured; Generate then fails with ErrUnconfigured.
func NewService(portfolios interfaces.PortfolioService, completion interfaces.CompletionClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		portfolios: portfolios,
		completion: completion,
		logger:     logger,
	}
}

// Generate builds the analysis prompt from the user's resolved portfolio,
// performs a single completion call and parses the response. Non-live
// resolutions analyze the sample portfolio instead of failing.
func (s *Service) Generate(ctx context.Context, userID string) (*models.InsightsResult, error) {
	if s.completion == nil {
		return nil, ErrUnconfigured
	}

	resolution, err := s.portfolios.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	isLive := resolution.IsLive()
	p := resolution.Portfolio
	if !isLive {
		p = portfolio.MockPortfolio()
	}

	prompt := buildPrompt(p, isLive)

	content, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseInsights(content)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Insight response parse failed")
		return nil, err
	}

	parsed.IsLive = isLive
	parsed.GeneratedAt = time.Now().UTC()

	return parsed, nil
}

// buildPrompt renders the deterministic analysis prompt. Same portfolio, same
// prompt: holdings appear in portfolio order with fixed number formatting.
func buildPrompt(p *models.Portfolio, isLive bool) string {
	var holdings strings.Builder
	for i, h := range p.Positions {
		if i > 0 {
			holdings.WriteByte('\n')
		}
		sign := ""
		if h.UnrealizedPLPct >= 0 {
			sign = "+"
		}
		fmt.Fprintf(&holdings, "- %s (%s) via %s: $%.2f (%.1f%%) — %s%.2f%% unrealized P&L",
			h.Symbol, h.Name, h.Exchange, h.Value, h.Allocation, sign, h.UnrealizedPLPct)
	}

	dataLabel := "sample demo data"
	if isLive {
		dataLabel = "live data"
	}

	return fmt.Sprintf(`You are a professional portfolio analyst. Analyse this investment portfolio and provide exactly 4 actionable insights.

Portfolio (%s):
Total Value: $%s
Holdings:
%s

Respond with ONLY a valid JSON object — no markdown, no explanation:
{
  "summary": "2-sentence overall portfolio assessment",
  "insights": [
    {
      "type": "risk",
      "title": "Short title (max 6 words)",
      "summary": "One sentence summary",
      "detail": "2-3 sentences of actionable analysis",
      "severity": "positive"
    }
  ]
}

Rules:
- Use these types exactly: "risk", "diversification", "performance", "recommendation"
- Use these severities exactly: "positive", "warning", "neutral"
- Return exactly 4 insights
- Pure JSON only — no markdown fences`, dataLabel, formatCurrency(p.TotalValue), holdings.String())
}

// formatCurrency renders a value with comma thousands separators and two
// decimal places, e.g. 47832.5 becomes "47,832.50".
func formatCurrency(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	fmt.Fprintf(&b, ".%02d", frac)
	return b.String()
}

// parseInsights decodes the completion text. A strict JSON parse is tried
// first; when the model wraps the object in prose or fences, the first
// balanced object is extracted and parsed instead. The decoded result must
// carry exactly four insights with known type and severity values.
func parseInsights(content string) (*models.InsightsResult, error) {
	var result models.InsightsResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		extracted := extractJSONObject(content)
		if extracted == "" {
			return nil, ErrResponseParse
		}
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResponseParse, err)
		}
	}

	if len(result.Insights) != 4 {
		return nil, fmt.Errorf("%w: expected 4 insights, got %d", ErrResponseParse, len(result.Insights))
	}
	for _, ins := range result.Insights {
		if !ins.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown insight type %q", ErrResponseParse, ins.Type)
		}
		if !ins.Severity.Valid() {
			return nil, fmt.Errorf("%w: unknown severity %q", ErrResponseParse, ins.Severity)
		}
	}
	return &result, nil
}

// Ensure Service implements InsightService
var _ interfaces.InsightService = (*Service)(nil)
