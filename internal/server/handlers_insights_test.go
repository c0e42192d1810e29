package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthview/wealthview/internal/clients/openrouter"
	"github.com/wealthview/wealthview/internal/models"
	"github.com/wealthview/wealthview/internal/services/insight"
)

func TestInsightsGenerate_Success(t *testing.T) {
	env := newTestServer()
	token := signupAndLogin(t, env)

	env.insights.result = &models.InsightsResult{
		Summary: "Portfolio is concentrated in crypto.",
		Insights: []models.Insight{
			{Type: models.InsightTypeDiversification, Severity: models.InsightSeverityWarning, Title: "Crypto heavy", Summary: "Over half of holdings are crypto."},
		},
		IsLive:      false,
		GeneratedAt: time.Now().UTC(),
	}

	rec := postJSON(t, env.server.Handler(), "/api/insights/generate", nil, authHeader(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.InsightsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Portfolio is concentrated in crypto.", result.Summary)
	assert.Len(t, result.Insights, 1)
	assert.False(t, result.IsLive)
}

func TestInsightsGenerate_RequiresAuth(t *testing.T) {
	env := newTestServer()

	rec := postJSON(t, env.server.Handler(), "/api/insights/generate", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInsightsGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unconfigured", insight.ErrUnconfigured, http.StatusServiceUnavailable, "AI service not configured."},
		{"upstream api error", &openrouter.APIError{StatusCode: 429, Body: "rate limited"}, http.StatusBadGateway, "AI service error. Please try again."},
		{"wrapped api error", fmt.Errorf("complete: %w", &openrouter.APIError{StatusCode: 500}), http.StatusBadGateway, "AI service error. Please try again."},
		{"parse failure", fmt.Errorf("%w: unexpected token", insight.ErrResponseParse), http.StatusBadGateway, "Failed to parse AI response."},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError, "Failed to generate insights."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestServer()
			token := signupAndLogin(t, env)
			env.insights.err = tt.err

			rec := postJSON(t, env.server.Handler(), "/api/insights/generate", nil, authHeader(token))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}
