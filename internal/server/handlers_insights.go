package server

import (
	"errors"
	"net/http"

	"github.com/wealthview/wealthview/internal/clients/openrouter"
	"github.com/wealthview/wealthview/internal/services/insight"
)

// handleInsightsGenerate handles POST /api/insights/generate. Runs one AI
// analysis pass over the user's resolved portfolio.
func (s *Server) handleInsightsGenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	result, err := s.app.InsightService.Generate(r.Context(), userID)
	if err != nil {
		var apiErr *openrouter.APIError
		switch {
		case errors.Is(err, insight.ErrUnconfigured):
			WriteError(w, http.StatusServiceUnavailable, "AI service not configured.")
		case errors.As(err, &apiErr):
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Completion API error")
			WriteError(w, http.StatusBadGateway, "AI service error. Please try again.")
		case errors.Is(err, insight.ErrResponseParse):
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Insight parse failed")
			WriteError(w, http.StatusBadGateway, "Failed to parse AI response.")
		default:
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Insight generation failed")
			WriteError(w, http.StatusInternalServerError, "Failed to generate insights.")
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
