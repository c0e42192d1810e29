package server

import (
	"net/http"

	"github.com/wealthview/wealthview/internal/services/portfolio"
)

// --- Portfolio handlers ---

// handlePortfolioSync handles GET /api/portfolio/sync, resolving the user's
// portfolio data source. Upstream brokerage failures are reported in the body
// with Source=error; the HTTP status stays 200 so clients always get a
// renderable payload.
func (s *Server) handlePortfolioSync(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	resolution, err := s.app.PortfolioService.Resolve(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Portfolio resolve failed")
		WriteError(w, http.StatusInternalServerError, "failed to resolve portfolio")
		return
	}

	WriteJSON(w, http.StatusOK, resolution)
}

// handlePortfolioHoldings handles GET /api/portfolio/holdings: the resolved
// portfolio with non-live sources substituted by the sample portfolio, plus
// an is_live flag. This is the dashboard's always-renderable view.
func (s *Server) handlePortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	resolution, err := s.app.PortfolioService.Resolve(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Portfolio resolve failed")
		WriteError(w, http.StatusInternalServerError, "failed to resolve portfolio")
		return
	}

	isLive := resolution.IsLive()
	p := resolution.Portfolio
	if !isLive {
		p = portfolio.MockPortfolio()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"source":    resolution.Source,
		"is_live":   isLive,
		"portfolio": p,
	})
}

// handlePortfolioHistory handles GET /api/portfolio/history?limit=N.
func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	limit := QueryInt(r, "limit", 30)
	snapshots, err := s.app.PortfolioService.History(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Snapshot history failed")
		WriteError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// handlePortfolioHistoryChart handles GET /api/portfolio/history/chart?limit=N
// and responds with a PNG.
func (s *Server) handlePortfolioHistoryChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	limit := QueryInt(r, "limit", 30)
	png, err := s.app.PortfolioService.RenderHistoryChart(r.Context(), userID, limit)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("History chart failed")
		WriteError(w, http.StatusUnprocessableEntity, "not enough history to render a chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
