package server

import (
	"net/http"
	"time"

	"github.com/wealthview/wealthview/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Users
	mux.HandleFunc("/api/users", s.handleUserCreate)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Portfolio
	mux.HandleFunc("/api/portfolio/sync", s.handlePortfolioSync)
	mux.HandleFunc("/api/portfolio/holdings", s.handlePortfolioHoldings)
	mux.HandleFunc("/api/portfolio/history/chart", s.handlePortfolioHistoryChart)
	mux.HandleFunc("/api/portfolio/history", s.handlePortfolioHistory)

	// Exchanges
	mux.HandleFunc("/api/exchanges/connect", s.handleExchangeConnect)
	mux.HandleFunc("/api/exchanges/disconnect", s.handleExchangeDisconnect)
	mux.HandleFunc("/api/exchanges", s.handleExchangeList)

	// Demo data
	mux.HandleFunc("/api/demo/seed", s.handleDemoSeed)

	// Insights
	mux.HandleFunc("/api/insights/generate", s.handleInsightsGenerate)
}

// requireUser resolves the authenticated user ID from the request context.
// Writes a 401 and returns "" when the request is unauthenticated.
func requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := common.ResolveUserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID
}

// --- System handlers ---

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":           s.app.Config.Environment,
		"storage_address":       s.app.Config.Storage.Address,
		"storage_namespace":     s.app.Config.Storage.Namespace,
		"storage_database":      s.app.Config.Storage.Database,
		"logging_level":         s.app.Config.Logging.Level,
		"alpaca_base_url":       s.app.Config.Clients.Alpaca.BaseURL,
		"openrouter_configured": s.app.CompletionClient != nil,
		"resend_configured":     s.app.EmailClient != nil,
		"uptime":                uptime.String(),
	})
}
