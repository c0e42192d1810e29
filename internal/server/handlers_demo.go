package server

import (
	"net/http"
)

// handleDemoSeed handles POST /api/demo/seed. Upserts the demo exchange
// connections for the authenticated user.
func (s *Server) handleDemoSeed(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	count, err := s.app.ConnectionService.SeedDemo(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Demo seed failed")
		WriteError(w, http.StatusInternalServerError, "Failed to seed demo data.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"exchanges_seeded": count,
	})
}
