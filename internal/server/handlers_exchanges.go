package server

import (
	"errors"
	"net/http"

	"github.com/wealthview/wealthview/internal/models"
	"github.com/wealthview/wealthview/internal/services/connection"
)

// --- Exchange connection handlers ---

// connectionResponse builds a credential-safe response for a connection.
func connectionResponse(conn *models.Connection) map[string]interface{} {
	return map[string]interface{}{
		"exchange_slug":   conn.ExchangeSlug,
		"exchange_name":   conn.ExchangeName,
		"connection_type": conn.ConnectionType,
		"is_active":       conn.IsActive,
		"is_demo":         conn.IsDemo(),
		"api_key_preview": maskSecret(conn.APIKey),
		"last_synced_at":  conn.LastSyncedAt,
	}
}

// handleExchangeConnect handles POST /api/exchanges/connect.
func (s *Server) handleExchangeConnect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req struct {
		ExchangeSlug   string `json:"exchange_slug"`
		ExchangeName   string `json:"exchange_name"`
		ConnectionType string `json:"connection_type"`
		APIKey         string `json:"api_key"`
		APISecret      string `json:"api_secret"`
		APIPassphrase  string `json:"api_passphrase"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	connType := models.ConnectionType(req.ConnectionType)
	if connType == "" {
		connType = models.ConnectionTypeAPIKey
	}

	conn := &models.Connection{
		UserID:         userID,
		ExchangeSlug:   req.ExchangeSlug,
		ExchangeName:   req.ExchangeName,
		ConnectionType: connType,
		APIKey:         req.APIKey,
		APISecret:      req.APISecret,
		APIPassphrase:  req.APIPassphrase,
	}

	if err := s.app.ConnectionService.Connect(r.Context(), conn); err != nil {
		if errors.Is(err, connection.ErrInvalidConnection) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Exchange connect failed")
		WriteError(w, http.StatusInternalServerError, "failed to connect exchange")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   connectionResponse(conn),
	})
}

// handleExchangeDisconnect handles POST /api/exchanges/disconnect.
func (s *Server) handleExchangeDisconnect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req struct {
		ExchangeSlug string `json:"exchange_slug"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.ConnectionService.Disconnect(r.Context(), userID, req.ExchangeSlug); err != nil {
		if errors.Is(err, connection.ErrInvalidConnection) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Exchange disconnect failed")
		WriteError(w, http.StatusInternalServerError, "failed to disconnect exchange")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExchangeList handles GET /api/exchanges, the user's active connections.
func (s *Server) handleExchangeList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	conns, err := s.app.ConnectionService.List(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Exchange list failed")
		WriteError(w, http.StatusInternalServerError, "failed to list exchanges")
		return
	}

	out := make([]map[string]interface{}, 0, len(conns))
	for _, conn := range conns {
		out = append(out, connectionResponse(conn))
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exchanges": out,
		"count":     len(out),
	})
}
