package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSeed(t *testing.T) {
	env := newTestServer()
	token := signupAndLogin(t, env)
	env.connections.seeded = 3

	rec := postJSON(t, env.server.Handler(), "/api/demo/seed", nil, authHeader(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success         bool `json:"success"`
		ExchangesSeeded int  `json:"exchanges_seeded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.ExchangesSeeded)
}

func TestDemoSeed_GETNotAllowed(t *testing.T) {
	env := newTestServer()
	token := signupAndLogin(t, env)

	rec := getPath(t, env.server.Handler(), "/api/demo/seed", authHeader(token))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDemoSeed_RequiresAuth(t *testing.T) {
	env := newTestServer()

	rec := postJSON(t, env.server.Handler(), "/api/demo/seed", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
