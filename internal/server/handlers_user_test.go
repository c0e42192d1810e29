package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, handler http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return resp.Data
}

func signupAndLogin(t *testing.T, env *testEnv) string {
	t.Helper()
	handler := env.server.Handler()

	rec := postJSON(t, handler, "/api/users", map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "hunter22",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body: %s", rec.Code, rec.Body.String())
	}

	token, _ := decodeData(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("signup returned no token")
	}
	return token
}

func TestUserCreate_And_Login(t *testing.T) {
	env := newTestServer()
	handler := env.server.Handler()

	signupAndLogin(t, env)

	// Duplicate email is rejected
	rec := postJSON(t, handler, "/api/users", map[string]string{
		"email": "alice@example.com", "password": "other",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", rec.Code)
	}

	// Login with the right password
	rec = postJSON(t, handler, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "hunter22",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["token"] == "" {
		t.Error("login returned no token")
	}

	// Wrong password is rejected
	rec = postJSON(t, handler, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}

	// Unknown email is rejected
	rec = postJSON(t, handler, "/api/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "hunter22",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email login status = %d, want 401", rec.Code)
	}
}

func TestUserCreate_Validation(t *testing.T) {
	env := newTestServer()
	handler := env.server.Handler()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "x"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "x"}},
		{"missing password", map[string]string{"email": "a@b.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/users", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAuthValidate(t *testing.T) {
	env := newTestServer()
	handler := env.server.Handler()
	token := signupAndLogin(t, env)

	rec := postJSON(t, handler, "/api/auth/validate", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status = %d, body: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	user, _ := data["user"].(map[string]interface{})
	if user["email"] != "alice@example.com" {
		t.Errorf("validated user = %v, want alice", user)
	}

	// Garbage token is rejected
	rec = postJSON(t, handler, "/api/auth/validate", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}

	// Missing header is rejected
	rec = postJSON(t, handler, "/api/auth/validate", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header status = %d, want 401", rec.Code)
	}
}
