package clients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/atomic"
)

// MockBackend is an in-process stand-in for the backend's admin API and
// health endpoint, used in tests across the module.
type MockBackend struct {
	Server *httptest.Server

	// Email and Password are the accepted admin credential.
	Email    string
	Password string

	// Token is returned by the login endpoint.
	Token string
	// KeyID is returned by the key creation endpoint.
	KeyID string

	// LoginStatus and CreateStatus override the response codes when non-zero.
	LoginStatus  int
	CreateStatus int

	// HealthyAfter is the number of failing health checks before the
	// endpoint reports 200. Negative means never healthy.
	HealthyAfter int

	Requests     atomic.Int64
	HealthChecks atomic.Int64

	mu         sync.Mutex
	keyTitles  []string
	authHeader string
}

// NewMockBackend starts a mock backend that accepts the given credential.
func NewMockBackend(email, password string) *MockBackend {
	m := &MockBackend{
		Email:    email,
		Password: password,
		Token:    "mock-access-token",
		KeyID:    "pk_01MOCKKEY",
	}

	mux := chi.NewRouter()
	mux.Use(m.countRequests)
	mux.Post(authTokenPath, m.handleLogin)
	mux.Post(publishableKeysPath, m.handleCreateKey)
	mux.Get(healthPath, m.handleHealth)

	m.Server = httptest.NewServer(mux)
	return m
}

// URL returns the base URL of the mock backend.
func (m *MockBackend) URL() string {
	return m.Server.URL
}

// Close shuts the server down.
func (m *MockBackend) Close() {
	m.Server.Close()
}

// KeyTitles returns the titles of all key creation requests received.
func (m *MockBackend) KeyTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keyTitles...)
}

// LastAuthorization returns the Authorization header of the last key request.
func (m *MockBackend) LastAuthorization() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authHeader
}

func (m *MockBackend) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Requests.Inc()
		next.ServeHTTP(w, r)
	})
}

func (m *MockBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if m.LoginStatus != 0 {
		http.Error(w, `{"message":"Unauthorized"}`, m.LoginStatus)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if body.Email != m.Email || body.Password != m.Password {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": m.Token})
}

func (m *MockBackend) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.authHeader = r.Header.Get("Authorization")
	m.mu.Unlock()

	if m.CreateStatus != 0 {
		http.Error(w, `{"message":"failed"}`, m.CreateStatus)
		return
	}

	if strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != m.Token {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.keyTitles = append(m.keyTitles, body.Title)
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"publishable_api_key": map[string]string{
			"id":    m.KeyID,
			"title": body.Title,
		},
	})
}

func (m *MockBackend) handleHealth(w http.ResponseWriter, r *http.Request) {
	n := m.HealthChecks.Inc()
	if m.HealthyAfter < 0 || n <= int64(m.HealthyAfter) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
