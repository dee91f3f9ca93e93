package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"mealplanner/models"
)

func withTestSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	t.Cleanup(func() { sessionManager = original })
	return sm
}

func TestActiveSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session when manager is nil")
	}

	sm := withTestSessionManager(t)
	req = sessionRequest(t, sm, http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session before sign in")
	}
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserIDKey, 42)

	if !ActiveSession(req) {
		t.Fatal("expected active session when flags are set")
	}
}

func TestCurrentUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected currentUserID to fail without session manager")
	}

	sm := withTestSessionManager(t)
	req = sessionRequest(t, sm, http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected false when user id not set")
	}

	sm.Put(req.Context(), sessionUserIDKey, 7)
	id, ok := currentUserID(req)
	if !ok || id != 7 {
		t.Fatalf("expected user id 7, got %d (ok=%t)", id, ok)
	}
}

func TestEstablishSession(t *testing.T) {
	sm := withTestSessionManager(t)
	req := sessionRequest(t, sm, http.MethodPost, "/login", nil)

	user := &models.User{Model: gorm.Model{ID: 3}, Email: "user@example.com", Name: "User"}
	if err := establishSession(req, user); err != nil {
		t.Fatalf("establishSession returned error: %v", err)
	}

	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}
	if got := sm.GetInt(req.Context(), sessionUserIDKey); got != 3 {
		t.Fatalf("expected session user id 3, got %d", got)
	}
	if got := sm.GetString(req.Context(), sessionUserEmailKey); got != "user@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := sm.GetString(req.Context(), sessionUserNameKey); got != "User" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestEstablishSessionWithoutManager(t *testing.T) {
	original := sessionManager
	sessionManager = nil
	t.Cleanup(func() { sessionManager = original })

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := establishSession(req, &models.User{}); err == nil {
		t.Fatal("expected error when session manager is nil")
	}
}

func TestLogin(t *testing.T) {
	env := configureTestHandlers(t)

	req := sessionRequest(t, env.sm, http.MethodPost, "/login", strings.NewReader(`{"email":" JAMIE@mealplanner.app ","password":"mealprep"}`))
	w := httptest.NewRecorder()
	Login(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp userResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.ID != env.user.ID || resp.UnitPreference != "imperial" {
		t.Fatalf("unexpected login response %+v", resp)
	}
	if !ActiveSession(req) {
		t.Fatal("expected session to be authenticated after login")
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"jamie@mealplanner.app","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"nobody@example.com","password":"mealprep"}`, http.StatusUnauthorized},
		{"missing password", `{"email":"jamie@mealplanner.app"}`, http.StatusBadRequest},
		{"malformed", `{"email":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := sessionRequest(t, env.sm, http.MethodPost, "/login", strings.NewReader(tt.body))
		w := httptest.NewRecorder()
		Login(w, req)
		if w.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, w.Code)
		}
		if decodeError(t, w) == "" {
			t.Fatalf("%s: expected error message", tt.name)
		}
		if ActiveSession(req) {
			t.Fatalf("%s: session should stay anonymous", tt.name)
		}
	}
}

func TestLoginWithoutDependencies(t *testing.T) {
	Configure(nil, nil, nil)

	w := httptest.NewRecorder()
	Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`)))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRequireAuthentication(t *testing.T) {
	sm := withTestSessionManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := sessionRequest(t, sm, http.MethodGet, "/api/shopping-lists/1", nil)
	w := httptest.NewRecorder()
	RequireAuthentication(next).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}

	req = authedRequest(t, sm, 5, http.MethodGet, "/api/shopping-lists/1", nil)
	w = httptest.NewRecorder()
	RequireAuthentication(next).ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected wrapped handler to run, got %d", w.Code)
	}
}

func TestLogout(t *testing.T) {
	sm := withTestSessionManager(t)
	req := authedRequest(t, sm, 5, http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	Logout(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if ActiveSession(req) {
		t.Fatal("expected session to be destroyed")
	}
}
