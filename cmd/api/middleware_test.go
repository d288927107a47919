package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dormbase/internal/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// buildTestApp wires just enough of the application to exercise the auth
// middleware chain against a dummy admin endpoint.
func buildTestApp() (*application, http.Handler) {
	app := &application{
		logger:        zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator("testsecret", "dormbase", "dormbase"),
		config: config{
			adminEmails: auth.ParseAdminEmails("boss@campus.edu"),
		},
	}

	r := chi.NewRouter()
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(app.AuthTokenMiddleware)
		r.Use(app.RequireAdmin)
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return app, r
}

func signTestToken(t *testing.T, app *application, email, role string) string {
	t.Helper()
	token, err := app.authenticator.GenerateToken(1, email, role)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestAdminRBAC(t *testing.T) {
	app, mux := buildTestApp()

	// No token -> 401
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	// Garbage token -> 400
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed token, got %d", resp.Code)
	}

	// User role -> 403
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, app, "student@campus.edu", auth.RoleUser))
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}

	// Admin role -> 200
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, app, "boss@campus.edu", auth.RoleAdmin))
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp.Code)
	}
}

// A token minted before an email landed on the admin allow-list still gets
// admin access: the allow-list is re-applied at verification time.
func TestAllowListPromotionAtVerification(t *testing.T) {
	app, mux := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, app, "boss@campus.edu", auth.RoleUser))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for allow-listed email, got %d", resp.Code)
	}
}
