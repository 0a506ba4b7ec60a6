package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrcontracts/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Email: "rrhh@example.com", Role: auth.RoleRRHH}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.Role != auth.RoleRRHH {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("token signed with another secret must not authenticate")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
