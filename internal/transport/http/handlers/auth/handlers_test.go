package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/transport/http/middleware"
)

func TestValidateNewPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "Stronger123",
		},
		{
			name:     "too short",
			password: "S1hort",
			wantErr:  true,
		},
		{
			name:     "missing uppercase",
			password: "longpassword1",
			wantErr:  true,
		},
		{
			name:     "missing lowercase",
			password: "LONGPASSWORD1",
			wantErr:  true,
		},
		{
			name:     "missing number",
			password: "LongPassword",
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateNewPassword(tc.password)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

type fakeService struct {
	sessions map[string]auth.Session
	inactive map[string]bool
	changed  map[string]string
}

func (f *fakeService) Login(_ context.Context, email, password string) (auth.Session, error) {
	if f.inactive[email] {
		return auth.Session{}, auth.ErrInactiveUser
	}
	s, ok := f.sessions[email+":"+password]
	if !ok {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return s, nil
}

func (f *fakeService) ChangePassword(_ context.Context, userID, pw string) error {
	f.changed[userID] = pw
	return nil
}

func newRouter(svc *fakeService) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func post(t *testing.T, h http.Handler, path, body string, ctx context.Context) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	svc := &fakeService{
		sessions: map[string]auth.Session{"admin@example.com:Secret123": {Token: "tok", UserID: "u1", Role: auth.RoleAdmin}},
		inactive: map[string]bool{"old@example.com": true},
	}
	router := newRouter(svc)

	rec := post(t, router, "/auth/login", `{"email":"admin@example.com","password":"Secret123"}`, context.Background())
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "tok", env.Data.Token)

	rec = post(t, router, "/auth/login", `{"email":"admin@example.com","password":"nope"}`, context.Background())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(t, router, "/auth/login", `{"email":"old@example.com","password":"x"}`, context.Background())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = post(t, router, "/auth/login", `{"email":"not-an-email","password":"x"}`, context.Background())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestChangePasswordRequiresUser(t *testing.T) {
	svc := &fakeService{changed: map[string]string{}}
	router := newRouter(svc)

	rec := post(t, router, "/auth/password", `{"newPassword":"Stronger123"}`, context.Background())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ctx := middleware.WithUser(context.Background(), auth.UserContext{UserID: "u2", Role: auth.RoleRRHH})
	rec = post(t, router, "/auth/password", `{"newPassword":"weak"}`, ctx)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, router, "/auth/password", `{"newPassword":"Stronger123"}`, ctx)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Stronger123", svc.changed["u2"])
}
