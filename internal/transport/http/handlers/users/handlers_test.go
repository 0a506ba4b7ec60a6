package usershandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/users"
	"hrcontracts/internal/transport/http/middleware"
)

const secret = "test-secret"

type fakeService struct {
	profiles  map[string]users.Profile
	refreshed bool
}

func newFake() *fakeService {
	return &fakeService{profiles: map[string]users.Profile{
		"u1": {ID: "u1", Email: "admin@example.com", Role: auth.RoleAdmin, IsActive: true},
		"u2": {ID: "u2", Email: "rrhh@example.com", Role: auth.RoleRRHH, IsActive: true},
	}}
}

func (f *fakeService) List(_ context.Context, refresh bool) ([]users.Profile, error) {
	f.refreshed = refresh
	return []users.Profile{f.profiles["u1"], f.profiles["u2"]}, nil
}

func (f *fakeService) ToggleStatus(_ context.Context, userID, action, actorID string) (users.Profile, error) {
	if action != users.ActionActivate && action != users.ActionDeactivate {
		return users.Profile{}, users.ErrInvalidAction
	}
	if action == users.ActionDeactivate && userID == actorID {
		return users.Profile{}, users.ErrSelfDeactivation
	}
	p, ok := f.profiles[userID]
	if !ok {
		return users.Profile{}, users.ErrNotFound
	}
	p.IsActive = action == users.ActionActivate
	f.profiles[userID] = p
	return p, nil
}

func (f *fakeService) ResetPassword(_ context.Context, userID, _ string) (users.ResetResult, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return users.ResetResult{}, users.ErrNotFound
	}
	return users.ResetResult{ID: p.ID, Email: p.Email, TemporaryPassword: "Tmp#2026abcd"}, nil
}

func setup(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()
	authorizer, err := auth.NewAuthorizer()
	require.NoError(t, err)
	h := NewHandler(svc, authorizer, secret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	h.RegisterLegacyRoutes(r)
	return r
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(secret, auth.Claims{UserID: userID, Email: userID + "@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func post(t *testing.T, h http.Handler, path string, body any, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestToggleUserStatus(t *testing.T) {
	svc := newFake()
	h := setup(t, svc)
	admin := token(t, "u1", auth.RoleAdmin)

	rec, out := post(t, h, "/toggle-user-status", map[string]string{"userId": "u2", "action": "deactivate", "userToken": admin}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.False(t, svc.profiles["u2"].IsActive)

	rec, out = post(t, h, "/toggle-user-status", map[string]string{"userId": "u1", "action": "deactivate"}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "No puede desactivar su propia cuenta", out["error"])

	rec, out = post(t, h, "/toggle-user-status", map[string]string{"userId": "u2", "action": "suspend", "userToken": admin}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "activate")

	rec, _ = post(t, h, "/toggle-user-status", map[string]string{"userId": "nadie", "action": "activate", "userToken": admin}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLegacyRoutesNeedAdminToken(t *testing.T) {
	h := setup(t, newFake())

	rec, out := post(t, h, "/toggle-user-status", map[string]string{"userId": "u2", "action": "activate"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, out["error"])

	rec, _ = post(t, h, "/admin-reset-password", map[string]string{"user_id": "u2", "userToken": "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	consulta := token(t, "u3", auth.RoleConsulta)
	rec, out = post(t, h, "/admin-reset-password", map[string]string{"user_id": "u2", "userToken": consulta}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Solo los administradores pueden realizar esta acción", out["error"])
	assert.NotContains(t, out, "success")
}

func TestAdminResetPassword(t *testing.T) {
	h := setup(t, newFake())
	admin := token(t, "u1", auth.RoleAdmin)

	rec, out := post(t, h, "/admin-reset-password", map[string]string{"user_id": "u2"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	user, ok := out["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rrhh@example.com", user["email"])
	assert.Equal(t, "Tmp#2026abcd", user["temporary_password"])

	rec, _ = post(t, h, "/admin-reset-password", map[string]string{"userToken": admin}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsers(t *testing.T) {
	svc := newFake()
	h := setup(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/users?refresh=true", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleAdmin}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.refreshed)

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u2", Role: auth.RoleRRHH}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
