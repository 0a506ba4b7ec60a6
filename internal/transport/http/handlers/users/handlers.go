package usershandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/users"
	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, refresh bool) ([]users.Profile, error)
	ToggleStatus(ctx context.Context, userID, action, actorID string) (users.Profile, error)
	ResetPassword(ctx context.Context, userID, actorID string) (users.ResetResult, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Secret  string
}

func NewHandler(service Service, perms middleware.PermissionStore, secret string) *Handler {
	return &Handler{Service: service, Perms: perms, Secret: secret}
}

// RegisterRoutes mounts the enveloped listing under /api/v1.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermUsersRead, h.Perms)).Get("/users", h.handleList)
}

// RegisterLegacyRoutes mounts the two admin endpoints that keep their bare {error} shape.
func (h *Handler) RegisterLegacyRoutes(r chi.Router) {
	r.Post("/toggle-user-status", h.handleToggleStatus)
	r.Post("/admin-reset-password", h.handleResetPassword)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	items, err := h.Service.List(r.Context(), refresh)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

type toggleRequest struct {
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	UserToken string `json:"userToken"`
}

type resetRequest struct {
	UserID    string `json:"user_id"`
	UserToken string `json:"userToken"`
}

type errorBody struct {
	Error string `json:"error"`
}

func fail(w http.ResponseWriter, status int, message string) {
	api.WriteJSON(w, status, errorBody{Error: message})
}

// authorizeAdmin checks the token sent in the body, falling back to the bearer header.
func (h *Handler) authorizeAdmin(w http.ResponseWriter, r *http.Request, token string) (auth.UserContext, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = middleware.BearerToken(r)
	}
	if token == "" {
		fail(w, http.StatusUnauthorized, "No autorizado: falta el token de sesión")
		return auth.UserContext{}, false
	}
	claims, err := auth.ParseToken(h.Secret, token)
	if err != nil {
		fail(w, http.StatusUnauthorized, "No autorizado: token inválido o expirado")
		return auth.UserContext{}, false
	}
	allowed, err := h.Perms.HasPermission(r.Context(), claims.Role, auth.PermUsersManage)
	if err != nil {
		logging.FromContext(r.Context()).Error("permission check failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Error verificando permisos")
		return auth.UserContext{}, false
	}
	if !allowed {
		fail(w, http.StatusForbidden, "Solo los administradores pueden realizar esta acción")
		return auth.UserContext{}, false
	}
	return claims.User(), true
}

func (h *Handler) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	admin, ok := h.authorizeAdmin(w, r, req.UserToken)
	if !ok {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		fail(w, http.StatusBadRequest, "userId es obligatorio")
		return
	}

	profile, err := h.Service.ToggleStatus(r.Context(), req.UserID, req.Action, admin.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": profile})
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	admin, ok := h.authorizeAdmin(w, r, req.UserToken)
	if !ok {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		fail(w, http.StatusBadRequest, "user_id es obligatorio")
		return
	}

	result, err := h.Service.ResetPassword(r.Context(), req.UserID, admin.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"user": result})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, _ := shared.Classify(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("user admin action failed", zap.Error(err))
	}
	switch {
	case errors.Is(err, users.ErrNotFound):
		fail(w, appErr.HTTPStatus, "Usuario no encontrado")
	case errors.Is(err, users.ErrSelfDeactivation):
		fail(w, appErr.HTTPStatus, "No puede desactivar su propia cuenta")
	case errors.Is(err, users.ErrInvalidAction):
		fail(w, appErr.HTTPStatus, "La acción debe ser activate o deactivate")
	default:
		fail(w, appErr.HTTPStatus, appErr.Message)
	}
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
