package onboardinghandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/onboarding"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

type Service interface {
	Checklist(ctx context.Context, contractID string) (onboarding.Checklist, error)
	Toggle(ctx context.Context, contractID string, in onboarding.ToggleInput, actorID string) (onboarding.Checklist, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermContractsRead, h.Perms)).Get("/contracts/{id}/onboarding", h.handleChecklist)
	r.With(middleware.RequirePermission(auth.PermOnboardingWrite, h.Perms)).Post("/contracts/{id}/onboarding/{field}", h.handleToggle)
}

type toggleRequest struct {
	Value   bool   `json:"value"`
	Nombre  string `json:"nombre" validate:"max=200"`
	Fecha   string `json:"fecha"`
	Confirm bool   `json:"confirm"`
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Checklist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var req toggleRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	v := shared.NewValidator()
	v.Struct(req)
	in := onboarding.ToggleInput{
		Field:   onboarding.Field(chi.URLParam(r, "field")),
		Value:   req.Value,
		Nombre:  req.Nombre,
		Fecha:   v.OptionalDate("fecha", req.Fecha),
		Confirm: req.Confirm,
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	list, err := h.Service.Toggle(r.Context(), chi.URLParam(r, "id"), in, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}
