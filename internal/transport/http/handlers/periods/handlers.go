package periodshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/periods"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, contractID string) ([]periods.Period, error)
	Overview(ctx context.Context, contractID string) (periods.Overview, error)
	Preview(ctx context.Context, contractID string, in periods.ExtendInput) (periods.Extension, error)
	Extend(ctx context.Context, contractID string, in periods.ExtendInput, actorID string) (periods.Period, error)
}

type Handler struct {
	Service     Service
	Perms       middleware.PermissionStore
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service Service, perms middleware.PermissionStore, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermPeriodsRead, h.Perms)).Get("/contracts/{id}/periods", h.handleList)
	r.With(middleware.RequirePermission(auth.PermPeriodsRead, h.Perms)).Get("/contracts/{id}/periods/overview", h.handleOverview)
	r.With(middleware.RequirePermission(auth.PermPeriodsExtend, h.Perms)).Post("/contracts/{id}/periods/preview", h.handlePreview)
	r.With(
		middleware.RequirePermission(auth.PermPeriodsExtend, h.Perms),
		middleware.Idempotent(h.Idempotency),
	).Post("/contracts/{id}/periods/extend", h.handleExtend)
}

type extendRequest struct {
	FechaFin    string `json:"fecha_fin" validate:"required"`
	TipoPeriodo string `json:"tipo_periodo" validate:"omitempty,oneof=prorroga_automatica prorroga_acordada"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.Overview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, overview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (periods.ExtendInput, bool) {
	var req extendRequest
	if !shared.Decode(w, r, &req) {
		return periods.ExtendInput{}, false
	}
	v := shared.NewValidator()
	v.Struct(req)
	in := periods.ExtendInput{TipoPeriodo: req.TipoPeriodo}
	if in.TipoPeriodo == "" {
		in.TipoPeriodo = periods.TipoProrrogaAcordada
	}
	if req.FechaFin != "" {
		in.FechaFin, _ = v.Date("fecha_fin", req.FechaFin)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return periods.ExtendInput{}, false
	}
	return in, true
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	ext, err := h.Service.Preview(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, ext, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExtend(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	p, err := h.Service.Extend(r.Context(), chi.URLParam(r, "id"), in, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, p, middleware.GetRequestID(r.Context()))
}
