package novedadeshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/novedades"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, contractID string, cat novedades.Category) ([]novedades.Novedad, error)
	Current(ctx context.Context, contractID string) (novedades.CurrentState, error)
	Create(ctx context.Context, contractID string, in novedades.Input, actorID string) (novedades.Novedad, error)
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
	r.With(middleware.RequirePermission(auth.PermNovedadesRead, h.Perms)).Get("/contracts/{id}/novedades", h.handleList)
	r.With(
		middleware.RequirePermission(auth.PermNovedadesWrite, h.Perms),
		middleware.Idempotent(h.Idempotency),
	).Post("/contracts/{id}/novedades", h.handleCreate)
	r.With(middleware.RequirePermission(auth.PermNovedadesRead, h.Perms)).Get("/contracts/{id}/current", h.handleCurrent)
}

type novedadRequest struct {
	Categoria     string `json:"categoria" validate:"required"`
	Tipo          string `json:"tipo" validate:"required"`
	ValorNuevo    string `json:"valor_nuevo"`
	Concepto      string `json:"concepto"`
	FechaEfectiva string `json:"fecha_efectiva"`
	FechaInicio   string `json:"fecha_inicio"`
	FechaFin      string `json:"fecha_fin"`
	Observacion   string `json:"observacion" validate:"max=2000"`
	Confirm       bool   `json:"confirm"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	cat := novedades.Category(r.URL.Query().Get("categoria"))
	if cat != "" && !novedades.ValidCategory(cat) {
		v := shared.NewValidator()
		v.Add("categoria", "categoría desconocida")
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}
	items, err := h.Service.List(r.Context(), chi.URLParam(r, "id"), cat)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	state, err := h.Service.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, state, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var req novedadRequest
	if !shared.Decode(w, r, &req) {
		return
	}
	v := shared.NewValidator()
	v.Struct(req)
	in := novedades.Input{
		Category:      novedades.Category(req.Categoria),
		Field:         req.Tipo,
		ValorNuevo:    req.ValorNuevo,
		Concepto:      req.Concepto,
		FechaEfectiva: v.OptionalDate("fecha_efectiva", req.FechaEfectiva),
		FechaInicio:   v.OptionalDate("fecha_inicio", req.FechaInicio),
		FechaFin:      v.OptionalDate("fecha_fin", req.FechaFin),
		Observacion:   req.Observacion,
		Confirm:       req.Confirm,
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	n, err := h.Service.Create(r.Context(), chi.URLParam(r, "id"), in, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, n, middleware.GetRequestID(r.Context()))
}
