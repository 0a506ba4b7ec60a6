package audithandler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

const exportLimit = 10_000

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/events", h.handleListEvents)
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/events/export", h.handleExportEvents)
	})
}

func filterFrom(r *http.Request) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		ActorUser:  q.Get("actorUserId"),
	}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	includeDetails := r.URL.Query().Get("includeDetails") == "true"
	filter := filterFrom(r)
	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		logging.FromContext(r.Context()).Warn("audit count failed", zap.Error(err))
	}

	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	events, err := h.Service.List(r.Context(), filterFrom(r), false, exportLimit, 0)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_user_id", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		logger.Warn("audit export header failed", zap.Error(err))
	}
	for _, evt := range events {
		row := []string{evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, evt.CreatedAt.UTC().Format(time.RFC3339)}
		if err := writer.Write(row); err != nil {
			logger.Warn("audit export row failed", zap.Error(err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Warn("audit export flush failed", zap.Error(err))
	}
}
