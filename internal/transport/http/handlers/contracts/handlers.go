package contractshandler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/transport/http/api"
	"hrcontracts/internal/transport/http/middleware"
	"hrcontracts/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, f contracts.Filter) (contracts.ListResult, error)
	Get(ctx context.Context, id string) (contracts.View, error)
	Create(ctx context.Context, in contracts.Input, actorID string) (contracts.View, error)
	Update(ctx context.Context, id string, in contracts.Input, actorID string) (contracts.View, error)
	Delete(ctx context.Context, id, actorID string) error
	Approve(ctx context.Context, id, actorID string) (contracts.View, error)
	ExportXLSX(ctx context.Context, f contracts.Filter) ([]byte, error)
	SummaryPDF(ctx context.Context, id string) ([]byte, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermContractsRead, h.Perms)).Get("/contracts", h.handleList)
	r.With(middleware.RequirePermission(auth.PermContractsWrite, h.Perms)).Post("/contracts", h.handleCreate)
	r.With(middleware.RequirePermission(auth.PermContractsExport, h.Perms)).Get("/contracts/export.xlsx", h.handleExport)
	r.With(middleware.RequirePermission(auth.PermContractsRead, h.Perms)).Get("/contracts/{id}", h.handleGet)
	r.With(middleware.RequirePermission(auth.PermContractsWrite, h.Perms)).Put("/contracts/{id}", h.handleUpdate)
	r.With(middleware.RequirePermission(auth.PermContractsDelete, h.Perms)).Delete("/contracts/{id}", h.handleDelete)
	r.With(middleware.RequirePermission(auth.PermContractsApprove, h.Perms)).Post("/contracts/{id}/approve", h.handleApprove)
	r.With(middleware.RequirePermission(auth.PermContractsExport, h.Perms)).Get("/contracts/{id}/summary.pdf", h.handleSummaryPDF)
}

type contractRequest struct {
	PrimerNombre              string           `json:"primer_nombre" validate:"required"`
	SegundoNombre             string           `json:"segundo_nombre"`
	PrimerApellido            string           `json:"primer_apellido" validate:"required"`
	SegundoApellido           string           `json:"segundo_apellido"`
	TipoIdentificacion        string           `json:"tipo_identificacion" validate:"omitempty,oneof=CC CE TI PA PPT NIT"`
	NumeroIdentificacion      string           `json:"numero_identificacion" validate:"required,max=20"`
	Celular                   string           `json:"celular" validate:"omitempty,max=20"`
	Correo                    string           `json:"correo" validate:"omitempty,email"`
	Direccion                 string           `json:"direccion"`
	EmpresaInterna            string           `json:"empresa_interna" validate:"required"`
	EmpresaClienteID          *string          `json:"empresa_cliente_id" validate:"omitempty,uuid"`
	Cargo                     string           `json:"cargo" validate:"required"`
	Salario                   *decimal.Decimal `json:"salario"`
	AuxilioSalarial           *decimal.Decimal `json:"auxilio_salarial"`
	AuxilioSalarialConcepto   string           `json:"auxilio_salarial_concepto"`
	AuxilioNoSalarial         *decimal.Decimal `json:"auxilio_no_salarial"`
	AuxilioNoSalarialConcepto string           `json:"auxilio_no_salarial_concepto"`
	AuxilioTransporte         *decimal.Decimal `json:"auxilio_transporte"`
	TipoContrato              string           `json:"tipo_contrato" validate:"required,oneof=fijo indefinido obra_labor aprendizaje"`
	FechaIngreso              string           `json:"fecha_ingreso" validate:"required"`
	FechaFin                  string           `json:"fecha_fin"`
	BeneficiarioHijo          int              `json:"beneficiario_hijo" validate:"min=0"`
	BeneficiarioMadre         int              `json:"beneficiario_madre" validate:"oneof=0 1"`
	BeneficiarioPadre         int              `json:"beneficiario_padre" validate:"oneof=0 1"`
	BeneficiarioConyuge       int              `json:"beneficiario_conyuge" validate:"oneof=0 1"`
}

func (req contractRequest) input(v *shared.Validator) contracts.Input {
	in := contracts.Input{
		PrimerNombre:              req.PrimerNombre,
		SegundoNombre:             req.SegundoNombre,
		PrimerApellido:            req.PrimerApellido,
		SegundoApellido:           req.SegundoApellido,
		TipoIdentificacion:        req.TipoIdentificacion,
		NumeroIdentificacion:      req.NumeroIdentificacion,
		Celular:                   req.Celular,
		Correo:                    req.Correo,
		Direccion:                 req.Direccion,
		EmpresaInterna:            req.EmpresaInterna,
		EmpresaClienteID:          req.EmpresaClienteID,
		Cargo:                     req.Cargo,
		Salario:                   req.Salario,
		AuxilioSalarial:           req.AuxilioSalarial,
		AuxilioSalarialConcepto:   req.AuxilioSalarialConcepto,
		AuxilioNoSalarial:         req.AuxilioNoSalarial,
		AuxilioNoSalarialConcepto: req.AuxilioNoSalarialConcepto,
		AuxilioTransporte:         req.AuxilioTransporte,
		TipoContrato:              req.TipoContrato,
		FechaFin:                  v.OptionalDate("fecha_fin", req.FechaFin),
		Beneficiarios: contracts.Beneficiarios{
			Hijos:   req.BeneficiarioHijo,
			Madre:   req.BeneficiarioMadre,
			Padre:   req.BeneficiarioPadre,
			Conyuge: req.BeneficiarioConyuge,
		},
	}
	if req.FechaIngreso != "" {
		if d, ok := v.Date("fecha_ingreso", req.FechaIngreso); ok {
			in.FechaIngreso = d
		}
	}
	return in
}

func filterFrom(r *http.Request) contracts.Filter {
	q := r.URL.Query()
	page := shared.ParsePagination(r, 50, 500)
	return contracts.Filter{
		Query:            q.Get("q"),
		Vigencia:         q.Get("vigencia"),
		StatusAprobacion: q.Get("status_aprobacion"),
		TipoContrato:     q.Get("tipo_contrato"),
		Limit:            page.Limit,
		Offset:           page.Offset,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := filterFrom(r)
	v := shared.NewValidator()
	v.Enum("vigencia", filter.Vigencia, []string{contracts.VigenciaActivo, contracts.VigenciaTerminado}, "vigencia must be activo or terminado")
	v.Enum("status_aprobacion", filter.StatusAprobacion, []string{contracts.AprobacionDraft, contracts.AprobacionAprobado}, "status_aprobacion must be draft or aprobado")
	v.Enum("tipo_contrato", filter.TipoContrato, contracts.TiposContrato, "unknown tipo_contrato")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (contracts.Input, bool) {
	var req contractRequest
	if !shared.Decode(w, r, &req) {
		return contracts.Input{}, false
	}
	v := shared.NewValidator()
	v.Struct(req)
	in := req.input(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return contracts.Input{}, false
	}
	return in, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	view, err := h.Service.Create(r.Context(), in, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	view, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id, user.UserID); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	view, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	body, err := h.Service.ExportXLSX(r.Context(), filterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	filename := fmt.Sprintf("contratos-%s.xlsx", time.Now().Format("20060102"))
	api.Attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, body)
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := h.Service.SummaryPDF(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Attachment(w, "application/pdf", "contrato-"+id+".pdf", body)
}
