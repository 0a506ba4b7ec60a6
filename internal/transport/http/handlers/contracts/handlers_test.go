package contractshandler

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
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/transport/http/middleware"
)

type fakeService struct {
	views    map[string]contracts.View
	created  []contracts.Input
	lastList contracts.Filter
}

func (f *fakeService) List(_ context.Context, filter contracts.Filter) (contracts.ListResult, error) {
	f.lastList = filter
	out := contracts.ListResult{}
	for _, v := range f.views {
		out.Items = append(out.Items, v)
	}
	out.Total = len(out.Items)
	return out, nil
}

func (f *fakeService) Get(_ context.Context, id string) (contracts.View, error) {
	v, ok := f.views[id]
	if !ok {
		return contracts.View{}, contracts.ErrNotFound
	}
	return v, nil
}

func (f *fakeService) Create(_ context.Context, in contracts.Input, _ string) (contracts.View, error) {
	if err := contracts.Validate(in); err != nil {
		return contracts.View{}, err
	}
	f.created = append(f.created, in)
	return contracts.View{Contract: contracts.Contract{ID: "new"}}, nil
}

func (f *fakeService) Update(ctx context.Context, id string, _ contracts.Input, _ string) (contracts.View, error) {
	return f.Approve(ctx, id, "")
}

func (f *fakeService) Delete(ctx context.Context, id, _ string) error {
	_, err := f.Approve(ctx, id, "")
	return err
}

func (f *fakeService) Approve(_ context.Context, id, _ string) (contracts.View, error) {
	v, ok := f.views[id]
	if !ok {
		return contracts.View{}, contracts.ErrNotFound
	}
	if v.EstadoAprobacion == contracts.AprobacionAprobado {
		return contracts.View{}, contracts.ErrContractApproved
	}
	v.EstadoAprobacion = contracts.AprobacionAprobado
	return v, nil
}

func (f *fakeService) ExportXLSX(context.Context, contracts.Filter) ([]byte, error) {
	return []byte("xlsx"), nil
}

func (f *fakeService) SummaryPDF(_ context.Context, id string) ([]byte, error) {
	if _, ok := f.views[id]; !ok {
		return nil, contracts.ErrNotFound
	}
	return []byte("%PDF"), nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func setup(t *testing.T) (*fakeService, http.Handler) {
	t.Helper()
	authorizer, err := auth.NewAuthorizer()
	require.NoError(t, err)
	svc := &fakeService{views: map[string]contracts.View{
		"draft":    {Contract: contracts.Contract{ID: "draft"}, EstadoAprobacion: contracts.AprobacionDraft},
		"approved": {Contract: contracts.Contract{ID: "approved"}, EstadoAprobacion: contracts.AprobacionAprobado},
	}}
	r := chi.NewRouter()
	NewHandler(svc, authorizer).RegisterRoutes(r)
	return svc, r
}

func do(t *testing.T, h http.Handler, role, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if role != "" {
		req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u-" + role, Role: role}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestCreateValidatesPayload(t *testing.T) {
	svc, h := setup(t)

	rec, env := do(t, h, auth.RoleRRHH, http.MethodPost, "/contracts", `{"primer_nombre":"Ana","tipo_contrato":"temporal","correo":"x","fecha_ingreso":"16/10/2026"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	fields := map[string]bool{}
	for _, f := range env.Error.Details.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"primer_apellido", "tipo_contrato", "correo", "fecha_ingreso", "cargo"} {
		assert.True(t, fields[want], "expected issue for %s", want)
	}
	assert.Empty(t, svc.created)
}

func TestCreateFixedTermNeedsEndDate(t *testing.T) {
	_, h := setup(t)
	body := `{"primer_nombre":"Ana","primer_apellido":"Ruiz","numero_identificacion":"1020","empresa_interna":"Acme","cargo":"Analista","tipo_contrato":"fijo","fecha_ingreso":"2026-01-01","salario":"2500000"}`
	rec, env := do(t, h, auth.RoleRRHH, http.MethodPost, "/contracts", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Error.Details.Fields, 1)
	assert.Equal(t, "fecha_fin", env.Error.Details.Fields[0].Field)
}

func TestCreateStoresDraft(t *testing.T) {
	svc, h := setup(t)
	body := `{"primer_nombre":"Ana","primer_apellido":"Ruiz","numero_identificacion":"1020","empresa_interna":"Acme","cargo":"Analista","tipo_contrato":"fijo","fecha_ingreso":"2026-01-01","fecha_fin":"2026-12-31","salario":"2500000.50"}`
	rec, _ := do(t, h, auth.RoleRRHH, http.MethodPost, "/contracts", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.created, 1)
	in := svc.created[0]
	assert.Equal(t, "2500000.5", in.Salario.String())
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *in.FechaFin)
}

func TestApprovedContractsAreLocked(t *testing.T) {
	_, h := setup(t)

	rec, env := do(t, h, auth.RoleAdmin, http.MethodPost, "/contracts/approved/approve", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "contract_approved", env.Error.Code)

	rec, _ = do(t, h, auth.RoleRRHH, http.MethodDelete, "/contracts/approved", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, h, auth.RoleAdmin, http.MethodPost, "/contracts/draft/approve", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRolesGuardRoutes(t *testing.T) {
	_, h := setup(t)

	rec, _ := do(t, h, "", http.MethodGet, "/contracts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, auth.RoleConsulta, http.MethodGet, "/contracts", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	rec, _ = do(t, h, auth.RoleConsulta, http.MethodPost, "/contracts", "{}")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/draft/approve", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListRejectsUnknownFilters(t *testing.T) {
	svc, h := setup(t)
	rec, _ := do(t, h, auth.RoleConsulta, http.MethodGet, "/contracts?vigencia=vencido", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, auth.RoleConsulta, http.MethodGet, "/contracts?q=ana&vigencia=activo&limit=10&offset=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.Filter{Query: "ana", Vigencia: "activo", Limit: 10, Offset: 5}, svc.lastList)
}

func TestExports(t *testing.T) {
	_, h := setup(t)

	rec, _ := do(t, h, auth.RoleRRHH, http.MethodGet, "/contracts/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	rec, _ = do(t, h, auth.RoleRRHH, http.MethodGet, "/contracts/draft/summary.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec, env := do(t, h, auth.RoleRRHH, http.MethodGet, "/contracts/missing/summary.pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)
}
