package periodshandler

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
	"hrcontracts/internal/domain/periods"
	"hrcontracts/internal/transport/http/middleware"
)

type fakeService struct {
	current  time.Time
	extended []periods.ExtendInput
	err      error
}

func (f *fakeService) List(_ context.Context, contractID string) ([]periods.Period, error) {
	return []periods.Period{{ID: "p1", ContractID: contractID, NumeroPeriodo: 1, FechaFin: f.current, EsPeriodoActual: true}}, nil
}

func (f *fakeService) Overview(_ context.Context, contractID string) (periods.Overview, error) {
	return periods.Overview{ContractID: contractID, Status: periods.FixedStatus{TotalPeriodos: 1, FechaFinActual: f.current}}, nil
}

func (f *fakeService) Preview(_ context.Context, _ string, in periods.ExtendInput) (periods.Extension, error) {
	if f.err != nil {
		return periods.Extension{}, f.err
	}
	if !in.FechaFin.After(f.current) {
		return periods.Extension{}, periods.ErrEndNotAfterCurrent
	}
	start := f.current.AddDate(0, 0, 1)
	return periods.Extension{Numero: 2, FechaInicio: start, FechaFin: in.FechaFin}, nil
}

func (f *fakeService) Extend(ctx context.Context, contractID string, in periods.ExtendInput, _ string) (periods.Period, error) {
	ext, err := f.Preview(ctx, contractID, in)
	if err != nil {
		return periods.Period{}, err
	}
	f.extended = append(f.extended, in)
	return periods.Period{ID: "p2", ContractID: contractID, NumeroPeriodo: ext.Numero, FechaInicio: ext.FechaInicio, FechaFin: ext.FechaFin, TipoPeriodo: in.TipoPeriodo, EsPeriodoActual: true}, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setup(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()
	authorizer, err := auth.NewAuthorizer()
	require.NoError(t, err)
	r := chi.NewRouter()
	NewHandler(svc, authorizer, nil).RegisterRoutes(r)
	return r
}

func send(t *testing.T, h http.Handler, role, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: role}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func currentEnd() time.Time {
	return time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
}

func TestExtendDefaultsToAgreedExtension(t *testing.T) {
	svc := &fakeService{current: currentEnd()}
	h := setup(t, svc)

	rec, env := send(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/c1/periods/extend", `{"fecha_fin":"2027-06-30"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.extended, 1)
	assert.Equal(t, periods.TipoProrrogaAcordada, svc.extended[0].TipoPeriodo)

	var p periods.Period
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 2, p.NumeroPeriodo)
	assert.Equal(t, "2027-01-01", p.FechaInicio.Format("2006-01-02"))
}

func TestExtendValidation(t *testing.T) {
	h := setup(t, &fakeService{current: currentEnd()})

	rec, env := send(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/c1/periods/extend", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Error.Code)

	rec, _ = send(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/c1/periods/extend", `{"fecha_fin":"2027-06-30","tipo_periodo":"inicial"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = send(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/c1/periods/preview", `{"fecha_fin":"2026-12-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "extension_rejected", env.Error.Code)
}

func TestExtendRejectedWhenIndefinite(t *testing.T) {
	h := setup(t, &fakeService{current: currentEnd(), err: periods.ErrMustBeIndefinite})
	rec, env := send(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/c1/periods/extend", `{"fecha_fin":"2027-12-31"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "must_be_indefinite", env.Error.Code)

	h = setup(t, &fakeService{current: currentEnd(), err: periods.ErrContractTerminated})
	rec, env = send(t, h, auth.RoleRRHH, http.MethodPost, "/contracts/c1/periods/extend", `{"fecha_fin":"2027-12-31"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "contract_terminated", env.Error.Code)
}

func TestPeriodReadsAndPermissions(t *testing.T) {
	h := setup(t, &fakeService{current: currentEnd()})

	rec, _ := send(t, h, auth.RoleConsulta, http.MethodGet, "/contracts/c1/periods", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := send(t, h, auth.RoleConsulta, http.MethodGet, "/contracts/c1/periods/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ov periods.Overview
	require.NoError(t, json.Unmarshal(env.Data, &ov))
	assert.Equal(t, "c1", ov.ContractID)

	rec, _ = send(t, h, auth.RoleConsulta, http.MethodPost, "/contracts/c1/periods/extend", `{"fecha_fin":"2027-06-30"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
