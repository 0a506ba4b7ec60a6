package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contractColumns = []string{
	"id", "primer_nombre", "segundo_nombre", "primer_apellido", "segundo_apellido",
	"tipo_identificacion", "numero_identificacion", "celular", "correo", "direccion",
	"empresa_interna", "empresa_cliente_id", "cargo",
	"salario", "auxilio_salarial", "auxilio_salarial_concepto",
	"auxilio_no_salarial", "auxilio_no_salarial_concepto", "auxilio_transporte",
	"tipo_contrato", "fecha_ingreso", "fecha_fin",
	"programacion_cita_examenes", "examenes", "fecha_examenes",
	"solicitud_inscripcion_arl", "arl_nombre", "arl_fecha_confirmacion",
	"solicitud_eps", "eps_nombre", "eps_fecha_confirmacion",
	"solicitud_fondo_pension", "fondo_pension_nombre", "fondo_pension_fecha_confirmacion",
	"solicitud_cesantias", "fondo_cesantias_nombre", "cesantias_fecha_confirmacion",
	"beneficiario_hijo", "beneficiario_madre", "beneficiario_padre", "beneficiario_conyuge",
	"status_aprobacion", "aprobado_por", "fecha_aprobacion",
	"created_by", "created_at", "updated_by", "updated_at",
	"fecha_terminacion",
}

func moneyText(d *decimal.Decimal) *string {
	return moneyArg(d)
}

// contractRow lays c out in selectColumns order with the types the scanner expects.
func contractRow(c Contract) []any {
	return []any{
		c.ID, c.PrimerNombre, c.SegundoNombre, c.PrimerApellido, c.SegundoApellido,
		c.TipoIdentificacion, c.NumeroIdentificacion, c.Celular, c.Correo, c.Direccion,
		c.EmpresaInterna, c.EmpresaClienteID, c.Cargo,
		moneyText(c.Salario), moneyText(c.AuxilioSalarial), c.AuxilioSalarialConcepto,
		moneyText(c.AuxilioNoSalarial), c.AuxilioNoSalarialConcepto, moneyText(c.AuxilioTransporte),
		c.TipoContrato, c.FechaIngreso, c.FechaFin,
		c.ProgramacionCitaExamenes, c.Examenes, c.FechaExamenes,
		c.SolicitudInscripcionARL, c.ARLNombre, c.ARLFechaConfirmacion,
		c.SolicitudEPS, c.EPSNombre, c.EPSFechaConfirmacion,
		c.SolicitudFondoPension, c.FondoPensionNombre, c.FondoPensionFechaConfirmacion,
		c.SolicitudCesantias, c.FondoCesantiasNombre, c.CesantiasFechaConfirmacion,
		c.Hijos, c.Madre, c.Padre, c.Conyuge,
		c.StatusAprobacion, c.AprobadoPor, c.FechaAprobacion,
		c.CreatedBy, c.CreatedAt, c.UpdatedBy, c.UpdatedAt,
		c.FechaTerminacion,
	}
}

func sampleContract() Contract {
	created := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	return Contract{
		ID:                   "c1",
		PrimerNombre:         "Ana",
		PrimerApellido:       "Gómez",
		TipoIdentificacion:   "CC",
		NumeroIdentificacion: "1020304050",
		EmpresaInterna:       "Servicios SAS",
		Cargo:                "Analista",
		Salario:              money("2000000"),
		AuxilioTransporte:    money("162000"),
		TipoContrato:         TipoFijo,
		FechaIngreso:         day(2026, 1, 1),
		FechaFin:             ptr(day(2026, 12, 31)),
		StatusAprobacion:     ptr(AprobacionDraft),
		CreatedAt:            created,
		UpdatedAt:            created,
	}
}

func TestStoreGetScansAllColumns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := sampleContract()
	want.Onboarding.SolicitudEPS = true
	want.Onboarding.EPSNombre = "Sura"
	want.Beneficiarios.Hijos = 2
	mock.ExpectQuery("SELECT .* FROM contracts c .* WHERE c.id = \\$1").
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(contractColumns).AddRow(contractRow(want)...))

	got, err := NewStore(mock).Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.PrimerNombre)
	assert.True(t, got.Salario.Equal(*want.Salario))
	assert.Nil(t, got.AuxilioSalarial)
	assert.Equal(t, "Sura", got.EPSNombre)
	assert.Equal(t, 2, got.Hijos)
	assert.Equal(t, AprobacionDraft, *got.StatusAprobacion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .* WHERE c.id = \\$1").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	_, err = NewStore(mock).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("COALESCE\\(c.status_aprobacion, 'aprobado'\\) = \\$1 AND c.tipo_contrato = \\$2 ORDER BY c.created_at DESC").
		WithArgs(AprobacionDraft, TipoFijo).
		WillReturnRows(pgxmock.NewRows(contractColumns).AddRow(contractRow(sampleContract())...))

	items, err := NewStore(mock).List(context.Background(), StoreFilter{StatusAprobacion: AprobacionDraft, TipoContrato: TipoFijo})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCreateAlwaysDraft(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	in := validInput()
	args := make([]any, 0, 26)
	for range inputArgs(in, "u1") {
		args = append(args, pgxmock.AnyArg())
	}
	mock.ExpectQuery("INSERT INTO contracts .* 'draft'").
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c-new"))

	id, err := NewStore(mock).Create(context.Background(), in, "u1")
	require.NoError(t, err)
	assert.Equal(t, "c-new", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateReportsApprovedRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	args := make([]any, 0, 27)
	for range 27 {
		args = append(args, pgxmock.AnyArg())
	}
	mock.ExpectExec("UPDATE contracts SET .* WHERE id = \\$27 AND status_aprobacion = 'draft'").
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := NewStore(mock).Update(context.Background(), "c1", validInput(), "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreApproveCallsProcedure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("SELECT approve_contract\\(\\$1, \\$2\\)").
		WithArgs("c1", "u1").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	require.NoError(t, NewStore(mock).Approve(context.Background(), "c1", "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveOnboardingMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	args := make([]any, 0, 17)
	for range 17 {
		args = append(args, pgxmock.AnyArg())
	}
	mock.ExpectExec("UPDATE contracts SET").WithArgs(args...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err = NewStore(mock).SaveOnboarding(context.Background(), "c1", Onboarding{}, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
