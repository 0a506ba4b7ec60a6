package novedades

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcontracts/internal/domain/contracts"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func at(hour int) time.Time {
	return time.Date(2026, 10, 1, hour, 0, 0, 0, time.UTC)
}

func baseContract() contracts.Contract {
	salario := decimal.RequireFromString("2000000")
	aux := decimal.RequireFromString("300000")
	return contracts.Contract{
		ID:                      "c1",
		PrimerNombre:            "Ana",
		SegundoNombre:           "María",
		PrimerApellido:          "Gómez",
		Cargo:                   "Analista",
		Correo:                  "ana@example.com",
		Salario:                 &salario,
		AuxilioSalarial:         &aux,
		AuxilioSalarialConcepto: "Bonificación",
		TipoContrato:            contracts.TipoFijo,
		FechaIngreso:            day(2026, 1, 1),
		FechaFin:                ptr(day(2026, 12, 31)),
		Onboarding:              contracts.Onboarding{EPSNombre: "Sura"},
		Beneficiarios:           contracts.Beneficiarios{Hijos: 2, Madre: 1},
	}
}

func TestFoldKeepsLatestPerField(t *testing.T) {
	rows := []Novedad{
		{ID: "n3", Field: FieldSalario, ValorNuevo: ptr("3000000"), CreatedAt: at(12)},
		{ID: "n2", Field: FieldSalario, ValorNuevo: ptr("2500000"), CreatedAt: at(10)},
		{ID: "n1", Field: FieldAuxilioTransporte, ValorNuevo: ptr("200000"), CreatedAt: at(9)},
	}
	latest := Fold(rows)
	require.Len(t, latest, 2)
	assert.Equal(t, "n3", latest[FieldSalario].ID)
	assert.Equal(t, "n1", latest[FieldAuxilioTransporte].ID)
}

func TestFoldIgnoresInputOrder(t *testing.T) {
	rows := []Novedad{
		{ID: "old", Field: FieldCargo, CreatedAt: at(8)},
		{ID: "new", Field: FieldCargo, CreatedAt: at(11)},
	}
	assert.Equal(t, "new", Fold(rows)[FieldCargo].ID)
}

func TestFoldTieKeepsFirstRow(t *testing.T) {
	rows := []Novedad{
		{ID: "first", Field: FieldCargo, CreatedAt: at(10)},
		{ID: "second", Field: FieldCargo, CreatedAt: at(10)},
	}
	assert.Equal(t, "first", Fold(rows)[FieldCargo].ID)
}

func TestResolutionChainPrefersNovedad(t *testing.T) {
	c := baseContract()
	rows := []Novedad{{
		ID: "n1", Field: FieldSalario, ValorNuevo: ptr("2800000"),
		FechaEfectiva: day(2026, 6, 1), CreatedAt: at(10),
	}}
	chain := ChainFor(c, CatEconomica, rows)

	salario := chain.Resolve(FieldSalario)
	assert.Equal(t, "2800000", *salario.Value)
	assert.Equal(t, SourceNovedad, salario.Source)
	assert.Equal(t, "n1", salario.NovedadID)

	aux := chain.Resolve(FieldAuxilioSalarial)
	assert.Equal(t, SourceContrato, aux.Source)
	assert.Equal(t, "300000", *aux.Value)
	assert.Equal(t, "Bonificación", *aux.Concepto)

	transporte := chain.Resolve(FieldAuxilioTransporte)
	assert.Equal(t, SourceContrato, transporte.Source)
	assert.Nil(t, transporte.Value)
}

func TestResolutionChainUnknownField(t *testing.T) {
	chain := ChainFor(baseContract(), CatCargo, nil)
	assert.Equal(t, SourceNone, chain.Resolve("otro").Source)
	assert.Equal(t, "Analista", *chain.Resolve(FieldCargo).Value)
}

func TestParseFlag(t *testing.T) {
	for raw, want := range map[string]bool{"1": true, "true": true, "TRUE": true, "0": false, "false": false} {
		got, err := ParseFlag(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseFlag("si")
	assert.Error(t, err)
}

func TestBuildStateResolvesEveryCategory(t *testing.T) {
	c := baseContract()
	today := day(2026, 10, 16)
	results := map[Category]categoryResult{
		CatDatosPersonales: {Rows: []Novedad{{ID: "n1", Field: FieldCorreo, ValorNuevo: ptr("ana.g@example.com"), CreatedAt: at(9)}}},
		CatBeneficios:      {Rows: []Novedad{{ID: "n2", Field: FieldPadre, ValorNuevo: ptr("1"), CreatedAt: at(9)}}},
		CatIncapacidad: {Rows: []Novedad{
			{ID: "n3", Field: FieldIncapacidadComun, FechaInicio: ptr(day(2026, 10, 14)), FechaFin: ptr(day(2026, 10, 18)), CreatedAt: at(9)},
			{ID: "n4", Field: FieldIncapacidadComun, FechaInicio: ptr(day(2026, 9, 1)), FechaFin: ptr(day(2026, 9, 3)), CreatedAt: at(8)},
		}},
	}

	state := BuildState(c, results, today)
	assert.Equal(t, "ana.g@example.com", *state.Value(CatDatosPersonales, FieldCorreo))
	assert.Equal(t, "Ana María", *state.Value(CatDatosPersonales, FieldNombres))
	assert.Equal(t, "true", *state.Value(CatBeneficios, FieldPadre))
	assert.Equal(t, "true", *state.Value(CatBeneficios, FieldMadre))
	assert.Equal(t, "false", *state.Value(CatBeneficios, FieldConyuge))
	assert.Equal(t, "2", *state.Value(CatBeneficios, FieldHijos))
	assert.Equal(t, "Sura", *state.Value(CatEntidad, FieldEPS))
	require.Len(t, state.Spans[CatIncapacidad], 1)
	assert.Equal(t, "n3", state.Spans[CatIncapacidad][0].ID)
	assert.Nil(t, state.Terminacion)
	assert.False(t, state.Terminado)
	assert.Nil(t, state.Errors)
}

func TestBuildStateFailedCategoryKeepsBaseValues(t *testing.T) {
	results := map[Category]categoryResult{
		CatEconomica: {Err: errors.New("connection reset")},
	}
	state := BuildState(baseContract(), results, day(2026, 10, 16))
	assert.Equal(t, "connection reset", state.Errors[CatEconomica])
	salario := state.Fields[CatEconomica][FieldSalario]
	assert.Equal(t, SourceContrato, salario.Source)
	assert.Equal(t, "2000000", *salario.Value)
}

func TestBuildStateTermination(t *testing.T) {
	results := map[Category]categoryResult{
		CatTerminacion: {Rows: []Novedad{{ID: "t1", Field: FieldRenuncia, FechaEfectiva: day(2026, 10, 16), CreatedAt: at(9)}}},
	}
	state := BuildState(baseContract(), results, day(2026, 10, 16))
	require.NotNil(t, state.Terminacion)
	assert.Equal(t, "t1", state.Terminacion.ID)
	assert.True(t, state.Terminado)

	future := map[Category]categoryResult{
		CatTerminacion: {Rows: []Novedad{{ID: "t2", Field: FieldRenuncia, FechaEfectiva: day(2026, 11, 1), CreatedAt: at(9)}}},
	}
	state = BuildState(baseContract(), future, day(2026, 10, 16))
	assert.NotNil(t, state.Terminacion)
	assert.False(t, state.Terminado)
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 1, InclusiveDays(day(2026, 3, 1), day(2026, 3, 1)))
	assert.Equal(t, 31, InclusiveDays(day(2026, 3, 1), day(2026, 3, 31)))
}
