package contracts

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"hrcontracts/internal/apperror"
)

// Validate checks the business rules of an input before it reaches the database.
func Validate(in Input) error {
	v := &apperror.ValidationError{}
	required := map[string]string{
		"primer_nombre":         in.PrimerNombre,
		"primer_apellido":       in.PrimerApellido,
		"numero_identificacion": in.NumeroIdentificacion,
		"empresa_interna":       in.EmpresaInterna,
		"cargo":                 in.Cargo,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			v.Add(field, "is required")
		}
	}
	if !slices.Contains(TiposContrato, in.TipoContrato) {
		v.Add("tipo_contrato", "must be one of "+strings.Join(TiposContrato, ", "))
	}
	if in.FechaIngreso.IsZero() {
		v.Add("fecha_ingreso", "is required")
	}
	if in.TipoContrato == TipoFijo && in.FechaFin == nil {
		v.Add("fecha_fin", "is required for fixed-term contracts")
	}
	if in.FechaFin != nil && !in.FechaIngreso.IsZero() && in.FechaFin.Before(in.FechaIngreso) {
		v.Add("fecha_fin", "must be on or after fecha_ingreso")
	}

	for field, amount := range map[string]*decimal.Decimal{
		"salario":             in.Salario,
		"auxilio_salarial":    in.AuxilioSalarial,
		"auxilio_no_salarial": in.AuxilioNoSalarial,
		"auxilio_transporte":  in.AuxilioTransporte,
	} {
		if amount != nil && amount.IsNegative() {
			v.Add(field, "must not be negative")
		}
	}
	if in.AuxilioSalarial != nil && in.AuxilioSalarial.IsPositive() && strings.TrimSpace(in.AuxilioSalarialConcepto) == "" {
		v.Add("auxilio_salarial_concepto", "is required when auxilio_salarial is set")
	}
	if in.AuxilioNoSalarial != nil && in.AuxilioNoSalarial.IsPositive() && strings.TrimSpace(in.AuxilioNoSalarialConcepto) == "" {
		v.Add("auxilio_no_salarial_concepto", "is required when auxilio_no_salarial is set")
	}

	b := in.Beneficiarios
	if b.Hijos < 0 {
		v.Add("beneficiario_hijo", "must not be negative")
	}
	for field, flag := range map[string]int{"beneficiario_madre": b.Madre, "beneficiario_padre": b.Padre, "beneficiario_conyuge": b.Conyuge} {
		if flag != 0 && flag != 1 {
			v.Add(field, "must be 0 or 1")
		}
	}
	return v.OrNil()
}
